/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 决策查询服务
 * @func:
 * 1.决策历史过滤查询
 * 2.最近一轮周期汇总查询(Redis缓存)
 * 3.紧急度分布统计
 */
package decision

import (
	"context"
	"fmt"

	"chainmaster/internal/config"
	"chainmaster/internal/model"
	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/repository/mysql"
	"chainmaster/internal/repository/redis"
)

// QueryService 决策查询服务
type QueryService struct {
	decisionRepo *mysql.DecisionRepository
	cycleCache   *redis.CycleCacheRepository
	pipelineCfg  *config.PipelineConfig
}

// NewQueryService 创建决策查询服务实例
func NewQueryService(
	decisionRepo *mysql.DecisionRepository,
	cycleCache *redis.CycleCacheRepository,
	pipelineCfg *config.PipelineConfig,
) *QueryService {
	return &QueryService{
		decisionRepo: decisionRepo,
		cycleCache:   cycleCache,
		pipelineCfg:  pipelineCfg,
	}
}

// ListDecisions 按条件查询决策历史
// pageSize为0时使用配置的默认历史条数
func (s *QueryService) ListDecisions(ctx context.Context, agentName, decisionType, urgency string, page, pageSize int) (*model.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = s.pipelineCfg.DecisionHistory
	}

	filter := mysql.DecisionFilter{
		AgentName:    agentName,
		DecisionType: decisionModel.Type(decisionType),
		Urgency:      decisionModel.Urgency(urgency),
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	}

	entities, total, err := s.decisionRepo.ListDecisions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &model.PaginationResponse{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Data:        entities,
	}, nil
}

// GetDecision 根据ID获取决策
func (s *QueryService) GetDecision(ctx context.Context, id uint64) (*decisionModel.AgentDecision, error) {
	entity, err := s.decisionRepo.GetDecisionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	if entity == nil {
		return nil, fmt.Errorf("decision not found: %d", id)
	}
	return entity, nil
}

// GetLatestCycle 获取最近一轮周期汇总
// 缓存未命中时返回 nil, nil，由接口层返回404
func (s *QueryService) GetLatestCycle(ctx context.Context) (*decisionModel.CycleSummary, error) {
	return s.cycleCache.GetLatestCycle(ctx)
}

// UrgencyStats 各紧急度决策数量统计
func (s *QueryService) UrgencyStats(ctx context.Context) (map[decisionModel.Urgency]int64, error) {
	return s.decisionRepo.CountDecisionsByUrgency(ctx)
}
