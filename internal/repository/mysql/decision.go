/**
 * 决策仓库层:代理决策数据访问
 * @author: sun977
 * @date: 2026.03.18
 * @description: 决策周期产出的代理决策持久化与查询
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"time"

	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/pkg/logger"

	"gorm.io/gorm"
)

// DecisionRepository 代理决策仓库结构体
type DecisionRepository struct {
	db *gorm.DB // 数据库连接
}

// NewDecisionRepository 创建代理决策仓库实例
func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{
		db: db,
	}
}

// DecisionFilter 决策查询过滤条件
type DecisionFilter struct {
	AgentName    string                // 按代理名称过滤,空表示不过滤
	DecisionType decisionModel.Type    // 按决策类型过滤
	Urgency      decisionModel.Urgency // 按紧急度过滤
	Offset       int                   // 分页偏移
	Limit        int                   // 分页大小
}

// BatchCreateDecisions 将一轮决策周期的全部决策落库，返回持久化后的实体
func (r *DecisionRepository) BatchCreateDecisions(ctx context.Context, decisions []decisionModel.Decision) ([]decisionModel.AgentDecision, error) {
	if len(decisions) == 0 {
		return nil, nil
	}

	entities := make([]decisionModel.AgentDecision, 0, len(decisions))
	for i := range decisions {
		entities = append(entities, *decisions[i].ToEntity())
	}

	err := r.db.WithContext(ctx).Create(&entities).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "decision_batch_create", "POST", map[string]interface{}{
			"operation": "batch_create_decisions",
			"count":     len(entities),
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return entities, nil
}

// GetDecisionByID 根据ID获取决策
func (r *DecisionRepository) GetDecisionByID(ctx context.Context, id uint64) (*decisionModel.AgentDecision, error) {
	var entity decisionModel.AgentDecision
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		logger.LogError(err, "", 0, "", "decision_get", "GET", map[string]interface{}{
			"operation":   "get_decision_by_id",
			"decision_id": id,
			"timestamp":   logger.NowFormatted(),
		})
		return nil, err
	}
	return &entity, nil
}

// ListDecisions 按过滤条件查询决策历史，按创建时间倒序分页
func (r *DecisionRepository) ListDecisions(ctx context.Context, filter DecisionFilter) ([]decisionModel.AgentDecision, int64, error) {
	var entities []decisionModel.AgentDecision
	var total int64

	query := r.db.WithContext(ctx).Model(&decisionModel.AgentDecision{})
	if filter.AgentName != "" {
		query = query.Where("agent_name = ?", filter.AgentName)
	}
	if filter.DecisionType != "" {
		query = query.Where("decision_type = ?", filter.DecisionType)
	}
	if filter.Urgency != "" {
		query = query.Where("urgency = ?", filter.Urgency)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC, id DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&entities).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "decision_list", "GET", map[string]interface{}{
			"operation": "list_decisions",
			"timestamp": logger.NowFormatted(),
		})
		return nil, 0, err
	}
	return entities, total, nil
}

// CountDecisionsByUrgency 统计各紧急度的决策数量
func (r *DecisionRepository) CountDecisionsByUrgency(ctx context.Context) (map[decisionModel.Urgency]int64, error) {
	type urgencyCount struct {
		Urgency decisionModel.Urgency
		Count   int64
	}
	var rows []urgencyCount
	err := r.db.WithContext(ctx).Model(&decisionModel.AgentDecision{}).
		Select("urgency, COUNT(*) AS count").
		Group("urgency").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[decisionModel.Urgency]int64, len(rows))
	for _, row := range rows {
		counts[row.Urgency] = row.Count
	}
	return counts, nil
}

// MarkExecuted 标记决策已执行
func (r *DecisionRepository) MarkExecuted(ctx context.Context, id uint64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&decisionModel.AgentDecision{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_executed": true,
			"executed_at": &now,
		})
	if result.Error != nil {
		logger.LogError(result.Error, "", 0, "", "decision_execute", "PUT", map[string]interface{}{
			"operation":   "mark_executed",
			"decision_id": id,
			"timestamp":   logger.NowFormatted(),
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllDecisions 删除所有决策记录(网络重置)
func (r *DecisionRepository) DeleteAllDecisions(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&decisionModel.AgentDecision{}).Error
}
