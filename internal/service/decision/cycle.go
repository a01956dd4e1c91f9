/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 决策周期执行服务
 * @func:
 * 1.单轮决策周期执行(快照->需求生成->管线->落库->调拨执行->成本汇总)
 * 2.周期汇总Redis缓存
 * 3.预测值回填需求记录
 */
package decision

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"chainmaster/internal/config"
	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/repository/mysql"
	"chainmaster/internal/repository/redis"
	"chainmaster/internal/service/agents"
	networkService "chainmaster/internal/service/network"
)

// CycleService 决策周期执行服务
// 协调器持有跨周期的预测滚动历史，服务实例全局唯一；
// 周期执行用互斥锁串行化，避免并发周期互相覆盖库存变更
type CycleService struct {
	mu            sync.Mutex
	coordinator   *agents.Coordinator
	nodeRepo      *mysql.NodeRepository
	demandRepo    *mysql.DemandRepository
	decisionRepo  *mysql.DecisionRepository
	cycleCache    *redis.CycleCacheRepository
	demandService *networkService.DemandService
	pipelineCfg   *config.PipelineConfig
}

// NewCycleService 创建周期服务实例
func NewCycleService(
	nodeRepo *mysql.NodeRepository,
	demandRepo *mysql.DemandRepository,
	decisionRepo *mysql.DecisionRepository,
	cycleCache *redis.CycleCacheRepository,
	demandService *networkService.DemandService,
	pipelineCfg *config.PipelineConfig,
) *CycleService {
	return &CycleService{
		coordinator:   agents.NewCoordinator(),
		nodeRepo:      nodeRepo,
		demandRepo:    demandRepo,
		decisionRepo:  decisionRepo,
		cycleCache:    cycleCache,
		demandService: demandService,
		pipelineCfg:   pipelineCfg,
	}
}

// RunCycle 执行一轮完整决策周期
// 流程:加载启用节点快照 -> 生成当期需求 -> 运行决策管线 -> 决策落库 ->
// 执行运输调拨 -> 成本汇总 -> 缓存周期汇总
func (s *CycleService) RunCycle(ctx context.Context) (*decisionModel.CycleSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now()

	// 加载启用节点
	nodes, err := s.nodeRepo.ListNodes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, errors.New("no nodes found, please initialize network first")
	}

	// 生成当期需求并落库
	demands, err := s.demandService.GenerateDemands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate demands: %w", err)
	}

	// 组装周期状态
	state := &agents.CycleState{
		Demands: demands,
	}
	for i := range nodes {
		state.Nodes = append(state.Nodes, nodes[i].Snapshot())
	}

	// 运行决策管线(阶段失败已在管线内部隔离)
	result := s.coordinator.RunCycle(state)

	// 预测值回填当期需求记录
	period := startedAt.Truncate(24 * time.Hour)
	for nodeID, forecast := range result.Forecasts {
		if err := s.demandRepo.UpdateForecastQuantity(ctx, nodeID, period, forecast); err != nil {
			logger.LogError(err, "", 0, "", "cycle_run", "POST", map[string]interface{}{
				"operation": "update_forecast_quantity",
				"node_id":   nodeID,
				"timestamp": logger.NowFormatted(),
			})
		}
	}

	// 决策落库(库存+运输+告警)
	allDecisions := make([]decisionModel.Decision, 0,
		len(result.InventoryDecisions)+len(result.TransportDecisions)+len(result.ServiceAlerts))
	allDecisions = append(allDecisions, result.InventoryDecisions...)
	allDecisions = append(allDecisions, result.TransportDecisions...)
	allDecisions = append(allDecisions, result.ServiceAlerts...)

	entities, err := s.decisionRepo.BatchCreateDecisions(ctx, allDecisions)
	if err != nil {
		return nil, fmt.Errorf("failed to persist decisions: %w", err)
	}

	// 执行运输调拨并统计实际入库量
	// 落库顺序为库存->运输->告警，运输实体从库存决策数量处偏移
	transported := s.executeTransports(ctx, result, entities, len(result.InventoryDecisions))

	// 成本汇总
	totalCost := 0.0
	for i := range result.TransportDecisions {
		totalCost += result.TransportDecisions[i].EstimatedCost
	}
	penaltyCost := 0.0
	for i := range result.ServiceAlerts {
		penaltyCost += decisionModel.UrgencyPenalty(result.ServiceAlerts[i].Urgency)
	}

	urgencyCounts := make(map[decisionModel.Urgency]int64)
	for i := range allDecisions {
		urgencyCounts[allDecisions[i].Urgency]++
	}

	summary := &decisionModel.CycleSummary{
		CycleID:       fmt.Sprintf("cycle-%d", startedAt.UnixMilli()),
		StartedAt:     startedAt,
		DurationMs:    time.Since(startedAt).Milliseconds(),
		NodeCount:     len(nodes),
		Forecasts:     result.Forecasts,
		Decisions:     allDecisions,
		DecisionCount: len(allDecisions),
		UrgencyCounts: urgencyCounts,
		TotalCost:     math.Round(totalCost*100) / 100,
		PenaltyCost:   math.Round(penaltyCost*100) / 100,
		Transported:   transported,
		Logs:          result.Logs,
	}

	// 缓存最近一轮汇总(缓存失败不影响周期结果)
	if err := s.cycleCache.StoreLatestCycle(ctx, summary, s.pipelineCfg.CycleCacheTTL); err != nil {
		logger.LogError(err, "", 0, "", "cycle_run", "POST", map[string]interface{}{
			"operation": "store_cycle_cache",
			"cycle_id":  summary.CycleID,
			"timestamp": logger.NowFormatted(),
		})
	}

	logger.LogBusinessOperation("cycle_run", 0, "", "", "", "success", "决策周期执行完成", map[string]interface{}{
		"cycle_id":       summary.CycleID,
		"node_count":     summary.NodeCount,
		"decision_count": summary.DecisionCount,
		"total_cost":     summary.TotalCost,
		"penalty_cost":   summary.PenaltyCost,
		"transported":    summary.Transported,
		"duration_ms":    summary.DurationMs,
	})
	return summary, nil
}

// executeTransports 执行运输决策的库存调拨
// 单条调拨失败(如源库存已不足)时记录日志并继续，成功的调拨标记决策已执行
func (s *CycleService) executeTransports(
	ctx context.Context,
	result *agents.CycleResult,
	entities []decisionModel.AgentDecision,
	transportOffset int,
) int64 {
	var transported int64

	for i := range result.TransportDecisions {
		d := &result.TransportDecisions[i]
		if d.SourceNodeID == 0 || d.DestNodeID == 0 || d.Quantity <= 0 {
			continue
		}

		applied, err := s.nodeRepo.ApplyTransport(ctx, d.SourceNodeID, d.DestNodeID, d.Quantity)
		if err != nil {
			// 调拨失败不中断周期，对应决策保持未执行状态
			logger.LogError(err, "", 0, "", "cycle_run", "POST", map[string]interface{}{
				"operation": "execute_transport",
				"source_id": d.SourceNodeID,
				"dest_id":   d.DestNodeID,
				"quantity":  d.Quantity,
				"timestamp": logger.NowFormatted(),
			})
			continue
		}
		transported += applied

		entityIndex := transportOffset + i
		if entityIndex < len(entities) {
			if err := s.decisionRepo.MarkExecuted(ctx, entities[entityIndex].ID); err != nil {
				logger.LogError(err, "", 0, "", "cycle_run", "POST", map[string]interface{}{
					"operation":   "mark_executed",
					"decision_id": entities[entityIndex].ID,
					"timestamp":   logger.NowFormatted(),
				})
			}
		}
	}

	return transported
}
