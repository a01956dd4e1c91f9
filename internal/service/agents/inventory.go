/**
 * 服务层:库存策略代理
 * @author: sun977
 * @date: 2026.03.16
 * @description: 库存策略核心算法，按容量比例阈值与供应天数对节点分类
 * @func: 补货判定(REORDER)、冗余再分配判定(REDISTRIBUTE)、紧急度分级
 */
package agents

import (
	"fmt"
	"math"

	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/pkg/logger"
)

// 库存策略固定常量(均为容量的比例)
const (
	reorderPointRatio = 0.30 // 补货点:低于该水位触发补货
	targetLevelRatio  = 0.70 // 目标水位:补货后期望达到的水位
	safetyStockRatio  = 0.15 // 安全库存:补货量额外追加的缓冲
	surplusRatio      = 0.90 // 冗余水位:高于该水位触发再分配
	// daysOfSupplyFloor 供应天数低于该值同样触发补货
	daysOfSupplyFloor = 7.0
)

// InventoryPolicyAgent 库存策略代理
// 对每个启用节点做互斥分类：补货、再分配或不动作(同一周期内不会同时补货又再分配)
type InventoryPolicyAgent struct{}

// NewInventoryPolicyAgent 创建库存策略代理实例
func NewInventoryPolicyAgent() *InventoryPolicyAgent {
	return &InventoryPolicyAgent{}
}

// Name 返回代理名称
func (a *InventoryPolicyAgent) Name() string {
	return "InventoryManager"
}

// MakeDecision 评估所有启用节点的库存水位并产出补货/再分配决策
func (a *InventoryPolicyAgent) MakeDecision(state *CycleState) (*StageOutput, error) {
	if state == nil || state.Nodes == nil || state.Demands == nil {
		logger.LogError(fmt.Errorf("missing required cycle state fields: nodes/demands"), "", 0, "", "service.agents.inventory", "", map[string]interface{}{
			"operation": "make_decision",
			"option":    "validateState",
			"func_name": "service.agents.InventoryPolicyAgent.MakeDecision",
			"agent":     a.Name(),
		})
		return emptyStageOutput(), nil
	}

	decisions := make([]decisionModel.Decision, 0)
	for _, node := range state.Nodes {
		if !node.IsActive {
			continue
		}

		inventory := node.CurrentInventory
		capacity := node.InventoryCapacity
		ratio := 0.0
		if capacity > 0 {
			ratio = float64(inventory) / float64(capacity)
		}

		currentDemand := state.Demands[node.ID]
		daysOfSupply := math.Inf(1)
		if currentDemand > 0 {
			daysOfSupply = float64(inventory) / float64(currentDemand)
		}

		switch {
		case ratio < reorderPointRatio || daysOfSupply < daysOfSupplyFloor:
			// 补货量 = (目标水位 - 当前库存) + 安全库存
			quantity := int64(math.Round(targetLevelRatio*float64(capacity)-float64(inventory))) +
				int64(math.Round(safetyStockRatio*float64(capacity)))

			metadata := decisionModel.MetadataJSON{
				"current_inventory": inventory,
				"target_inventory":  int64(math.Round(targetLevelRatio * float64(capacity))),
				"forecast_demand":   state.Forecasts[node.ID],
			}
			if !math.IsInf(daysOfSupply, 1) {
				metadata["days_of_supply"] = math.Round(daysOfSupply*100) / 100
			}

			decisions = append(decisions, decisionModel.Decision{
				Agent:      a.Name(),
				Type:       decisionModel.TypeReorder,
				Urgency:    reorderUrgency(ratio, daysOfSupply),
				DestNodeID: node.ID,
				Quantity:   quantity,
				Reason:     fmt.Sprintf("节点 %s 库存水位 %.1f%% (可供 %.1f 天)", node.Code, ratio*100, daysOfSupply),
				Metadata:   metadata,
			})

		case ratio > surplusRatio:
			// 冗余量 = 当前库存超出目标水位的部分
			quantity := int64(math.Round(float64(inventory) - targetLevelRatio*float64(capacity)))

			decisions = append(decisions, decisionModel.Decision{
				Agent:        a.Name(),
				Type:         decisionModel.TypeRedistribute,
				Urgency:      decisionModel.UrgencyLow,
				SourceNodeID: node.ID,
				Quantity:     quantity,
				Reason:       fmt.Sprintf("节点 %s 库存冗余: 水位 %.1f%%", node.Code, ratio*100),
				Metadata: decisionModel.MetadataJSON{
					"current_inventory": inventory,
					"excess_amount":     quantity,
				},
			})
		}
	}

	return &StageOutput{Decisions: decisions}, nil
}

// reorderUrgency 根据库存水位与供应天数计算补货紧急度
func reorderUrgency(ratio, daysOfSupply float64) decisionModel.Urgency {
	switch {
	case ratio < 0.10 || daysOfSupply < 3:
		return decisionModel.UrgencyCritical
	case ratio < 0.20 || daysOfSupply < 5:
		return decisionModel.UrgencyHigh
	case ratio < 0.30 || daysOfSupply < 7:
		return decisionModel.UrgencyMedium
	default:
		return decisionModel.UrgencyLow
	}
}
