/**
 * 服务层:运输路由代理
 * @author: sun977
 * @date: 2026.03.17
 * @description: 运输路由核心算法，为补货需求做成本最小的单源贪心指派
 * @func: 候选源筛选、haversine距离成本计算、紧急度成本系数、在途时间估算
 */
package agents

import (
	"fmt"
	"math"

	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/pkg/geo"
	"chainmaster/internal/pkg/logger"
)

// 运输成本常量
const (
	costPerMile = 2.5 // 每英里运输成本
	costPerUnit = 0.5 // 每单位装卸成本
)

// TransportationRouter 运输路由代理
// 只消费补货(REORDER)决策：为每条补货需求从其余启用节点中选出总成本最低的单一货源；
// 再分配(REDISTRIBUTE)决策在本管线中不参与路由。
// 贪心指派不保证全局最优，也不做多段运输与车辆容量建模
type TransportationRouter struct{}

// NewTransportationRouter 创建运输路由代理实例
func NewTransportationRouter() *TransportationRouter {
	return &TransportationRouter{}
}

// Name 返回代理名称
func (a *TransportationRouter) Name() string {
	return "TransportationOptimizer"
}

// route 单条候选路线的评估结果
type route struct {
	sourceID      uint64
	sourceCode    string
	distance      float64
	totalCost     float64
	transportCost float64
	handlingCost  float64
	transitTime   int64
}

// MakeDecision 为每条补货决策选择最优货源并产出运输决策
// 找不到库存充足的货源时该补货本周期落空(不产出决策)；
// 补货引用的节点ID不在当前快照中时跳过该条继续处理其余决策
func (a *TransportationRouter) MakeDecision(state *CycleState) (*StageOutput, error) {
	if state == nil || state.Nodes == nil || state.InventoryDecisions == nil {
		logger.LogError(fmt.Errorf("missing required cycle state fields: nodes/inventory_decisions"), "", 0, "", "service.agents.transport", "", map[string]interface{}{
			"operation": "make_decision",
			"option":    "validateState",
			"func_name": "service.agents.TransportationRouter.MakeDecision",
			"agent":     a.Name(),
		})
		return emptyStageOutput(), nil
	}

	nodeIndex := make(map[uint64]networkModel.NodeSnapshot, len(state.Nodes))
	for _, node := range state.Nodes {
		nodeIndex[node.ID] = node
	}

	decisions := make([]decisionModel.Decision, 0)
	for _, reorder := range state.InventoryDecisions {
		if reorder.Type != decisionModel.TypeReorder {
			continue
		}

		dest, ok := nodeIndex[reorder.DestNodeID]
		if !ok {
			// 查找失败:跳过该条决策,继续处理剩余决策
			logger.LogError(fmt.Errorf("reorder references unknown node %d", reorder.DestNodeID), "", 0, "", "service.agents.transport", "", map[string]interface{}{
				"operation": "make_decision",
				"option":    "nodeIndex.lookup",
				"func_name": "service.agents.TransportationRouter.MakeDecision",
				"node_id":   reorder.DestNodeID,
			})
			continue
		}

		best := a.findOptimalRoute(dest, reorder.Quantity, state.Nodes, reorder.Urgency)
		if best == nil {
			// 无库存充足的货源,本周期该需求落空
			continue
		}

		decisions = append(decisions, decisionModel.Decision{
			Agent:         a.Name(),
			Type:          decisionModel.TypeTransport,
			Urgency:       reorder.Urgency,
			SourceNodeID:  best.sourceID,
			DestNodeID:    dest.ID,
			Quantity:      reorder.Quantity,
			EstimatedCost: best.totalCost,
			Reason:        fmt.Sprintf("最优调拨路线: %s -> %s", best.sourceCode, dest.Code),
			Metadata: decisionModel.MetadataJSON{
				"distance":     best.distance,
				"transit_time": best.transitTime,
				"cost_breakdown": map[string]interface{}{
					"transport": best.transportCost,
					"handling":  best.handlingCost,
				},
			},
		})
	}

	return &StageOutput{Decisions: decisions}, nil
}

// findOptimalRoute 在候选源中选择总成本最低的路线
// 候选源为目标之外所有库存不低于需求量的启用节点；
// 严格小于比较保证成本相同时先出现的候选胜出(按输入顺序确定)
func (a *TransportationRouter) findOptimalRoute(dest networkModel.NodeSnapshot, quantity int64, nodes []networkModel.NodeSnapshot, urgency decisionModel.Urgency) *route {
	var best *route
	lowestCost := math.Inf(1)

	for _, source := range nodes {
		if source.ID == dest.ID || !source.IsActive || source.CurrentInventory < quantity {
			continue
		}

		distance := geo.HaversineMiles(source.Latitude, source.Longitude, dest.Latitude, dest.Longitude)
		transportCost := distance * costPerMile
		handlingCost := float64(quantity) * costPerUnit
		totalCost := transportCost + handlingCost

		switch urgency {
		case decisionModel.UrgencyCritical:
			totalCost *= 1.5
		case decisionModel.UrgencyHigh:
			totalCost *= 1.2
		}

		if totalCost < lowestCost {
			lowestCost = totalCost
			best = &route{
				sourceID:      source.ID,
				sourceCode:    source.Code,
				distance:      distance,
				totalCost:     totalCost,
				transportCost: transportCost,
				handlingCost:  handlingCost,
				transitTime:   estimateTransitTime(distance, urgency),
			}
		}
	}

	return best
}

// estimateTransitTime 估算在途时间(小时)
// 紧急度越高按越快的车速估算:CRITICAL 65mph,HIGH 55mph,其余50mph
func estimateTransitTime(distance float64, urgency decisionModel.Urgency) int64 {
	speed := 50.0
	switch urgency {
	case decisionModel.UrgencyCritical:
		speed = 65.0
	case decisionModel.UrgencyHigh:
		speed = 55.0
	}
	return int64(math.Floor(distance / speed))
}
