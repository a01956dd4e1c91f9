/**
 * 服务层:服务水平监控代理
 * @author: sun977
 * @date: 2026.03.17
 * @description: 运输路由之后的服务水平巡检，评估各节点需求覆盖率并产出告警
 * @func: 在途补给汇总、服务水平计算(封顶1.0)、缺口与紧急度分级
 */
package agents

import (
	"fmt"
	"math"

	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/pkg/logger"
)

const (
	// targetServiceLevel 服务水平目标，低于该值产出告警
	targetServiceLevel = 0.95
	// criticalServiceLevel 服务水平紧急阈值，低于该值告警升级为CRITICAL
	criticalServiceLevel = 0.80
)

// ServiceLevelMonitor 服务水平监控代理
// 对有需求的节点计算(现有库存+在途补给)对需求的覆盖率，零需求节点直接跳过
type ServiceLevelMonitor struct{}

// NewServiceLevelMonitor 创建服务水平监控代理实例
func NewServiceLevelMonitor() *ServiceLevelMonitor {
	return &ServiceLevelMonitor{}
}

// Name 返回代理名称
func (a *ServiceLevelMonitor) Name() string {
	return "ServiceLevelMonitor"
}

// MakeDecision 巡检所有有需求节点的服务水平并产出告警决策
func (a *ServiceLevelMonitor) MakeDecision(state *CycleState) (*StageOutput, error) {
	if state == nil || state.Nodes == nil || state.Demands == nil {
		logger.LogError(fmt.Errorf("missing required cycle state fields: nodes/demands"), "", 0, "", "service.agents.service_level", "", map[string]interface{}{
			"operation": "make_decision",
			"option":    "validateState",
			"func_name": "service.agents.ServiceLevelMonitor.MakeDecision",
			"agent":     a.Name(),
		})
		return emptyStageOutput(), nil
	}

	// 按目标节点汇总在途补给量
	incoming := make(map[uint64]int64)
	for _, transport := range state.TransportDecisions {
		if transport.Type == decisionModel.TypeTransport {
			incoming[transport.DestNodeID] += transport.Quantity
		}
	}

	alerts := make([]decisionModel.Decision, 0)
	for _, node := range state.Nodes {
		currentDemand := state.Demands[node.ID]
		if currentDemand == 0 {
			// 零需求节点不存在服务缺口
			continue
		}

		totalAvailable := node.CurrentInventory + incoming[node.ID]
		serviceLevel := math.Min(float64(totalAvailable)/float64(currentDemand), 1.0)

		if serviceLevel >= targetServiceLevel {
			continue
		}

		shortfall := currentDemand - totalAvailable
		if shortfall < 0 {
			shortfall = 0
		}

		urgency := decisionModel.UrgencyHigh
		if serviceLevel < criticalServiceLevel {
			urgency = decisionModel.UrgencyCritical
		}

		alerts = append(alerts, decisionModel.Decision{
			Agent:      a.Name(),
			Type:       decisionModel.TypeServiceAlert,
			Urgency:    urgency,
			DestNodeID: node.ID,
			Reason:     fmt.Sprintf("节点 %s 服务水平 %.1f%%", node.Code, serviceLevel*100),
			Metadata: decisionModel.MetadataJSON{
				"current_service_level": serviceLevel,
				"target_service_level":  targetServiceLevel,
				"shortfall":             shortfall,
				"current_inventory":     node.CurrentInventory,
				"incoming_shipments":    incoming[node.ID],
				"current_demand":        currentDemand,
			},
		})
	}

	return &StageOutput{Decisions: alerts}, nil
}
