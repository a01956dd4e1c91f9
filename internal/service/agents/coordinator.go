/**
 * 服务层:决策协调器
 * @author: sun977
 * @date: 2026.03.17
 * @description: 决策管线协调器，按固定顺序驱动四个阶段代理并在阶段间合并状态
 * @func: 单周期顺序执行(预测->库存->运输->服务水平)、阶段失败隔离、阶段完成日志
 */
package agents

import (
	"fmt"

	decisionModel "chainmaster/internal/model/decision"
	"chainmaster/internal/pkg/logger"
)

// Coordinator 决策协调器
// 持有固定顺序的阶段代理列表，逐阶段执行并将输出合并进周期状态；
// 周期状态在一个周期内由协调器独占，阶段之间不存在回退与重试
type Coordinator struct {
	forecastAgent  Agent
	inventoryAgent Agent
	transportAgent Agent
	serviceAgent   Agent
}

// NewCoordinator 创建决策协调器实例
// 预测代理持有跨周期的滚动历史，协调器实例应在周期之间复用
func NewCoordinator() *Coordinator {
	return &Coordinator{
		forecastAgent:  NewDemandForecastAgent(),
		inventoryAgent: NewInventoryPolicyAgent(),
		transportAgent: NewTransportationRouter(),
		serviceAgent:   NewServiceLevelMonitor(),
	}
}

// Name 返回协调器名称
func (c *Coordinator) Name() string {
	return "Coordinator"
}

// RunCycle 执行一个完整决策周期
// 四个阶段按固定顺序执行，每个阶段的输出先合并进周期状态再进入下一阶段；
// 任一阶段意外失败时记录完整上下文日志并返回已完成阶段的累积结果，
// 不重试、不回滚、不向上抛出
func (c *Coordinator) RunCycle(state *CycleState) *CycleResult {
	result := &CycleResult{
		Forecasts:          map[uint64]int64{},
		InventoryDecisions: []decisionModel.Decision{},
		TransportDecisions: []decisionModel.Decision{},
		ServiceAlerts:      []decisionModel.Decision{},
		Logs:               []string{},
	}

	// 阶段1: 需求预测
	forecastOut, err := c.runStage(c.forecastAgent, state)
	if err != nil {
		c.logStageFailure(c.forecastAgent.Name(), err, result)
		return result
	}
	state.Forecasts = forecastOut.Forecasts
	result.Forecasts = forecastOut.Forecasts
	result.Logs = append(result.Logs, fmt.Sprintf("%s: 需求预测完成, 覆盖 %d 个节点", c.forecastAgent.Name(), len(forecastOut.Forecasts)))

	// 阶段2: 库存策略
	inventoryOut, err := c.runStage(c.inventoryAgent, state)
	if err != nil {
		c.logStageFailure(c.inventoryAgent.Name(), err, result)
		return result
	}
	state.InventoryDecisions = inventoryOut.Decisions
	result.InventoryDecisions = inventoryOut.Decisions
	result.Logs = append(result.Logs, fmt.Sprintf("%s: 库存策略评估完成, 产出 %d 条决策", c.inventoryAgent.Name(), len(inventoryOut.Decisions)))

	// 阶段3: 运输路由
	transportOut, err := c.runStage(c.transportAgent, state)
	if err != nil {
		c.logStageFailure(c.transportAgent.Name(), err, result)
		return result
	}
	state.TransportDecisions = transportOut.Decisions
	result.TransportDecisions = transportOut.Decisions
	result.Logs = append(result.Logs, fmt.Sprintf("%s: 运输路由完成, 产出 %d 条调拨决策", c.transportAgent.Name(), len(transportOut.Decisions)))

	// 阶段4: 服务水平巡检
	serviceOut, err := c.runStage(c.serviceAgent, state)
	if err != nil {
		c.logStageFailure(c.serviceAgent.Name(), err, result)
		return result
	}
	state.ServiceAlerts = serviceOut.Decisions
	result.ServiceAlerts = serviceOut.Decisions
	result.Logs = append(result.Logs, fmt.Sprintf("%s: 服务水平巡检完成, 产出 %d 条告警", c.serviceAgent.Name(), len(serviceOut.Decisions)))

	return result
}

// runStage 执行单个阶段并将panic转换为error
// 阶段内部的意外panic不允许击穿协调器，统一按阶段失败处理
func (c *Coordinator) runStage(agent Agent, state *CycleState) (out *StageOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
		}
	}()
	return agent.MakeDecision(state)
}

// logStageFailure 记录阶段失败日志并在结果中留下失败标记
// 失败之前已完成阶段的结果原样保留
func (c *Coordinator) logStageFailure(agentName string, err error, result *CycleResult) {
	logger.LogError(err, "", 0, "", "service.agents.coordinator", "", map[string]interface{}{
		"operation": "run_cycle",
		"option":    agentName,
		"func_name": "service.agents.Coordinator.RunCycle",
		"agent":     agentName,
	})
	result.Logs = append(result.Logs, fmt.Sprintf("%s: 阶段执行失败: %v", agentName, err))
}
