/**
 * 服务层:决策管线类型定义
 * @author: sun977
 * @date: 2026.03.16
 * @description: 决策管线核心类型，包含周期状态、阶段代理接口与周期结果
 * @func: Agent接口、CycleState、StageOutput、CycleResult
 */
package agents

import (
	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
)

// Agent 决策代理接口
// 四个阶段代理(需求预测/库存策略/运输路由/服务水平)都实现该接口，
// 协调器持有固定顺序的代理列表，逐个调用并负责合并阶段输出
type Agent interface {
	// Name 返回代理名称(作为决策的产出方记录)
	Name() string
	// MakeDecision 基于当前周期状态产出阶段输出
	// 快照字段缺失等校验失败不返回error，而是返回空输出并记录错误日志；
	// error只用于表示阶段内部的意外失败
	MakeDecision(state *CycleState) (*StageOutput, error)
}

// CycleState 决策周期状态
// 每个周期由协调器独占持有的可变累加器：节点快照与需求映射由调用方提供，
// 各阶段的输出由协调器在阶段之间合并进来，后续阶段只读取前序阶段的结果
type CycleState struct {
	Nodes              []networkModel.NodeSnapshot // 节点快照列表
	Demands            networkModel.DemandMap      // 当期需求映射
	Forecasts          map[uint64]int64            // 预测阶段输出(节点ID -> 预测需求量)
	InventoryDecisions []decisionModel.Decision    // 库存阶段输出(REORDER/REDISTRIBUTE)
	TransportDecisions []decisionModel.Decision    // 运输阶段输出(TRANSPORT)
	ServiceAlerts      []decisionModel.Decision    // 服务水平阶段输出(SERVICE_ALERT)
}

// StageOutput 单个阶段的输出
// 预测阶段填充Forecasts，其余阶段填充Decisions
type StageOutput struct {
	Forecasts map[uint64]int64         // 预测映射(仅预测阶段)
	Decisions []decisionModel.Decision // 决策列表(其余阶段)
}

// emptyStageOutput 构造空的阶段输出
// 校验失败时返回空输出(非nil)，保证后续阶段仍能继续执行
func emptyStageOutput() *StageOutput {
	return &StageOutput{
		Forecasts: map[uint64]int64{},
		Decisions: []decisionModel.Decision{},
	}
}

// CycleResult 决策周期执行结果
// 阶段失败时只包含失败前已成功完成阶段的结果
type CycleResult struct {
	Forecasts          map[uint64]int64         `json:"forecasts"`           // 预测映射
	InventoryDecisions []decisionModel.Decision `json:"inventory_decisions"` // 库存决策列表
	TransportDecisions []decisionModel.Decision `json:"transport_decisions"` // 运输决策列表
	ServiceAlerts      []decisionModel.Decision `json:"service_alerts"`      // 服务告警列表
	Logs               []string                 `json:"logs"`                // 阶段完成日志(时间顺序)
}
