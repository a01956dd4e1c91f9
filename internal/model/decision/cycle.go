/**
 * 决策模型:决策周期汇总
 * @author: sun977
 * @date: 2026.03.18
 * @description: 单轮决策周期的执行汇总，用于缓存与查询展示
 */
package decision

import "time"

// CycleSummary 单轮决策周期的执行汇总
// 缓存到Redis供查询接口直接返回，避免重复跑周期
type CycleSummary struct {
	CycleID       string            `json:"cycle_id"`       // 周期ID(时间戳派生)
	StartedAt     time.Time         `json:"started_at"`     // 周期开始时间
	DurationMs    int64             `json:"duration_ms"`    // 周期耗时(毫秒)
	NodeCount     int               `json:"node_count"`     // 参与节点数
	Forecasts     map[uint64]int64  `json:"forecasts"`      // 预测映射(节点ID -> 预测需求量)
	Decisions     []Decision        `json:"decisions"`      // 全部决策(库存+运输+告警)
	DecisionCount int               `json:"decision_count"` // 决策总数
	UrgencyCounts map[Urgency]int64 `json:"urgency_counts"` // 各紧急度决策数
	TotalCost     float64           `json:"total_cost"`     // 运输预估成本合计
	PenaltyCost   float64           `json:"penalty_cost"`   // 紧急度惩罚成本合计
	Transported   int64             `json:"transported"`    // 实际入库调拨量合计
	Logs          []string          `json:"logs"`           // 阶段完成日志(时间顺序)
}

// UrgencyPenalty 紧急度对应的单条决策惩罚成本
// 用于把告警与积压折算成可比较的成本数字
func UrgencyPenalty(u Urgency) float64 {
	switch u {
	case UrgencyCritical:
		return 500
	case UrgencyHigh:
		return 200
	case UrgencyMedium:
		return 50
	default:
		return 10
	}
}
