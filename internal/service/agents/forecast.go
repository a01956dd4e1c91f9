/**
 * 服务层:需求预测代理
 * @author: sun977
 * @date: 2026.03.16
 * @description: 需求预测核心算法，基于有界滚动历史的加权时间序列预测
 * @func: 滚动历史维护(每节点最多30条,旧值淘汰)、移动平均/指数加权平均/线性趋势组合预测
 */
package agents

import (
	"fmt"
	"math"

	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/pkg/logger"
)

const (
	// historyCapacity 每个节点保留的需求观测上限，超出时淘汰最旧观测
	historyCapacity = 30
	// trendWindow 计算移动平均与加权平均的观测窗口
	trendWindow = 7
	// minHistoryForModel 低于该历史长度时退化为简单均值预测
	minHistoryForModel = 3
)

// demandHistory 单节点的定长环形历史缓冲
// 只保留最近historyCapacity条观测，写满后覆盖最旧位置
type demandHistory struct {
	buf  [historyCapacity]int64
	head int // 下一个写入位置
	size int // 当前观测条数
}

// push 追加一条观测，超出容量时淘汰最旧观测
func (h *demandHistory) push(v int64) {
	h.buf[h.head] = v
	h.head = (h.head + 1) % historyCapacity
	if h.size < historyCapacity {
		h.size++
	}
}

// values 按时间顺序(最旧到最新)导出观测序列
func (h *demandHistory) values() []int64 {
	out := make([]int64, 0, h.size)
	start := (h.head - h.size + historyCapacity) % historyCapacity
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(start+i)%historyCapacity])
	}
	return out
}

// DemandForecastAgent 需求预测代理
// 持有跨周期的节点滚动历史(管线中唯一跨周期状态)，内部不加锁，
// 并发执行周期时由调用方负责串行化
type DemandForecastAgent struct {
	history map[uint64]*demandHistory // 节点ID -> 滚动历史，首次观测时惰性初始化
}

// NewDemandForecastAgent 创建需求预测代理实例
func NewDemandForecastAgent() *DemandForecastAgent {
	return &DemandForecastAgent{
		history: make(map[uint64]*demandHistory),
	}
}

// Name 返回代理名称
func (a *DemandForecastAgent) Name() string {
	return "DemandForecaster"
}

// MakeDecision 为每个节点记录当期需求并产出整数预测
// 除更新历史缓冲外无其他副作用；快照字段缺失时返回空预测并记录校验错误
func (a *DemandForecastAgent) MakeDecision(state *CycleState) (*StageOutput, error) {
	if state == nil || state.Nodes == nil || state.Demands == nil {
		logger.LogError(fmt.Errorf("missing required cycle state fields: nodes/demands"), "", 0, "", "service.agents.forecast", "", map[string]interface{}{
			"operation": "make_decision",
			"option":    "validateState",
			"func_name": "service.agents.DemandForecastAgent.MakeDecision",
			"agent":     a.Name(),
		})
		return emptyStageOutput(), nil
	}

	forecasts := make(map[uint64]int64, len(state.Nodes))
	for _, node := range state.Nodes {
		current := state.Demands[node.ID]
		a.observe(node.ID, current)
		forecasts[node.ID] = a.forecast(node)
	}

	return &StageOutput{Forecasts: forecasts}, nil
}

// observe 将当期需求追加到节点滚动历史
func (a *DemandForecastAgent) observe(nodeID uint64, quantity int64) {
	h, ok := a.history[nodeID]
	if !ok {
		h = &demandHistory{}
		a.history[nodeID] = h
	}
	h.push(quantity)
}

// forecast 基于节点滚动历史生成整数预测
// 历史不足3条时退化为历史均值(空历史返回0)；否则组合以下信号：
// 移动平均(窗口7)、指数加权平均(近期权重更高)、全历史最小二乘趋势(历史>=7时)，
// 最后乘以节点类型系数并取非负整数
func (a *DemandForecastAgent) forecast(node networkModel.NodeSnapshot) int64 {
	h, ok := a.history[node.ID]
	if !ok || h.size == 0 {
		return 0
	}
	history := h.values()

	if len(history) < minHistoryForModel {
		return clampRound(mean(history))
	}

	window := history
	if len(history) > trendWindow {
		window = history[len(history)-trendWindow:]
	}

	ma := mean(window)
	wma := exponentialWeightedMean(window)

	trend := 0.0
	if len(history) >= trendWindow {
		trend = linearSlope(history)
	}

	base := 0.4*ma + 0.6*wma
	adjusted := base + 3*trend

	return clampRound(adjusted * nodeTypeMultiplier(node.NodeType))
}

// nodeTypeMultiplier 节点类型的需求放大系数
// 门店需求波动更大取1.10，配送中心1.05，仓库1.00，供应商0.95，未知类型按1.00
func nodeTypeMultiplier(t networkModel.NodeType) float64 {
	switch t {
	case networkModel.NodeTypeStore:
		return 1.10
	case networkModel.NodeTypeDistributionCenter:
		return 1.05
	case networkModel.NodeTypeWarehouse:
		return 1.00
	case networkModel.NodeTypeSupplier:
		return 0.95
	default:
		return 1.00
	}
}

// mean 算术平均
func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// exponentialWeightedMean 指数加权平均
// 权重为exp(linspace(-1,0,n))并归一化，最新观测权重最高
func exponentialWeightedMean(window []int64) float64 {
	n := len(window)
	if n == 0 {
		return 0
	}

	weights := make([]float64, n)
	var weightSum float64
	for i := 0; i < n; i++ {
		x := -1.0
		if n > 1 {
			x = -1.0 + float64(i)/float64(n-1)
		}
		weights[i] = math.Exp(x)
		weightSum += weights[i]
	}

	var acc float64
	for i, v := range window {
		acc += float64(v) * weights[i]
	}
	return acc / weightSum
}

// linearSlope 最小二乘线性拟合的斜率
// x取0..n-1，用于捕捉全历史的需求趋势
func linearSlope(history []int64) float64 {
	n := float64(len(history))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range history {
		x := float64(i)
		y := float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// clampRound 四舍五入并截断到非负整数
func clampRound(v float64) int64 {
	rounded := int64(math.Round(v))
	if rounded < 0 {
		return 0
	}
	return rounded
}
