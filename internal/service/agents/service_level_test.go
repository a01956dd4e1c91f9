package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
)

func TestServiceLevelMonitor_CriticalAlertWithShortfall(t *testing.T) {
	agent := NewServiceLevelMonitor()
	// 需求200,库存50,在途100: 服务水平0.75 < 0.80 -> CRITICAL,缺口50
	state := &CycleState{
		Nodes:   []networkModel.NodeSnapshot{newSnapshot(1, "STORE1", networkModel.NodeTypeStore, 10000, 50)},
		Demands: networkModel.DemandMap{1: 200},
		TransportDecisions: []decisionModel.Decision{{
			Agent:      "TransportationOptimizer",
			Type:       decisionModel.TypeTransport,
			Urgency:    decisionModel.UrgencyHigh,
			DestNodeID: 1,
			Quantity:   100,
		}},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	require.Len(t, out.Decisions, 1)

	d := out.Decisions[0]
	assert.Equal(t, decisionModel.TypeServiceAlert, d.Type)
	assert.Equal(t, decisionModel.UrgencyCritical, d.Urgency)
	assert.Equal(t, uint64(1), d.DestNodeID)
	assert.InDelta(t, 0.75, d.Metadata["current_service_level"].(float64), 1e-9)
	assert.Equal(t, int64(50), d.Metadata["shortfall"].(int64))
	assert.Equal(t, int64(100), d.Metadata["incoming_shipments"].(int64))
}

func TestServiceLevelMonitor_HighAlertBelowTarget(t *testing.T) {
	agent := NewServiceLevelMonitor()
	// 服务水平0.90: 低于目标0.95但高于0.80 -> HIGH
	state := &CycleState{
		Nodes:              []networkModel.NodeSnapshot{newSnapshot(1, "STORE1", networkModel.NodeTypeStore, 10000, 90)},
		Demands:            networkModel.DemandMap{1: 100},
		TransportDecisions: []decisionModel.Decision{},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	require.Len(t, out.Decisions, 1)
	assert.Equal(t, decisionModel.UrgencyHigh, out.Decisions[0].Urgency)
}

func TestServiceLevelMonitor_MeetingTargetProducesNoAlert(t *testing.T) {
	agent := NewServiceLevelMonitor()
	state := &CycleState{
		Nodes:              []networkModel.NodeSnapshot{newSnapshot(1, "STORE1", networkModel.NodeTypeStore, 10000, 95)},
		Demands:            networkModel.DemandMap{1: 100},
		TransportDecisions: []decisionModel.Decision{},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestServiceLevelMonitor_ServiceLevelCappedAtOne(t *testing.T) {
	agent := NewServiceLevelMonitor()
	// 可用量远超需求: 服务水平封顶1.0,不告警
	state := &CycleState{
		Nodes:              []networkModel.NodeSnapshot{newSnapshot(1, "WH1", networkModel.NodeTypeWarehouse, 10000, 5000)},
		Demands:            networkModel.DemandMap{1: 100},
		TransportDecisions: []decisionModel.Decision{},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestServiceLevelMonitor_ZeroDemandNodesSkipped(t *testing.T) {
	agent := NewServiceLevelMonitor()
	// 零库存但零需求: 不产出告警
	state := &CycleState{
		Nodes:              []networkModel.NodeSnapshot{newSnapshot(1, "WH1", networkModel.NodeTypeWarehouse, 10000, 0)},
		Demands:            networkModel.DemandMap{},
		TransportDecisions: []decisionModel.Decision{},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestServiceLevelMonitor_IncomingAggregatedAcrossTransports(t *testing.T) {
	agent := NewServiceLevelMonitor()
	// 两条在途补给合计120: 可用量130/需求130 -> 恰好满足
	state := &CycleState{
		Nodes:   []networkModel.NodeSnapshot{newSnapshot(1, "STORE1", networkModel.NodeTypeStore, 10000, 10)},
		Demands: networkModel.DemandMap{1: 130},
		TransportDecisions: []decisionModel.Decision{
			{Type: decisionModel.TypeTransport, DestNodeID: 1, Quantity: 70},
			{Type: decisionModel.TypeTransport, DestNodeID: 1, Quantity: 50},
		},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestServiceLevelMonitor_MissingStateFieldsReturnsEmpty(t *testing.T) {
	agent := NewServiceLevelMonitor()

	out, err := agent.MakeDecision(&CycleState{})
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}
