package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
)

func newPlacedSnapshot(id uint64, code string, lat, lon float64, inventory int64) networkModel.NodeSnapshot {
	snap := newSnapshot(id, code, networkModel.NodeTypeWarehouse, 50000, inventory)
	snap.Latitude = lat
	snap.Longitude = lon
	return snap
}

func reorderDecision(destNodeID uint64, quantity int64, urgency decisionModel.Urgency) decisionModel.Decision {
	return decisionModel.Decision{
		Agent:      "InventoryManager",
		Type:       decisionModel.TypeReorder,
		Urgency:    urgency,
		DestNodeID: destNodeID,
		Quantity:   quantity,
	}
}

func TestTransportationRouter_PicksNearestSufficientSource(t *testing.T) {
	agent := NewTransportationRouter()
	// 纬度每差1度约69.1英里: near约1度,far约3度
	state := &CycleState{
		Nodes: []networkModel.NodeSnapshot{
			newPlacedSnapshot(1, "DEST", 40.0, -74.0, 100),
			newPlacedSnapshot(2, "NEAR", 41.0, -74.0, 10000),
			newPlacedSnapshot(3, "FAR", 43.0, -74.0, 10000),
		},
		InventoryDecisions: []decisionModel.Decision{reorderDecision(1, 500, decisionModel.UrgencyMedium)},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	require.Len(t, out.Decisions, 1)

	d := out.Decisions[0]
	assert.Equal(t, decisionModel.TypeTransport, d.Type)
	assert.Equal(t, uint64(2), d.SourceNodeID)
	assert.Equal(t, uint64(1), d.DestNodeID)
	assert.Equal(t, int64(500), d.Quantity)
	assert.Equal(t, decisionModel.UrgencyMedium, d.Urgency)

	// 成本 = 距离*2.5 + 500*0.5,MEDIUM不加成
	distance, ok := d.Metadata["distance"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 69.1, distance, 0.5)
	assert.InDelta(t, distance*2.5+250.0, d.EstimatedCost, 1e-9)
}

func TestTransportationRouter_SkipsSourcesWithInsufficientInventory(t *testing.T) {
	agent := NewTransportationRouter()
	// 近源库存不足,远源才是唯一合法候选
	state := &CycleState{
		Nodes: []networkModel.NodeSnapshot{
			newPlacedSnapshot(1, "DEST", 40.0, -74.0, 100),
			newPlacedSnapshot(2, "NEAR", 41.0, -74.0, 499),
			newPlacedSnapshot(3, "FAR", 43.0, -74.0, 10000),
		},
		InventoryDecisions: []decisionModel.Decision{reorderDecision(1, 500, decisionModel.UrgencyMedium)},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	require.Len(t, out.Decisions, 1)
	assert.Equal(t, uint64(3), out.Decisions[0].SourceNodeID)
}

func TestTransportationRouter_NoFeasibleSourceProducesNoDecision(t *testing.T) {
	agent := NewTransportationRouter()
	state := &CycleState{
		Nodes: []networkModel.NodeSnapshot{
			newPlacedSnapshot(1, "DEST", 40.0, -74.0, 100),
			newPlacedSnapshot(2, "EMPTY", 41.0, -74.0, 10),
		},
		InventoryDecisions: []decisionModel.Decision{reorderDecision(1, 500, decisionModel.UrgencyMedium)},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestTransportationRouter_UrgencyCostMultiplier(t *testing.T) {
	nodes := []networkModel.NodeSnapshot{
		newPlacedSnapshot(1, "DEST", 40.0, -74.0, 100),
		newPlacedSnapshot(2, "SRC", 41.0, -74.0, 10000),
	}

	costs := make(map[decisionModel.Urgency]float64)
	for _, urgency := range []decisionModel.Urgency{decisionModel.UrgencyMedium, decisionModel.UrgencyHigh, decisionModel.UrgencyCritical} {
		agent := NewTransportationRouter()
		state := &CycleState{
			Nodes:              nodes,
			InventoryDecisions: []decisionModel.Decision{reorderDecision(1, 200, urgency)},
		}
		out, err := agent.MakeDecision(state)
		require.NoError(t, err)
		require.Len(t, out.Decisions, 1)
		costs[urgency] = out.Decisions[0].EstimatedCost
	}

	base := costs[decisionModel.UrgencyMedium]
	assert.InDelta(t, base*1.2, costs[decisionModel.UrgencyHigh], 1e-9)
	assert.InDelta(t, base*1.5, costs[decisionModel.UrgencyCritical], 1e-9)
}

func TestTransportationRouter_TransitTimeBySpeed(t *testing.T) {
	tests := []struct {
		urgency decisionModel.Urgency
		speed   float64
	}{
		{decisionModel.UrgencyCritical, 65.0},
		{decisionModel.UrgencyHigh, 55.0},
		{decisionModel.UrgencyMedium, 50.0},
		{decisionModel.UrgencyLow, 50.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.urgency), func(t *testing.T) {
			agent := NewTransportationRouter()
			state := &CycleState{
				Nodes: []networkModel.NodeSnapshot{
					newPlacedSnapshot(1, "DEST", 40.0, -74.0, 100),
					newPlacedSnapshot(2, "SRC", 44.0, -74.0, 10000),
				},
				InventoryDecisions: []decisionModel.Decision{reorderDecision(1, 200, tt.urgency)},
			}
			out, err := agent.MakeDecision(state)
			require.NoError(t, err)
			require.Len(t, out.Decisions, 1)

			distance := out.Decisions[0].Metadata["distance"].(float64)
			transit := out.Decisions[0].Metadata["transit_time"].(int64)
			assert.Equal(t, int64(distance/tt.speed), transit)
		})
	}
}

func TestTransportationRouter_IgnoresRedistributeDecisions(t *testing.T) {
	agent := NewTransportationRouter()
	state := &CycleState{
		Nodes: []networkModel.NodeSnapshot{
			newPlacedSnapshot(1, "A", 40.0, -74.0, 9500),
			newPlacedSnapshot(2, "B", 41.0, -74.0, 1000),
		},
		InventoryDecisions: []decisionModel.Decision{{
			Agent:        "InventoryManager",
			Type:         decisionModel.TypeRedistribute,
			Urgency:      decisionModel.UrgencyLow,
			SourceNodeID: 1,
			Quantity:     2500,
		}},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestTransportationRouter_UnknownDestinationSkipped(t *testing.T) {
	agent := NewTransportationRouter()
	state := &CycleState{
		Nodes: []networkModel.NodeSnapshot{
			newPlacedSnapshot(1, "A", 40.0, -74.0, 10000),
		},
		InventoryDecisions: []decisionModel.Decision{reorderDecision(99, 100, decisionModel.UrgencyHigh)},
	}

	out, err := agent.MakeDecision(state)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}
