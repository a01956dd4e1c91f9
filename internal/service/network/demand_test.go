package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chainmaster/internal/model"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/repository/mysql"
)

func newTestDemandService(t *testing.T) (*DemandService, *NodeService) {
	t.Helper()
	db := newTestDB(t)
	nodeRepo := mysql.NewNodeRepository(db)
	demandRepo := mysql.NewDemandRepository(db)
	decisionRepo := mysql.NewDecisionRepository(db)
	return NewDemandService(nodeRepo, demandRepo), NewNodeService(nodeRepo, demandRepo, decisionRepo)
}

func TestDemandService_RecordDemand(t *testing.T) {
	demandSvc, nodeSvc := newTestDemandService(t)
	ctx := context.Background()

	result, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)
	nodeID := result.Nodes[0].ID

	record, err := demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{
		NodeID:   nodeID,
		Quantity: 180,
		Period:   "2026-03-18",
	})
	assert.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, int64(180), record.Quantity)
	assert.Equal(t, 2026, record.Period.Year())
	assert.Equal(t, time.March, record.Period.Month())

	// 未提供周期时默认当天
	record, err = demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{NodeID: nodeID, Quantity: 90})
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), record.Period, 24*time.Hour)

	// 节点不存在
	_, err = demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{NodeID: 99999, Quantity: 10})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// 负数需求
	_, err = demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{NodeID: nodeID, Quantity: -1})
	assert.Error(t, err)

	// 非法周期格式
	_, err = demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{NodeID: nodeID, Quantity: 10, Period: "03/18/2026"})
	assert.Error(t, err)
}

func TestDemandService_ListDemands(t *testing.T) {
	demandSvc, nodeSvc := newTestDemandService(t)
	ctx := context.Background()

	result, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)
	nodeID := result.Nodes[0].ID

	for i := 0; i < 25; i++ {
		_, err := demandSvc.RecordDemand(ctx, &model.RecordDemandRequest{NodeID: nodeID, Quantity: int64(100 + i)})
		assert.NoError(t, err)
	}

	page, err := demandSvc.ListDemands(ctx, nodeID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	records, ok := page.Data.([]networkModel.DemandRecord)
	assert.True(t, ok)
	assert.Len(t, records, 10)

	last, err := demandSvc.ListDemands(ctx, nodeID, 3, 10)
	assert.NoError(t, err)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)
}

func TestDemandService_GenerateDemands(t *testing.T) {
	demandSvc, nodeSvc := newTestDemandService(t)
	ctx := context.Background()

	result, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	demands, err := demandSvc.GenerateDemands(ctx)
	assert.NoError(t, err)
	assert.Len(t, demands, 7)

	// 需求量落在节点类型对应的区间内
	for _, node := range result.Nodes {
		quantity, ok := demands[node.ID]
		assert.True(t, ok)
		switch node.NodeType {
		case networkModel.NodeTypeStore:
			assert.GreaterOrEqual(t, quantity, int64(storeDemandMin))
			assert.LessOrEqual(t, quantity, int64(storeDemandMax))
		case networkModel.NodeTypeDistributionCenter:
			assert.GreaterOrEqual(t, quantity, int64(dcDemandMin))
			assert.LessOrEqual(t, quantity, int64(dcDemandMax))
		default:
			assert.GreaterOrEqual(t, quantity, int64(otherDemandMin))
			assert.LessOrEqual(t, quantity, int64(otherDemandMax))
		}
	}

	// 观测记录已落库
	history, err := demandSvc.ListDemands(ctx, result.Nodes[0].ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}
