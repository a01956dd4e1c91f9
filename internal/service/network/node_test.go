package network

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"chainmaster/internal/model"
	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/repository/mysql"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&networkModel.NetworkNode{},
		&networkModel.DemandRecord{},
		&decisionModel.AgentDecision{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newTestNodeService(t *testing.T) (*NodeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	nodeRepo := mysql.NewNodeRepository(db)
	demandRepo := mysql.NewDemandRepository(db)
	decisionRepo := mysql.NewDecisionRepository(db)
	return NewNodeService(nodeRepo, demandRepo, decisionRepo), db
}

func TestNodeService_InitializeNetwork(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	result, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 7, result.Total)
	assert.Len(t, result.Nodes, 7)

	codes := make(map[string]networkModel.NetworkNode)
	for _, node := range result.Nodes {
		codes[node.Code] = node
	}
	assert.Contains(t, codes, "DC1")
	assert.Contains(t, codes, "STORE3")
	assert.Equal(t, int64(10000), codes["DC1"].InventoryCapacity)
	assert.Equal(t, int64(5000), codes["DC1"].CurrentInventory)
	assert.Equal(t, networkModel.NodeTypeWarehouse, codes["WH1"].NodeType)
	assert.InDelta(t, 47.6062, codes["STORE3"].Latitude, 0.0001)
}

func TestNodeService_InitializeNetwork_Idempotent(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	first, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	// 手工改动库存后再次初始化,节点应按编码刷回样例值且保留原ID
	node, err := svc.GetNode(ctx, first.Nodes[0].ID)
	assert.NoError(t, err)
	inventory := int64(1)
	_, err = svc.UpdateNode(ctx, node.ID, &model.UpdateNodeRequest{CurrentInventory: &inventory})
	assert.NoError(t, err)

	second, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 7, second.Updated)
	assert.Equal(t, 7, second.Total)

	refreshed, err := svc.GetNode(ctx, node.ID)
	assert.NoError(t, err)
	assert.Equal(t, node.Code, refreshed.Code)
	assert.NotEqual(t, int64(1), refreshed.CurrentInventory)
}

func TestNodeService_CreateNode(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, &model.CreateNodeRequest{
		Code:              "WH9",
		Name:              "Test Warehouse",
		NodeType:          "WAREHOUSE",
		Latitude:          39.9042,
		Longitude:         116.4074,
		InventoryCapacity: 5000,
		CurrentInventory:  1000,
	})
	assert.NoError(t, err)
	assert.NotZero(t, node.ID)
	assert.True(t, node.IsActive)

	// 编码重复
	_, err = svc.CreateNode(ctx, &model.CreateNodeRequest{
		Code:              "WH9",
		Name:              "Duplicate",
		NodeType:          "WAREHOUSE",
		InventoryCapacity: 100,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// 非法节点类型
	_, err = svc.CreateNode(ctx, &model.CreateNodeRequest{
		Code:              "BAD1",
		Name:              "Bad Type",
		NodeType:          "FACTORY",
		InventoryCapacity: 100,
	})
	assert.Error(t, err)

	// 库存超出容量
	_, err = svc.CreateNode(ctx, &model.CreateNodeRequest{
		Code:              "BAD2",
		Name:              "Over Capacity",
		NodeType:          "STORE",
		InventoryCapacity: 100,
		CurrentInventory:  200,
	})
	assert.Error(t, err)
}

func TestNodeService_UpdateAndDeleteNode(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, &model.CreateNodeRequest{
		Code:              "STORE9",
		Name:              "Old Name",
		NodeType:          "STORE",
		InventoryCapacity: 2000,
		CurrentInventory:  300,
	})
	assert.NoError(t, err)

	newName := "New Name"
	inactive := false
	updated, err := svc.UpdateNode(ctx, node.ID, &model.UpdateNodeRequest{
		Name:     &newName,
		IsActive: &inactive,
	})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.False(t, updated.IsActive)
	// 未提供的字段保持不变
	assert.Equal(t, int64(300), updated.CurrentInventory)

	err = svc.DeleteNode(ctx, node.ID)
	assert.NoError(t, err)

	missing, err := svc.GetNode(ctx, node.ID)
	assert.Error(t, err)
	assert.Nil(t, missing)
}

func TestNodeService_ListNodes_ActiveOnly(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	_, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	all, err := svc.ListNodes(ctx, false)
	assert.NoError(t, err)
	assert.Len(t, all, 7)

	inactive := false
	_, err = svc.UpdateNode(ctx, all[0].ID, &model.UpdateNodeRequest{IsActive: &inactive})
	assert.NoError(t, err)

	active, err := svc.ListNodes(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, active, 6)
}

func TestNodeService_NetworkSummary(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	_, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	summary, err := svc.NetworkSummary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 7, summary.TotalNodes)
	assert.Equal(t, 7, summary.ActiveNodes)
	// 2*10000 + 2*15000 + 3*2000
	assert.Equal(t, int64(56000), summary.TotalCapacity)
	// 5000+4500+8000+7500+500+600+450
	assert.Equal(t, int64(26550), summary.TotalInventory)
	assert.InDelta(t, 26550.0/56000.0, summary.Utilization, 0.0001)

	stores, ok := summary.ByType["STORE"]
	assert.True(t, ok)
	assert.Equal(t, 3, stores.Count)
	assert.Equal(t, int64(6000), stores.TotalCapacity)
	assert.Equal(t, int64(1550), stores.TotalInventory)
}

func TestNodeService_SimulateInventoryDrift(t *testing.T) {
	svc, _ := newTestNodeService(t)
	ctx := context.Background()

	_, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	result, err := svc.SimulateInventoryDrift(ctx, 500)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), result.MaxChange)

	// 扰动后所有节点库存仍在[0,容量]范围内
	nodes, err := svc.ListNodes(ctx, false)
	assert.NoError(t, err)
	for _, node := range nodes {
		assert.GreaterOrEqual(t, node.CurrentInventory, int64(0))
		assert.LessOrEqual(t, node.CurrentInventory, node.InventoryCapacity)
	}

	// 非法幅度
	_, err = svc.SimulateInventoryDrift(ctx, 0)
	assert.Error(t, err)
}

func TestNodeService_ResetNetwork(t *testing.T) {
	db := newTestDB(t)
	nodeRepo := mysql.NewNodeRepository(db)
	demandRepo := mysql.NewDemandRepository(db)
	decisionRepo := mysql.NewDecisionRepository(db)
	svc := NewNodeService(nodeRepo, demandRepo, decisionRepo)
	ctx := context.Background()

	first, err := svc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	// 制造历史数据
	err = demandRepo.CreateDemand(ctx, &networkModel.DemandRecord{NodeID: first.Nodes[0].ID, Quantity: 120})
	assert.NoError(t, err)
	_, err = decisionRepo.BatchCreateDecisions(ctx, []decisionModel.Decision{
		{Agent: "inventory", Type: decisionModel.TypeReorder, Urgency: decisionModel.UrgencyHigh, Reason: "test"},
	})
	assert.NoError(t, err)

	result, err := svc.ResetNetwork(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 0, result.Updated)

	var demandCount, decisionCount int64
	assert.NoError(t, db.Model(&networkModel.DemandRecord{}).Count(&demandCount).Error)
	assert.NoError(t, db.Model(&decisionModel.AgentDecision{}).Count(&decisionCount).Error)
	assert.Zero(t, demandCount)
	assert.Zero(t, decisionCount)
}
