package mysql

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	networkModel "chainmaster/internal/model/network"
)

func newNodeTestRepo(t *testing.T) *NodeRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&networkModel.NetworkNode{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewNodeRepository(db)
}

func createNode(t *testing.T, repo *NodeRepository, code string, capacity, inventory int64) *networkModel.NetworkNode {
	t.Helper()
	node := &networkModel.NetworkNode{
		Code:              code,
		Name:              code,
		NodeType:          networkModel.NodeTypeWarehouse,
		InventoryCapacity: capacity,
		CurrentInventory:  inventory,
		IsActive:          true,
	}
	if err := repo.CreateNode(context.Background(), node); err != nil {
		t.Fatalf("create node: %v", err)
	}
	return node
}

func TestNodeRepository_ApplyTransport(t *testing.T) {
	repo := newNodeTestRepo(t)
	ctx := context.Background()

	source := createNode(t, repo, "WH1", 10000, 5000)
	dest := createNode(t, repo, "STORE1", 2000, 500)

	applied, err := repo.ApplyTransport(ctx, source.ID, dest.ID, 800)
	assert.NoError(t, err)
	assert.Equal(t, int64(800), applied)

	reloadedSource, err := repo.GetNodeByID(ctx, source.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4200), reloadedSource.CurrentInventory)

	reloadedDest, err := repo.GetNodeByID(ctx, dest.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1300), reloadedDest.CurrentInventory)
}

func TestNodeRepository_ApplyTransport_ClampsAtCapacity(t *testing.T) {
	repo := newNodeTestRepo(t)
	ctx := context.Background()

	source := createNode(t, repo, "WH1", 10000, 5000)
	dest := createNode(t, repo, "STORE1", 2000, 1800)

	// 目标节点只剩200容量,入库量被截断
	applied, err := repo.ApplyTransport(ctx, source.ID, dest.ID, 800)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), applied)

	reloadedDest, err := repo.GetNodeByID(ctx, dest.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2000), reloadedDest.CurrentInventory)
}

func TestNodeRepository_ApplyTransport_InsufficientSource(t *testing.T) {
	repo := newNodeTestRepo(t)
	ctx := context.Background()

	source := createNode(t, repo, "WH1", 10000, 100)
	dest := createNode(t, repo, "STORE1", 2000, 500)

	_, err := repo.ApplyTransport(ctx, source.ID, dest.ID, 800)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient inventory")

	// 回滚后双方库存不变
	reloadedSource, err := repo.GetNodeByID(ctx, source.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), reloadedSource.CurrentInventory)

	reloadedDest, err := repo.GetNodeByID(ctx, dest.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), reloadedDest.CurrentInventory)
}

func TestNodeRepository_ApplyTransport_MissingNode(t *testing.T) {
	repo := newNodeTestRepo(t)
	ctx := context.Background()

	source := createNode(t, repo, "WH1", 10000, 5000)

	_, err := repo.ApplyTransport(ctx, source.ID, 99999, 100)
	assert.Error(t, err)
}

func TestNodeRepository_DeleteNode(t *testing.T) {
	repo := newNodeTestRepo(t)
	ctx := context.Background()

	node := createNode(t, repo, "WH1", 10000, 5000)

	assert.NoError(t, repo.DeleteNode(ctx, node.ID))
	assert.ErrorIs(t, repo.DeleteNode(ctx, node.ID), gorm.ErrRecordNotFound)

	missing, err := repo.GetNodeByID(ctx, node.ID)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
