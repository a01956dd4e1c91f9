package decision

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"chainmaster/internal/config"
	decisionModel "chainmaster/internal/model/decision"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/repository/mysql"
	redisRepo "chainmaster/internal/repository/redis"
	networkService "chainmaster/internal/service/network"
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

// newUnreachableCycleCache 返回指向不可达Redis的周期缓存
// 周期服务对缓存写入失败只记日志不中断，用于验证降级路径
func newUnreachableCycleCache() *redisRepo.CycleCacheRepository {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return redisRepo.NewCycleCacheRepository(client)
}

func newTestCycleService(t *testing.T) (*CycleService, *networkService.NodeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	nodeRepo := mysql.NewNodeRepository(db)
	demandRepo := mysql.NewDemandRepository(db)
	decisionRepo := mysql.NewDecisionRepository(db)
	demandSvc := networkService.NewDemandService(nodeRepo, demandRepo)
	nodeSvc := networkService.NewNodeService(nodeRepo, demandRepo, decisionRepo)
	pipelineCfg := &config.PipelineConfig{
		CycleCacheTTL:   time.Minute,
		DecisionHistory: 20,
		SimulateDefault: 500,
	}
	svc := NewCycleService(nodeRepo, demandRepo, decisionRepo, newUnreachableCycleCache(), demandSvc, pipelineCfg)
	return svc, nodeSvc, db
}

func TestCycleService_RunCycle_EmptyNetwork(t *testing.T) {
	svc, _, _ := newTestCycleService(t)

	_, err := svc.RunCycle(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes found")
}

func TestCycleService_RunCycle(t *testing.T) {
	svc, nodeSvc, db := newTestCycleService(t)
	ctx := context.Background()

	_, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	summary, err := svc.RunCycle(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, summary.CycleID)
	assert.Equal(t, 7, summary.NodeCount)
	assert.Len(t, summary.Forecasts, 7)
	assert.Equal(t, len(summary.Decisions), summary.DecisionCount)
	assert.Len(t, summary.Logs, 4)

	// 预测值非负
	for nodeID, forecast := range summary.Forecasts {
		assert.NotZero(t, nodeID)
		assert.GreaterOrEqual(t, forecast, int64(0))
	}

	// 决策已落库且条数一致
	var persisted int64
	assert.NoError(t, db.Model(&decisionModel.AgentDecision{}).Count(&persisted).Error)
	assert.Equal(t, int64(summary.DecisionCount), persisted)

	// 当期需求记录已回填预测值
	var backfilled int64
	assert.NoError(t, db.Model(&networkModel.DemandRecord{}).
		Where("forecast_quantity IS NOT NULL").Count(&backfilled).Error)
	assert.Equal(t, int64(7), backfilled)

	// 库存守恒:调拨只在节点间转移,全网库存不随周期增加
	nodes, err := nodeSvc.ListNodes(ctx, false)
	assert.NoError(t, err)
	var totalInventory int64
	for _, node := range nodes {
		assert.GreaterOrEqual(t, node.CurrentInventory, int64(0))
		assert.LessOrEqual(t, node.CurrentInventory, node.InventoryCapacity)
		totalInventory += node.CurrentInventory
	}
	assert.LessOrEqual(t, totalInventory, int64(26550))

	// 成本非负且保留两位小数
	assert.GreaterOrEqual(t, summary.TotalCost, 0.0)
	assert.GreaterOrEqual(t, summary.PenaltyCost, 0.0)
}

func TestCycleService_RunCycle_MarksExecutedTransports(t *testing.T) {
	svc, nodeSvc, db := newTestCycleService(t)
	ctx := context.Background()

	_, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	summary, err := svc.RunCycle(ctx)
	assert.NoError(t, err)

	// 有实际调拨量时，对应运输决策应标记为已执行
	if summary.Transported > 0 {
		var executed int64
		assert.NoError(t, db.Model(&decisionModel.AgentDecision{}).
			Where("decision_type = ? AND is_executed = ?", decisionModel.TypeTransport, true).
			Count(&executed).Error)
		assert.Greater(t, executed, int64(0))
	}
}

func TestCycleService_RunCycle_Sequential(t *testing.T) {
	svc, nodeSvc, _ := newTestCycleService(t)
	ctx := context.Background()

	_, err := nodeSvc.InitializeNetwork(ctx)
	assert.NoError(t, err)

	// 连续多轮周期应互不干扰,预测历史跨周期累积
	for i := 0; i < 3; i++ {
		summary, err := svc.RunCycle(ctx)
		assert.NoError(t, err)
		assert.NotEmpty(t, summary.CycleID)
		assert.Equal(t, 7, summary.NodeCount)
	}
}
