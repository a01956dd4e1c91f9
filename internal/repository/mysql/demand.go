/**
 * 网络仓库层:需求记录数据访问
 * @author: sun977
 * @date: 2026.03.18
 * @description: 节点需求历史记录数据访问
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"time"

	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/pkg/logger"

	"gorm.io/gorm"
)

// DemandRepository 需求记录仓库结构体
type DemandRepository struct {
	db *gorm.DB // 数据库连接
}

// NewDemandRepository 创建需求记录仓库实例
func NewDemandRepository(db *gorm.DB) *DemandRepository {
	return &DemandRepository{
		db: db,
	}
}

// CreateDemand 写入单条需求记录
func (r *DemandRepository) CreateDemand(ctx context.Context, record *networkModel.DemandRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// BatchCreateDemands 批量写入需求记录(决策周期每轮为全部节点生成需求)
func (r *DemandRepository) BatchCreateDemands(ctx context.Context, records []networkModel.DemandRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "demand_batch_create", "POST", map[string]interface{}{
			"operation": "batch_create_demands",
			"count":     len(records),
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// ListDemandsByNode 按节点查询需求历史，按时间倒序分页
func (r *DemandRepository) ListDemandsByNode(ctx context.Context, nodeID uint64, offset, limit int) ([]networkModel.DemandRecord, int64, error) {
	var records []networkModel.DemandRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&networkModel.DemandRecord{}).Where("node_id = ?", nodeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("period DESC").Offset(offset).Limit(limit).Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "demand_list", "GET", map[string]interface{}{
			"operation": "list_demands_by_node",
			"node_id":   nodeID,
			"timestamp": logger.NowFormatted(),
		})
		return nil, 0, err
	}
	return records, total, nil
}

// LatestDemands 获取每个节点最近一条需求记录的数量映射
// 用于决策周期快照组装
func (r *DemandRepository) LatestDemands(ctx context.Context) (map[uint64]int64, error) {
	var records []networkModel.DemandRecord
	// 子查询取每个节点最大 period 的记录
	sub := r.db.WithContext(ctx).Model(&networkModel.DemandRecord{}).
		Select("node_id, MAX(period) AS period").
		Group("node_id")
	err := r.db.WithContext(ctx).
		Joins("JOIN (?) latest ON demand_records.node_id = latest.node_id AND demand_records.period = latest.period", sub).
		Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "demand_latest", "GET", map[string]interface{}{
			"operation": "latest_demands",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}

	demands := make(map[uint64]int64, len(records))
	for _, record := range records {
		demands[record.NodeID] = record.Quantity
	}
	return demands, nil
}

// UpdateForecastQuantity 回填某节点某周期需求记录的预测值
func (r *DemandRepository) UpdateForecastQuantity(ctx context.Context, nodeID uint64, period time.Time, forecast int64) error {
	return r.db.WithContext(ctx).Model(&networkModel.DemandRecord{}).
		Where("node_id = ? AND period = ?", nodeID, period).
		Update("forecast_quantity", &forecast).Error
}

// DeleteAllDemands 删除所有需求记录(网络重置)
func (r *DemandRepository) DeleteAllDemands(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&networkModel.DemandRecord{}).Error
}
