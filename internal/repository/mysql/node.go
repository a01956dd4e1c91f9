/**
 * 网络仓库层:节点数据访问
 * @author: sun977
 * @date: 2026.03.18
 * @description: 配送网络节点数据访问
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"fmt"
	"time"

	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/pkg/logger"

	"gorm.io/gorm"
)

// NodeRepository 网络节点仓库结构体
// 负责处理网络节点相关的数据访问，不包含业务逻辑
type NodeRepository struct {
	db *gorm.DB // 数据库连接
}

// NewNodeRepository 创建网络节点仓库实例
func NewNodeRepository(db *gorm.DB) *NodeRepository {
	return &NodeRepository{
		db: db,
	}
}

// CreateNode 创建节点（纯数据访问）
func (r *NodeRepository) CreateNode(ctx context.Context, node *networkModel.NetworkNode) error {
	return r.db.WithContext(ctx).Create(node).Error
}

// GetNodeByID 根据ID获取节点
func (r *NodeRepository) GetNodeByID(ctx context.Context, id uint64) (*networkModel.NetworkNode, error) {
	var node networkModel.NetworkNode
	err := r.db.WithContext(ctx).First(&node, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		logger.LogError(err, "", 0, "", "node_get", "GET", map[string]interface{}{
			"operation": "get_node_by_id",
			"node_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &node, nil
}

// GetNodeByCode 根据编码获取节点
func (r *NodeRepository) GetNodeByCode(ctx context.Context, code string) (*networkModel.NetworkNode, error) {
	var node networkModel.NetworkNode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&node).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "node_get", "GET", map[string]interface{}{
			"operation": "get_node_by_code",
			"code":      code,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &node, nil
}

// ListNodes 获取节点列表
// activeOnly为true时仅返回启用节点，按ID升序保证遍历顺序确定
func (r *NodeRepository) ListNodes(ctx context.Context, activeOnly bool) ([]networkModel.NetworkNode, error) {
	var nodes []networkModel.NetworkNode
	query := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&nodes).Error; err != nil {
		logger.LogError(err, "", 0, "", "node_list", "GET", map[string]interface{}{
			"operation":   "list_nodes",
			"active_only": activeOnly,
			"timestamp":   logger.NowFormatted(),
		})
		return nil, err
	}
	return nodes, nil
}

// UpdateNode 更新节点信息
func (r *NodeRepository) UpdateNode(ctx context.Context, node *networkModel.NetworkNode) error {
	node.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(node).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "node_update", "PUT", map[string]interface{}{
			"operation": "update_node",
			"node_id":   node.ID,
			"code":      node.Code,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// UpdateNodeFields 使用 map 更新节点特定字段
// 主要用于库存等字段的原子更新
func (r *NodeRepository) UpdateNodeFields(ctx context.Context, nodeID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&networkModel.NetworkNode{}).
		Where("id = ?", nodeID).
		Updates(fields).Error
}

// DeleteNode 删除节点
func (r *NodeRepository) DeleteNode(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&networkModel.NetworkNode{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllNodes 删除所有节点(网络重置)
func (r *NodeRepository) DeleteAllNodes(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&networkModel.NetworkNode{}).Error
}

// ApplyTransport 在单个事务内执行一次库存调拨
// 源节点扣减数量，目标节点增加数量并按容量截断，返回实际入库量
// 源库存不足时返回错误并回滚
func (r *NodeRepository) ApplyTransport(ctx context.Context, sourceID, destID uint64, quantity int64) (int64, error) {
	var applied int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source networkModel.NetworkNode
		if err := tx.First(&source, sourceID).Error; err != nil {
			return fmt.Errorf("source node %d not found: %w", sourceID, err)
		}

		var dest networkModel.NetworkNode
		if err := tx.First(&dest, destID).Error; err != nil {
			return fmt.Errorf("dest node %d not found: %w", destID, err)
		}

		if source.CurrentInventory < quantity {
			return fmt.Errorf("insufficient inventory at node %d: have %d, need %d",
				sourceID, source.CurrentInventory, quantity)
		}

		// 目标节点入库量按剩余容量截断
		applied = quantity
		if room := dest.InventoryCapacity - dest.CurrentInventory; applied > room {
			applied = room
		}
		if applied < 0 {
			applied = 0
		}

		if err := tx.Model(&networkModel.NetworkNode{}).Where("id = ?", sourceID).
			Update("current_inventory", gorm.Expr("current_inventory - ?", quantity)).Error; err != nil {
			return err
		}

		if applied > 0 {
			if err := tx.Model(&networkModel.NetworkNode{}).Where("id = ?", destID).
				Update("current_inventory", gorm.Expr("current_inventory + ?", applied)).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		logger.LogError(err, "", 0, "", "node_transport", "POST", map[string]interface{}{
			"operation": "apply_transport",
			"source_id": sourceID,
			"dest_id":   destID,
			"quantity":  quantity,
			"timestamp": logger.NowFormatted(),
		})
		return 0, err
	}
	return applied, nil
}
