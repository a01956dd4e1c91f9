/**
 * 模型:网络节点模型
 * @author: sun977
 * @date: 2026.03.12
 * @description: 配送网络节点数据模型(供应商/仓库/配送中心/门店)
 * @func: NetworkNode实体定义、节点类型枚举、快照转换
 */
package network

import (
	"time"
)

// NodeType 节点类型
type NodeType string

const (
	NodeTypeSupplier           NodeType = "SUPPLIER"            // 供应商
	NodeTypeWarehouse          NodeType = "WAREHOUSE"           // 仓库
	NodeTypeDistributionCenter NodeType = "DISTRIBUTION_CENTER" // 配送中心
	NodeTypeStore              NodeType = "STORE"               // 门店
)

// AllNodeTypes 所有节点类型列表(用于汇总统计遍历)
func AllNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeSupplier,
		NodeTypeWarehouse,
		NodeTypeDistributionCenter,
		NodeTypeStore,
	}
}

// NetworkNode 配送网络节点实体
// 节点由持久层维护，决策管线只读取快照并提出库存变更建议
type NetworkNode struct {
	ID       uint64   `json:"id" gorm:"primaryKey;autoIncrement;comment:节点ID"`
	Code     string   `json:"code" gorm:"uniqueIndex;not null;size:50;comment:节点编码(唯一)"`
	Name     string   `json:"name" gorm:"size:200;comment:节点名称"`
	NodeType NodeType `json:"node_type" gorm:"size:30;not null;comment:节点类型:SUPPLIER-供应商,WAREHOUSE-仓库,DISTRIBUTION_CENTER-配送中心,STORE-门店"`

	// 地理位置
	Latitude  float64 `json:"latitude" gorm:"comment:纬度"`
	Longitude float64 `json:"longitude" gorm:"comment:经度"`

	// 库存容量
	InventoryCapacity int64 `json:"inventory_capacity" gorm:"not null;comment:库存容量(正整数)"`
	CurrentInventory  int64 `json:"current_inventory" gorm:"default:0;comment:当前库存,取值范围[0,容量]"`

	// 状态
	IsActive bool `json:"is_active" gorm:"default:true;comment:是否启用"`

	// 时间戳
	CreatedAt time.Time `json:"created_at" gorm:"comment:创建时间"`
	UpdatedAt time.Time `json:"updated_at" gorm:"comment:更新时间"`
}

// TableName 指定表名
func (NetworkNode) TableName() string {
	return "network_nodes"
}

// UtilizationRatio 当前库存占容量的比例
func (n *NetworkNode) UtilizationRatio() float64 {
	if n.InventoryCapacity <= 0 {
		return 0
	}
	return float64(n.CurrentInventory) / float64(n.InventoryCapacity)
}

// Snapshot 转换为决策管线使用的不可变快照
func (n *NetworkNode) Snapshot() NodeSnapshot {
	return NodeSnapshot{
		ID:                n.ID,
		Code:              n.Code,
		Name:              n.Name,
		NodeType:          n.NodeType,
		Latitude:          n.Latitude,
		Longitude:         n.Longitude,
		InventoryCapacity: n.InventoryCapacity,
		CurrentInventory:  n.CurrentInventory,
		IsActive:          n.IsActive,
	}
}

// NodeSnapshot 节点快照
// 每个决策周期由调用方提供，决策管线内部不会修改快照字段
type NodeSnapshot struct {
	ID                uint64   `json:"id"`                 // 节点ID
	Code              string   `json:"code"`               // 节点编码
	Name              string   `json:"name"`               // 节点名称
	NodeType          NodeType `json:"node_type"`          // 节点类型
	Latitude          float64  `json:"latitude"`           // 纬度
	Longitude         float64  `json:"longitude"`          // 经度
	InventoryCapacity int64    `json:"inventory_capacity"` // 库存容量
	CurrentInventory  int64    `json:"current_inventory"`  // 当前库存
	IsActive          bool     `json:"is_active"`          // 是否启用
}

// DemandMap 需求映射(节点ID -> 当期需求量,非负整数)
type DemandMap map[uint64]int64
