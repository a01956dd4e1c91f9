/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 网络节点管理服务
 * @func:
 * 1.节点CRUD
 * 2.示例网络初始化/重置
 * 3.网络汇总统计
 * 4.库存随机扰动模拟
 */
package network

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"chainmaster/internal/model"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/repository/mysql"
)

// sampleNodes 示例网络的七个节点(按编码幂等初始化)
var sampleNodes = []networkModel.NetworkNode{
	{Code: "DC1", Name: "Distribution Center 1", NodeType: networkModel.NodeTypeDistributionCenter, Latitude: 40.7128, Longitude: -74.0060, InventoryCapacity: 10000, CurrentInventory: 5000, IsActive: true},
	{Code: "DC2", Name: "Distribution Center 2", NodeType: networkModel.NodeTypeDistributionCenter, Latitude: 34.0522, Longitude: -118.2437, InventoryCapacity: 10000, CurrentInventory: 4500, IsActive: true},
	{Code: "WH1", Name: "Warehouse 1", NodeType: networkModel.NodeTypeWarehouse, Latitude: 41.8781, Longitude: -87.6298, InventoryCapacity: 15000, CurrentInventory: 8000, IsActive: true},
	{Code: "WH2", Name: "Warehouse 2", NodeType: networkModel.NodeTypeWarehouse, Latitude: 29.7604, Longitude: -95.3698, InventoryCapacity: 15000, CurrentInventory: 7500, IsActive: true},
	{Code: "STORE1", Name: "Store 1", NodeType: networkModel.NodeTypeStore, Latitude: 41.4993, Longitude: -81.6944, InventoryCapacity: 2000, CurrentInventory: 500, IsActive: true},
	{Code: "STORE2", Name: "Store 2", NodeType: networkModel.NodeTypeStore, Latitude: 33.4484, Longitude: -112.0740, InventoryCapacity: 2000, CurrentInventory: 600, IsActive: true},
	{Code: "STORE3", Name: "Store 3", NodeType: networkModel.NodeTypeStore, Latitude: 47.6062, Longitude: -122.3321, InventoryCapacity: 2000, CurrentInventory: 450, IsActive: true},
}

// InitializeResult 示例网络初始化结果
type InitializeResult struct {
	Created int                        `json:"created"` // 新建节点数
	Updated int                        `json:"updated"` // 更新节点数
	Total   int                        `json:"total"`   // 节点总数
	Nodes   []networkModel.NetworkNode `json:"nodes"`   // 初始化后的节点列表
}

// NodeService 网络节点管理服务
type NodeService struct {
	nodeRepo     *mysql.NodeRepository
	demandRepo   *mysql.DemandRepository
	decisionRepo *mysql.DecisionRepository
}

// NewNodeService 创建节点服务实例
func NewNodeService(
	nodeRepo *mysql.NodeRepository,
	demandRepo *mysql.DemandRepository,
	decisionRepo *mysql.DecisionRepository,
) *NodeService {
	return &NodeService{
		nodeRepo:     nodeRepo,
		demandRepo:   demandRepo,
		decisionRepo: decisionRepo,
	}
}

// CreateNode 创建节点
func (s *NodeService) CreateNode(ctx context.Context, req *model.CreateNodeRequest) (*networkModel.NetworkNode, error) {
	if req == nil {
		return nil, errors.New("create node request cannot be nil")
	}
	if req.Code == "" {
		return nil, errors.New("node code cannot be empty")
	}
	if req.InventoryCapacity <= 0 {
		return nil, errors.New("inventory capacity must be positive")
	}
	if req.CurrentInventory < 0 || req.CurrentInventory > req.InventoryCapacity {
		return nil, errors.New("current inventory must be within [0, capacity]")
	}

	nodeType, err := parseNodeType(req.NodeType)
	if err != nil {
		return nil, err
	}

	// 编码唯一性检查
	existing, err := s.nodeRepo.GetNodeByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check node code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("node code already exists: %s", req.Code)
	}

	node := &networkModel.NetworkNode{
		Code:              req.Code,
		Name:              req.Name,
		NodeType:          nodeType,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		InventoryCapacity: req.InventoryCapacity,
		CurrentInventory:  req.CurrentInventory,
		IsActive:          true,
	}
	if err := s.nodeRepo.CreateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	logger.LogBusinessOperation("node_create", 0, "", "", "", "success", "网络节点创建成功", map[string]interface{}{
		"node_id":   node.ID,
		"code":      node.Code,
		"node_type": node.NodeType,
	})
	return node, nil
}

// GetNode 根据ID获取节点
func (s *NodeService) GetNode(ctx context.Context, id uint64) (*networkModel.NetworkNode, error) {
	node, err := s.nodeRepo.GetNodeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("node not found: %d", id)
	}
	return node, nil
}

// ListNodes 获取节点列表
func (s *NodeService) ListNodes(ctx context.Context, activeOnly bool) ([]networkModel.NetworkNode, error) {
	return s.nodeRepo.ListNodes(ctx, activeOnly)
}

// UpdateNode 更新节点(指针字段为空表示不更新)
func (s *NodeService) UpdateNode(ctx context.Context, id uint64, req *model.UpdateNodeRequest) (*networkModel.NetworkNode, error) {
	if req == nil {
		return nil, errors.New("update node request cannot be nil")
	}

	node, err := s.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		node.Name = *req.Name
	}
	if req.CurrentInventory != nil {
		if *req.CurrentInventory < 0 || *req.CurrentInventory > node.InventoryCapacity {
			return nil, errors.New("current inventory must be within [0, capacity]")
		}
		node.CurrentInventory = *req.CurrentInventory
	}
	if req.IsActive != nil {
		node.IsActive = *req.IsActive
	}

	if err := s.nodeRepo.UpdateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to update node: %w", err)
	}
	return node, nil
}

// DeleteNode 删除节点
func (s *NodeService) DeleteNode(ctx context.Context, id uint64) error {
	err := s.nodeRepo.DeleteNode(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	logger.LogBusinessOperation("node_delete", 0, "", "", "", "success", "网络节点删除成功", map[string]interface{}{
		"node_id": id,
	})
	return nil
}

// InitializeNetwork 初始化示例网络
// 按编码幂等:已存在的节点重置为示例值，不存在的节点新建
func (s *NodeService) InitializeNetwork(ctx context.Context) (*InitializeResult, error) {
	result := &InitializeResult{}

	for i := range sampleNodes {
		sample := sampleNodes[i]

		existing, err := s.nodeRepo.GetNodeByCode(ctx, sample.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up node %s: %w", sample.Code, err)
		}

		if existing == nil {
			node := sample
			if err := s.nodeRepo.CreateNode(ctx, &node); err != nil {
				return nil, fmt.Errorf("failed to create node %s: %w", sample.Code, err)
			}
			result.Created++
			result.Nodes = append(result.Nodes, node)
			continue
		}

		// 保留ID与编码，其余字段重置为示例值
		existing.Name = sample.Name
		existing.NodeType = sample.NodeType
		existing.Latitude = sample.Latitude
		existing.Longitude = sample.Longitude
		existing.InventoryCapacity = sample.InventoryCapacity
		existing.CurrentInventory = sample.CurrentInventory
		existing.IsActive = true
		if err := s.nodeRepo.UpdateNode(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update node %s: %w", sample.Code, err)
		}
		result.Updated++
		result.Nodes = append(result.Nodes, *existing)
	}

	result.Total = len(result.Nodes)
	logger.LogBusinessOperation("network_initialize", 0, "", "", "", "success", "示例网络初始化完成", map[string]interface{}{
		"created": result.Created,
		"updated": result.Updated,
		"total":   result.Total,
	})
	return result, nil
}

// ResetNetwork 重置网络
// 清空节点、需求与决策记录后重新初始化示例网络
func (s *NodeService) ResetNetwork(ctx context.Context) (*InitializeResult, error) {
	if err := s.decisionRepo.DeleteAllDecisions(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear decisions: %w", err)
	}
	if err := s.demandRepo.DeleteAllDemands(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear demands: %w", err)
	}
	if err := s.nodeRepo.DeleteAllNodes(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear nodes: %w", err)
	}

	logger.LogBusinessOperation("network_reset", 0, "", "", "", "success", "网络已清空,开始重新初始化", nil)
	return s.InitializeNetwork(ctx)
}

// NetworkSummary 网络汇总统计(仅统计启用节点)
func (s *NodeService) NetworkSummary(ctx context.Context) (*model.NetworkSummaryResponse, error) {
	nodes, err := s.nodeRepo.ListNodes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	summary := &model.NetworkSummaryResponse{
		ByType: make(map[string]*model.NodeTypeSummary),
	}
	for _, nodeType := range networkModel.AllNodeTypes() {
		summary.ByType[string(nodeType)] = &model.NodeTypeSummary{}
	}

	for i := range nodes {
		node := &nodes[i]
		summary.TotalNodes++
		summary.ActiveNodes++
		summary.TotalCapacity += node.InventoryCapacity
		summary.TotalInventory += node.CurrentInventory

		typeSummary, ok := summary.ByType[string(node.NodeType)]
		if !ok {
			typeSummary = &model.NodeTypeSummary{}
			summary.ByType[string(node.NodeType)] = typeSummary
		}
		typeSummary.Count++
		typeSummary.TotalCapacity += node.InventoryCapacity
		typeSummary.TotalInventory += node.CurrentInventory
	}

	if summary.TotalCapacity > 0 {
		summary.Utilization = float64(summary.TotalInventory) / float64(summary.TotalCapacity)
	}
	for _, typeSummary := range summary.ByType {
		if typeSummary.TotalCapacity > 0 {
			typeSummary.Utilization = float64(typeSummary.TotalInventory) / float64(typeSummary.TotalCapacity)
		}
	}

	return summary, nil
}

// SimulateInventoryDrift 库存随机扰动模拟
// 每个启用节点的库存加上[-maxChange, maxChange]内的随机变化，并截断到[0, 容量]
func (s *NodeService) SimulateInventoryDrift(ctx context.Context, maxChange int64) (*model.SimulateResponse, error) {
	if maxChange <= 0 {
		return nil, errors.New("max change must be positive")
	}

	nodes, err := s.nodeRepo.ListNodes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	changed := 0
	for i := range nodes {
		node := &nodes[i]
		delta := rand.Int63n(2*maxChange+1) - maxChange
		if delta == 0 {
			continue
		}

		inventory := node.CurrentInventory + delta
		if inventory < 0 {
			inventory = 0
		}
		if inventory > node.InventoryCapacity {
			inventory = node.InventoryCapacity
		}
		if inventory == node.CurrentInventory {
			continue
		}

		if err := s.nodeRepo.UpdateNodeFields(ctx, node.ID, map[string]interface{}{
			"current_inventory": inventory,
		}); err != nil {
			return nil, fmt.Errorf("failed to update node %d inventory: %w", node.ID, err)
		}
		changed++
	}

	logger.LogBusinessOperation("network_simulate", 0, "", "", "", "success", "库存扰动模拟完成", map[string]interface{}{
		"nodes_changed": changed,
		"max_change":    maxChange,
	})
	return &model.SimulateResponse{NodesChanged: changed, MaxChange: maxChange}, nil
}

// parseNodeType 解析并校验节点类型
func parseNodeType(value string) (networkModel.NodeType, error) {
	nodeType := networkModel.NodeType(value)
	for _, valid := range networkModel.AllNodeTypes() {
		if nodeType == valid {
			return nodeType, nil
		}
	}
	return "", fmt.Errorf("invalid node type: %s", value)
}
