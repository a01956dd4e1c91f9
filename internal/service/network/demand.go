/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 需求管理服务
 * @func:
 * 1.需求观测记录
 * 2.按节点查询需求历史
 * 3.按节点类型随机生成当期需求
 */
package network

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chainmaster/internal/model"
	networkModel "chainmaster/internal/model/network"
	"chainmaster/internal/repository/mysql"
)

// 各节点类型的需求生成区间(均匀分布,闭区间)
const (
	storeDemandMin = 100
	storeDemandMax = 300
	dcDemandMin    = 50
	dcDemandMax    = 200
	otherDemandMin = 30
	otherDemandMax = 150
)

// DemandService 需求管理服务
type DemandService struct {
	nodeRepo   *mysql.NodeRepository
	demandRepo *mysql.DemandRepository
}

// NewDemandService 创建需求服务实例
func NewDemandService(nodeRepo *mysql.NodeRepository, demandRepo *mysql.DemandRepository) *DemandService {
	return &DemandService{
		nodeRepo:   nodeRepo,
		demandRepo: demandRepo,
	}
}

// RecordDemand 记录一条需求观测
func (s *DemandService) RecordDemand(ctx context.Context, req *model.RecordDemandRequest) (*networkModel.DemandRecord, error) {
	if req == nil {
		return nil, errors.New("record demand request cannot be nil")
	}
	if req.Quantity < 0 {
		return nil, errors.New("demand quantity cannot be negative")
	}

	node, err := s.nodeRepo.GetNodeByID(ctx, req.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("node not found: %d", req.NodeID)
	}

	period := time.Now().Truncate(24 * time.Hour)
	if req.Period != "" {
		period, err = time.Parse("2006-01-02", req.Period)
		if err != nil {
			return nil, fmt.Errorf("invalid period format, expect YYYY-MM-DD: %w", err)
		}
	}

	record := &networkModel.DemandRecord{
		NodeID:   req.NodeID,
		Quantity: req.Quantity,
		Period:   period,
	}
	if err := s.demandRepo.CreateDemand(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record demand: %w", err)
	}
	return record, nil
}

// ListDemands 按节点查询需求历史
func (s *DemandService) ListDemands(ctx context.Context, nodeID uint64, page, pageSize int) (*model.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := s.demandRepo.ListDemandsByNode(ctx, nodeID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &model.PaginationResponse{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Data:        records,
	}, nil
}

// GenerateDemands 为全部启用节点生成当期随机需求并落库
// 门店100-300，配送中心50-200，其余30-150
func (s *DemandService) GenerateDemands(ctx context.Context) (networkModel.DemandMap, error) {
	nodes, err := s.nodeRepo.ListNodes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	demands := make(networkModel.DemandMap, len(nodes))
	records := make([]networkModel.DemandRecord, 0, len(nodes))
	period := time.Now().Truncate(24 * time.Hour)

	for i := range nodes {
		node := &nodes[i]
		quantity := randomDemand(node.NodeType)
		demands[node.ID] = quantity
		records = append(records, networkModel.DemandRecord{
			NodeID:   node.ID,
			Quantity: quantity,
			Period:   period,
		})
	}

	if err := s.demandRepo.BatchCreateDemands(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to persist demands: %w", err)
	}
	return demands, nil
}

// randomDemand 按节点类型在对应区间内均匀取随机需求量
func randomDemand(nodeType networkModel.NodeType) int64 {
	switch nodeType {
	case networkModel.NodeTypeStore:
		return int64(rand.Intn(storeDemandMax-storeDemandMin+1) + storeDemandMin)
	case networkModel.NodeTypeDistributionCenter:
		return int64(rand.Intn(dcDemandMax-dcDemandMin+1) + dcDemandMin)
	default:
		return int64(rand.Intn(otherDemandMax-otherDemandMin+1) + otherDemandMin)
	}
}
