/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 网络节点接口处理器
 * @func:
 * 1.节点CRUD接口
 * 2.示例网络初始化/重置接口
 * 3.网络汇总接口
 * 4.库存扰动模拟接口
 */
package network

import (
	"net/http"
	"strconv"

	"chainmaster/internal/config"
	"chainmaster/internal/model"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/pkg/utils"
	networkService "chainmaster/internal/service/network"

	"github.com/gin-gonic/gin"
)

// NodeHandler 网络节点处理器
type NodeHandler struct {
	nodeService *networkService.NodeService
	pipelineCfg *config.PipelineConfig
}

// NewNodeHandler 创建节点处理器实例
func NewNodeHandler(nodeService *networkService.NodeService, pipelineCfg *config.PipelineConfig) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		pipelineCfg: pipelineCfg,
	}
}

// CreateNode 创建节点
// POST /api/v1/network/nodes
func (h *NodeHandler) CreateNode(c *gin.Context) {
	clientIP := utils.GetClientIP(c)
	requestID := c.GetHeader("X-Request-ID")

	var req model.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.LogError(err, requestID, utils.GetCurrentUserID(c), clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "create_node",
			"error":     "invalid_json",
		})
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	node, err := h.nodeService.CreateNode(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Failed to create node",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, model.APIResponse{
		Code:    http.StatusCreated,
		Status:  "success",
		Message: "Node created successfully",
		Data:    node,
	})
}

// GetNode 获取节点详情
// GET /api/v1/network/nodes/:id
func (h *NodeHandler) GetNode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid node id",
			Error:   err.Error(),
		})
		return
	}

	node, err := h.nodeService.GetNode(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, model.APIResponse{
			Code:    http.StatusNotFound,
			Status:  "error",
			Message: "Node not found",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   node,
	})
}

// ListNodes 获取节点列表
// GET /api/v1/network/nodes?active_only=true
func (h *NodeHandler) ListNodes(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	nodes, err := h.nodeService.ListNodes(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to list nodes",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   nodes,
	})
}

// UpdateNode 更新节点
// PUT /api/v1/network/nodes/:id
func (h *NodeHandler) UpdateNode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid node id",
			Error:   err.Error(),
		})
		return
	}

	var req model.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	node, err := h.nodeService.UpdateNode(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Failed to update node",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Node updated successfully",
		Data:    node,
	})
}

// DeleteNode 删除节点
// DELETE /api/v1/network/nodes/:id
func (h *NodeHandler) DeleteNode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid node id",
			Error:   err.Error(),
		})
		return
	}

	if err := h.nodeService.DeleteNode(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, model.APIResponse{
			Code:    http.StatusNotFound,
			Status:  "error",
			Message: "Failed to delete node",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Node deleted successfully",
	})
}

// InitializeNetwork 初始化示例网络
// POST /api/v1/network/initialize
func (h *NodeHandler) InitializeNetwork(c *gin.Context) {
	result, err := h.nodeService.InitializeNetwork(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to initialize network",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, model.APIResponse{
		Code:    http.StatusCreated,
		Status:  "success",
		Message: "Network ready",
		Data:    result,
	})
}

// ResetNetwork 重置网络
// POST /api/v1/network/reset
func (h *NodeHandler) ResetNetwork(c *gin.Context) {
	result, err := h.nodeService.ResetNetwork(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to reset network",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Network reset",
		Data:    result,
	})
}

// NetworkSummary 网络汇总统计
// GET /api/v1/network/summary
func (h *NodeHandler) NetworkSummary(c *gin.Context) {
	summary, err := h.nodeService.NetworkSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to get network summary",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   summary,
	})
}

// SimulateInventory 库存随机扰动模拟
// POST /api/v1/network/simulate
func (h *NodeHandler) SimulateInventory(c *gin.Context) {
	var req model.SimulateRequest
	// 请求体可为空，使用配置默认扰动幅度
	_ = c.ShouldBindJSON(&req)

	maxChange := req.MaxChange
	if maxChange <= 0 {
		maxChange = h.pipelineCfg.SimulateDefault
	}

	result, err := h.nodeService.SimulateInventoryDrift(c.Request.Context(), maxChange)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to simulate inventory drift",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Inventory drift applied",
		Data:    result,
	})
}
