/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 需求接口处理器
 * @func:
 * 1.需求观测记录接口
 * 2.需求历史查询接口
 * 3.需求随机生成接口
 */
package network

import (
	"net/http"
	"strconv"

	"chainmaster/internal/model"
	networkService "chainmaster/internal/service/network"

	"github.com/gin-gonic/gin"
)

// DemandHandler 需求处理器
type DemandHandler struct {
	demandService *networkService.DemandService
}

// NewDemandHandler 创建需求处理器实例
func NewDemandHandler(demandService *networkService.DemandService) *DemandHandler {
	return &DemandHandler{
		demandService: demandService,
	}
}

// RecordDemand 记录需求观测
// POST /api/v1/demands
func (h *DemandHandler) RecordDemand(c *gin.Context) {
	var req model.RecordDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	record, err := h.demandService.RecordDemand(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Failed to record demand",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, model.APIResponse{
		Code:    http.StatusCreated,
		Status:  "success",
		Message: "Demand recorded successfully",
		Data:    record,
	})
}

// ListDemands 查询需求历史
// GET /api/v1/demands?node_id=1&page=1&page_size=20
func (h *DemandHandler) ListDemands(c *gin.Context) {
	nodeID, err := strconv.ParseUint(c.Query("node_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid or missing node_id",
			Error:   "node_id query parameter is required",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.demandService.ListDemands(c.Request.Context(), nodeID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to list demands",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   result,
	})
}

// GenerateDemands 为全部启用节点生成随机需求
// POST /api/v1/demands/generate
func (h *DemandHandler) GenerateDemands(c *gin.Context) {
	demands, err := h.demandService.GenerateDemands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to generate demands",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Demands generated",
		Data:    demands,
	})
}
