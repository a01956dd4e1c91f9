/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 决策查询接口处理器
 * @func:
 * 1.决策历史过滤查询接口
 * 2.决策详情接口
 * 3.紧急度分布统计接口
 */
package decision

import (
	"net/http"
	"strconv"

	"chainmaster/internal/model"
	decisionService "chainmaster/internal/service/decision"

	"github.com/gin-gonic/gin"
)

// DecisionHandler 决策查询处理器
type DecisionHandler struct {
	queryService *decisionService.QueryService
}

// NewDecisionHandler 创建决策查询处理器实例
func NewDecisionHandler(queryService *decisionService.QueryService) *DecisionHandler {
	return &DecisionHandler{
		queryService: queryService,
	}
}

// ListDecisions 查询决策历史
// GET /api/v1/decisions?agent=InventoryManager&type=REORDER&urgency=CRITICAL&page=1&page_size=20
func (h *DecisionHandler) ListDecisions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	result, err := h.queryService.ListDecisions(
		c.Request.Context(),
		c.Query("agent"),
		c.Query("type"),
		c.Query("urgency"),
		page, pageSize,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to list decisions",
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

// GetDecision 获取决策详情
// GET /api/v1/decisions/:id
func (h *DecisionHandler) GetDecision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid decision id",
			Error:   err.Error(),
		})
		return
	}

	entity, err := h.queryService.GetDecision(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, model.APIResponse{
			Code:    http.StatusNotFound,
			Status:  "error",
			Message: "Decision not found",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   entity,
	})
}

// UrgencyStats 紧急度分布统计
// GET /api/v1/decisions/stats
func (h *DecisionHandler) UrgencyStats(c *gin.Context) {
	stats, err := h.queryService.UrgencyStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to get decision stats",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   stats,
	})
}
