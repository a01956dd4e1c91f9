/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 决策周期接口处理器
 * @func:
 * 1.决策周期执行接口
 * 2.最近周期汇总查询接口
 */
package decision

import (
	"net/http"
	"strings"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/pkg/utils"
	decisionService "chainmaster/internal/service/decision"

	"github.com/gin-gonic/gin"
)

// CycleHandler 决策周期处理器
type CycleHandler struct {
	cycleService *decisionService.CycleService
	queryService *decisionService.QueryService
}

// NewCycleHandler 创建周期处理器实例
func NewCycleHandler(cycleService *decisionService.CycleService, queryService *decisionService.QueryService) *CycleHandler {
	return &CycleHandler{
		cycleService: cycleService,
		queryService: queryService,
	}
}

// RunCycle 执行一轮决策周期
// POST /api/v1/cycles/run
func (h *CycleHandler) RunCycle(c *gin.Context) {
	clientIP := utils.GetClientIP(c)
	requestID := c.GetHeader("X-Request-ID")

	summary, err := h.cycleService.RunCycle(c.Request.Context())
	if err != nil {
		logger.LogError(err, requestID, utils.GetCurrentUserID(c), clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "run_cycle",
		})

		// 网络未初始化时返回400而不是500
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "no nodes found") {
			status = http.StatusBadRequest
		}
		c.JSON(status, model.APIResponse{
			Code:    status,
			Status:  "error",
			Message: "Failed to run decision cycle",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Decision cycle completed",
		Data:    summary,
	})
}

// LatestCycle 查询最近一轮周期汇总
// GET /api/v1/cycles/latest
func (h *CycleHandler) LatestCycle(c *gin.Context) {
	summary, err := h.queryService.GetLatestCycle(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:    http.StatusInternalServerError,
			Status:  "error",
			Message: "Failed to get latest cycle",
			Error:   err.Error(),
		})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, model.APIResponse{
			Code:    http.StatusNotFound,
			Status:  "error",
			Message: "No cycle has been run yet",
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Status: "success",
		Data:   summary,
	})
}
