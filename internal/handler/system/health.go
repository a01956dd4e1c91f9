/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 系统健康检查接口处理器
 * @func:
 * 1.整体健康检查(MySQL+Redis)
 * 2.单组件健康检查
 */
package system

import (
	"context"
	"net/http"
	"time"

	"chainmaster/internal/config"
	"chainmaster/internal/model"
	"chainmaster/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 组件探活超时
const healthCheckTimeout = 3 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	appConfig   *config.AppConfig
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, appConfig *config.AppConfig) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		appConfig:   appConfig,
	}
}

// Health 整体健康检查
// GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	components := map[string]string{
		"mysql": "healthy",
		"redis": "healthy",
	}
	status := "healthy"

	if err := h.checkMySQL(ctx); err != nil {
		components["mysql"] = "unhealthy: " + err.Error()
		status = "degraded"
	}
	if err := h.checkRedis(ctx); err != nil {
		components["redis"] = "unhealthy: " + err.Error()
		status = "degraded"
	}

	if status != "healthy" {
		logger.LogSystemEvent("health", "check_degraded", "部分组件不可用", logrus.WarnLevel, map[string]interface{}{
			"components": components,
		})
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, model.APIResponse{
		Code:   httpStatus,
		Status: "success",
		Data: model.HealthResponse{
			Status:     status,
			Timestamp:  logger.NowFormatted(),
			Version:    h.appConfig.Version,
			Components: components,
		},
	})
}

// HealthDB MySQL健康检查
// GET /api/v1/health/db
func (h *HealthHandler) HealthDB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.checkMySQL(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.APIResponse{
			Code:    http.StatusServiceUnavailable,
			Status:  "error",
			Message: "MySQL is unhealthy",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "MySQL is healthy",
	})
}

// HealthRedis Redis健康检查
// GET /api/v1/health/redis
func (h *HealthHandler) HealthRedis(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.checkRedis(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.APIResponse{
			Code:    http.StatusServiceUnavailable,
			Status:  "error",
			Message: "Redis is unhealthy",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Redis is healthy",
	})
}

// checkMySQL 探活MySQL连接
func (h *HealthHandler) checkMySQL(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// checkRedis 探活Redis连接
func (h *HealthHandler) checkRedis(ctx context.Context) error {
	return h.redisClient.Ping(ctx).Err()
}
