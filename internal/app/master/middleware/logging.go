/**
 * 中间件:日志相关中间件
 * @author: sun977
 * @date: 2026.03.19
 * @description: 定义日志中间件
 * @func:
 *   - GinLoggingMiddleware Gin日志中间件[同时把客户端IP存储到Gin上下文和标准上下文,供后续使用]
 */
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 提取并格式化客户端IP
		clientIP := utils.GetClientIP(c)
		XRequestID := c.GetHeader("X-Request-ID")
		userAgent := c.GetHeader("User-Agent")

		// 存储到Gin上下文
		c.Set("client_ip", clientIP)

		// 存储到标准上下文(统一键,service层以下用utils.GetClientIPFromContext读取)
		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyClientIP, clientIP)
		c.Request = c.Request.WithContext(ctx)

		// 跳过配置的路径
		if m.shouldSkipRequestLog(c.Request.URL.Path) {
			c.Next()
			return
		}

		// 处理请求
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		// 获取用户信息（如果已认证）
		userID := uint(0)
		username := ""
		if uid, exists := c.Get("user_id"); exists {
			if uidUint, ok := uid.(uint); ok {
				userID = uidUint
			}
		}
		if uname, exists := c.Get("username"); exists {
			if unameStr, ok := uname.(string); ok {
				username = unameStr
			}
		}

		logger.LogBusinessOperation("http_request", userID, username, clientIP, XRequestID, "success", "API Request", map[string]interface{}{
			"operation":     "http_request",
			"method":        c.Request.Method,
			"url":           c.Request.URL.String(),
			"status_code":   statusCode,
			"duration":      duration.Milliseconds(),
			"client_ip":     clientIP,
			"username":      username,
			"user_agent":    userAgent,
			"X-Request-ID":  XRequestID,
			"referer":       c.Request.Referer(),
			"request_size":  c.Request.ContentLength,
			"response_size": int64(c.Writer.Size()),
			"timestamp":     logger.NowFormatted(),
		})

		// 慢请求告警
		if m.securityConfig.Logging.SlowRequestThreshold > 0 && duration > m.securityConfig.Logging.SlowRequestThreshold {
			logger.LogBusinessOperation("slow_request", userID, username, clientIP, XRequestID, "warning", "慢请求", map[string]interface{}{
				"operation": "slow_request",
				"method":    c.Request.Method,
				"url":       c.Request.URL.String(),
				"duration":  duration.Milliseconds(),
				"threshold": m.securityConfig.Logging.SlowRequestThreshold.Milliseconds(),
			})
		}

		// 如果是错误状态码，记录错误日志
		if statusCode >= 400 {
			errorMsg := http.StatusText(statusCode)
			if errs := c.Errors; len(errs) > 0 {
				errorMsg = errs.String()
			}

			logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), XRequestID, userID, clientIP, "http_request", c.Request.Method, map[string]interface{}{
				"operation":    "http_request",
				"method":       c.Request.Method,
				"url":          c.Request.URL.String(),
				"status_code":  statusCode,
				"username":     username,
				"client_ip":    clientIP,
				"user_agent":   userAgent,
				"X-Request-ID": XRequestID,
				"timestamp":    logger.NowFormatted(),
			})
		}
	}
}

// shouldSkipRequestLog 检查是否跳过请求日志记录
func (m *MiddlewareManager) shouldSkipRequestLog(path string) bool {
	if !m.securityConfig.Logging.EnableRequestLog {
		return true
	}
	for _, skipPath := range m.securityConfig.Logging.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	return false
}
