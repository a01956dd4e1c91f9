/**
 * 中间件:认证相关中间件
 * @author: sun977
 * @date: 2026.03.19
 * @description: 定义认证相关中间件
 * @func:
 *   - GinJWTAuthMiddleware: Gin JWT认证中间件
 *   - extractTokenFromGinHeader: 从Gin请求头中提取JWT令牌
 */
package middleware

import (
	"errors"
	"net/http"

	"chainmaster/internal/model"
	authPkg "chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinJWTAuthMiddleware Gin JWT认证中间件
// 验证请求头中的JWT令牌(含注销黑名单检查)，并将用户信息存储到Gin上下文中
// 使用方式: router.Use(middlewareManager.GinJWTAuthMiddleware())
func (m *MiddlewareManager) GinJWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		XRequestID := c.GetHeader("X-Request-ID")
		userAgent := c.GetHeader("User-Agent")

		// 从请求头中提取访问令牌
		accessToken, err := extractTokenFromGinHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.APIResponse{
				Code:    http.StatusUnauthorized,
				Status:  "error",
				Message: "missing or invalid authorization header",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		// 验证令牌(签名+有效期+黑名单)
		claims, err := m.sessionService.ValidateToken(c.Request.Context(), accessToken)
		if err != nil {
			logger.LogError(err, XRequestID, 0, clientIP, "token_validation", c.Request.Method, map[string]interface{}{
				"operation":    "token_validation",
				"client_ip":    clientIP,
				"user_agent":   userAgent,
				"X-Request-ID": XRequestID,
				"timestamp":    logger.NowFormatted(),
			})
			c.JSON(http.StatusUnauthorized, model.APIResponse{
				Code:    http.StatusUnauthorized,
				Status:  "error",
				Message: "invalid or expired token",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		// 将用户信息存储到Gin上下文，供后续处理器使用
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("jti", claims.ID)

		c.Next()
	}
}

// extractTokenFromGinHeader 从Gin请求头中提取JWT令牌
func extractTokenFromGinHeader(c *gin.Context) (string, error) {
	token := authPkg.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		return "", errors.New("authorization header is missing or malformed")
	}
	return token, nil
}
