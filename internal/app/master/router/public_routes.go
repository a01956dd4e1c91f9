/**
 * 路由:公共路由
 * @author: sun977
 * @date: 2026.03.19
 * @description: 公共路由，包含登录、健康检查等不需要认证的路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupPublicRoutes 设置公共路由
func (r *Router) setupPublicRoutes(v1 *gin.RouterGroup) {
	// 认证相关公共路由
	auth := v1.Group("/auth")
	{
		// 用户登录
		auth.POST("/login", r.loginHandler.Login) // handler\auth\login.go
	}

	// 健康检查路由
	health := v1.Group("/health")
	{
		// 整体健康检查(MySQL+Redis)
		health.GET("", r.healthHandler.Health)
		// MySQL健康检查
		health.GET("/db", r.healthHandler.HealthDB)
		// Redis健康检查
		health.GET("/redis", r.healthHandler.HealthRedis)
	}
}
