/**
 * 路由:用户路由
 * @author: sun977
 * @date: 2026.03.19
 * @description: 包含需要JWT认证的用户相关路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupUserRoutes 设置用户认证路由
func (r *Router) setupUserRoutes(v1 *gin.RouterGroup) {
	// 认证相关路由（需要JWT认证）
	auth := v1.Group("/auth")
	auth.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		// 用户注销(令牌入黑名单)
		auth.POST("/logout", r.logoutHandler.Logout) // handler\auth\logout.go
		// 修改密码
		auth.POST("/password", r.logoutHandler.ChangePassword) // handler\auth\logout.go
	}
}
