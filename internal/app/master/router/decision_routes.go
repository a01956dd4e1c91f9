/**
 * 路由:决策管线路由
 * @author: sun977
 * @date: 2026.03.19
 * @description: 决策周期执行与决策查询相关路由(需要JWT认证)
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupDecisionRoutes 设置决策管线路由
func (r *Router) setupDecisionRoutes(v1 *gin.RouterGroup) {
	// 决策周期路由（需要JWT认证）
	cycles := v1.Group("/cycles")
	cycles.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		cycles.POST("/run", r.cycleHandler.RunCycle)    // 执行一次完整决策周期
		cycles.GET("/latest", r.cycleHandler.LatestCycle) // 最近一次周期结果(缓存)
	}

	// 决策查询路由（需要JWT认证）
	decisions := v1.Group("/decisions")
	decisions.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		decisions.GET("", r.decisionHandler.ListDecisions)      // 决策历史查询(支持过滤)
		decisions.GET("/stats", r.decisionHandler.UrgencyStats) // 按紧急度统计(注册在 /:id 之前)
		decisions.GET("/:id", r.decisionHandler.GetDecision)    // 决策详情
	}
}
