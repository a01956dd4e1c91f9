/**
 * 路由:配送网络路由
 * @author: sun977
 * @date: 2026.03.19
 * @description: 配送网络节点与需求相关路由(需要JWT认证)
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupNetworkRoutes 设置配送网络路由
func (r *Router) setupNetworkRoutes(v1 *gin.RouterGroup) {
	// 网络节点路由（需要JWT认证）
	network := v1.Group("/network")
	network.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		// 节点CRUD
		network.GET("/nodes", r.nodeHandler.ListNodes)          // 节点列表
		network.POST("/nodes", r.nodeHandler.CreateNode)        // 创建节点
		network.GET("/nodes/:id", r.nodeHandler.GetNode)        // 节点详情
		network.PUT("/nodes/:id", r.nodeHandler.UpdateNode)     // 更新节点
		network.DELETE("/nodes/:id", r.nodeHandler.DeleteNode)  // 删除节点
		// 示例网络管理
		network.POST("/initialize", r.nodeHandler.InitializeNetwork) // 初始化示例网络(按编码幂等)
		network.POST("/reset", r.nodeHandler.ResetNetwork)           // 清空并重新初始化
		// 统计与模拟
		network.GET("/summary", r.nodeHandler.NetworkSummary)      // 网络汇总统计
		network.POST("/simulate", r.nodeHandler.SimulateInventory) // 库存随机扰动
	}

	// 需求路由（需要JWT认证）
	demands := v1.Group("/demands")
	demands.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		demands.GET("", r.demandHandler.ListDemands)               // 需求历史查询
		demands.POST("", r.demandHandler.RecordDemand)             // 记录需求观测
		demands.POST("/generate", r.demandHandler.GenerateDemands) // 随机生成当期需求
	}
}
