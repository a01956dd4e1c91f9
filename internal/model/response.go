/**
 * 模型:响应模型
 * @author: sun977
 * @date: 2026.03.10
 * @description: API响应数据模型，包含通用响应信封与认证相关响应结构体
 * @func: APIResponse、分页响应、登录响应等结构体定义
 */
package model

import (
	"time"
)

// APIResponse 通用API响应结构
type APIResponse struct {
	Code    int               `json:"code,omitempty"`   // 响应状态码，可选
	Status  string            `json:"status"`           // 响应状态："success" 或 "error"
	Message string            `json:"message"`          // 响应消息
	Data    interface{}       `json:"data,omitempty"`   // 响应数据，可选
	Error   string            `json:"error,omitempty"`  // 错误信息，可选
	Errors  []ValidationError `json:"errors,omitempty"` // 验证错误列表，可选
}

// ValidationError 字段验证错误
type ValidationError struct {
	Field   string `json:"field"`   // 出错字段
	Message string `json:"message"` // 错误说明
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// PaginationResponse 分页响应结构
type PaginationResponse struct {
	Total       int64       `json:"total"`        // 总记录数
	Page        int         `json:"page"`         // 当前页码
	PageSize    int         `json:"page_size"`    // 每页大小
	TotalPages  int         `json:"total_pages"`  // 总页数
	HasNext     bool        `json:"has_next"`     // 是否有下一页
	HasPrevious bool        `json:"has_previous"` // 是否有上一页
	Data        interface{} `json:"data"`         // 分页数据
}

// LoginResponse 登录响应结构
type LoginResponse struct {
	User        *UserInfo `json:"user"`         // 操作员信息
	AccessToken string    `json:"access_token"` // 访问令牌
	ExpiresIn   int64     `json:"expires_in"`   // 令牌过期时间（秒）
	TokenType   string    `json:"token_type"`   // 令牌类型，通常为"Bearer"
}

// UserInfo 操作员信息响应结构
type UserInfo struct {
	ID          uint       `json:"id"`            // 操作员ID
	Username    string     `json:"username"`      // 用户名
	Nickname    string     `json:"nickname"`      // 昵称
	Status      UserStatus `json:"status"`        // 状态
	LastLoginAt *time.Time `json:"last_login_at"` // 最后登录时间
	CreatedAt   time.Time  `json:"created_at"`    // 创建时间
}

// NetworkSummaryResponse 网络汇总响应结构
type NetworkSummaryResponse struct {
	TotalNodes     int                         `json:"total_nodes"`     // 节点总数
	ActiveNodes    int                         `json:"active_nodes"`    // 启用节点数
	TotalCapacity  int64                       `json:"total_capacity"`  // 容量合计
	TotalInventory int64                       `json:"total_inventory"` // 库存合计
	Utilization    float64                     `json:"utilization"`     // 整体库存利用率
	ByType         map[string]*NodeTypeSummary `json:"by_type"`         // 按节点类型分组汇总
}

// NodeTypeSummary 单一节点类型的汇总
type NodeTypeSummary struct {
	Count          int     `json:"count"`           // 节点数
	TotalCapacity  int64   `json:"total_capacity"`  // 容量合计
	TotalInventory int64   `json:"total_inventory"` // 库存合计
	Utilization    float64 `json:"utilization"`     // 库存利用率
}

// SimulateResponse 库存扰动模拟响应结构
type SimulateResponse struct {
	NodesChanged int   `json:"nodes_changed"` // 发生变化的节点数
	MaxChange    int64 `json:"max_change"`    // 使用的最大扰动幅度
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status     string            `json:"status"`               // 整体状态 healthy/degraded
	Timestamp  string            `json:"timestamp"`            // 检查时间
	Version    string            `json:"version,omitempty"`    // 应用版本
	Components map[string]string `json:"components,omitempty"` // 各组件状态
}
