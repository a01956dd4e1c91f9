/**
 * 模型:请求模型
 * @author: sun977
 * @date: 2026.03.10
 * @description: API请求数据模型，包含认证相关的请求结构体
 * @func: 各种Request结构体定义
 */
package model

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username" validate:"required"` // 用户名，必填
	Password string `json:"password" validate:"required"` // 密码，必填
}

// ChangePasswordRequest 修改密码请求结构
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`       // 旧密码，必填
	NewPassword string `json:"new_password" validate:"required,min=6"` // 新密码，必填，最少6字符
}

// CreateNodeRequest 创建网络节点请求结构
type CreateNodeRequest struct {
	Code              string  `json:"code" validate:"required"`               // 节点编码，必填且唯一
	Name              string  `json:"name"`                                   // 节点名称
	NodeType          string  `json:"node_type" validate:"required"`          // 节点类型，必填
	Latitude          float64 `json:"latitude" validate:"min=-90,max=90"`     // 纬度
	Longitude         float64 `json:"longitude" validate:"min=-180,max=180"`  // 经度
	InventoryCapacity int64   `json:"inventory_capacity" validate:"required"` // 库存容量，正整数
	CurrentInventory  int64   `json:"current_inventory" validate:"min=0"`     // 初始库存，默认0
}

// UpdateNodeRequest 更新网络节点请求结构
// 指针字段为空表示不更新
type UpdateNodeRequest struct {
	Name             *string `json:"name"`              // 节点名称
	CurrentInventory *int64  `json:"current_inventory"` // 当前库存
	IsActive         *bool   `json:"is_active"`         // 是否启用
}

// RecordDemandRequest 记录需求观测请求结构
type RecordDemandRequest struct {
	NodeID   uint64 `json:"node_id" validate:"required"` // 节点ID，必填
	Quantity int64  `json:"quantity" validate:"min=0"`   // 观测需求量，非负
	Period   string `json:"period"`                      // 周期日期(YYYY-MM-DD)，默认当天
}

// SimulateRequest 库存扰动模拟请求结构
type SimulateRequest struct {
	MaxChange int64 `json:"max_change" validate:"min=0"` // 最大扰动幅度，0表示使用配置默认值
}
