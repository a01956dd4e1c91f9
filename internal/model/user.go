/**
 * 模型:操作员模型
 * @author: sun977
 * @date: 2026.03.10
 * @description: 平台操作员数据模型(无角色体系,仅区分启用/禁用)
 * @func: User实体定义、状态枚举
 */
package model

import (
	"time"
)

// UserStatus 操作员状态枚举
type UserStatus int

const (
	UserStatusDisabled UserStatus = 0 // 禁用状态
	UserStatusEnabled  UserStatus = 1 // 启用状态
)

// User 平台操作员实体
// 供应链平台为内部运营系统，操作员统一拥有全部接口权限
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`                                            // 操作员唯一标识ID，主键自增
	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"` // 用户名，唯一索引，3-50字符
	Password    string     `json:"-" gorm:"not null;size:255"`                                                    // 密码，argon2id哈希存储，不在JSON中返回
	Nickname    string     `json:"nickname" gorm:"size:50"`                                                       // 昵称，最大50字符
	Status      UserStatus `json:"status" gorm:"default:1;comment:状态:0-禁用,1-启用"`                                  // 操作员状态，默认启用
	LastLoginAt *time.Time `json:"last_login_at" gorm:"comment:最后登录时间"`                                           // 最后登录时间，可为空
	LastLoginIP string     `json:"last_login_ip" gorm:"size:45;comment:最后登录IP"`                                   // 最后登录IP地址，支持IPv6
	CreatedAt   time.Time  `json:"created_at"`                                                                    // 创建时间，自动管理
	UpdatedAt   time.Time  `json:"updated_at"`                                                                    // 更新时间，自动管理
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsEnabled 判断操作员是否处于启用状态
func (u *User) IsEnabled() bool {
	return u.Status == UserStatusEnabled
}
