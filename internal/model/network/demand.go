/**
 * 模型:需求记录模型
 * @author: sun977
 * @date: 2026.03.12
 * @description: 节点需求观测记录，用于构建预测滚动历史
 * @func: DemandRecord实体定义
 */
package network

import (
	"time"
)

// DemandRecord 需求观测记录
// 每个决策周期为每个节点记录一条观测值，预测代理按节点保留最近30条
type DemandRecord struct {
	ID     uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:记录ID"`
	NodeID uint64 `json:"node_id" gorm:"index;not null;comment:节点ID"`

	Quantity         int64  `json:"quantity" gorm:"not null;comment:观测需求量(非负)"`
	ForecastQuantity *int64 `json:"forecast_quantity" gorm:"comment:该周期生成的预测值,可为空"`

	Period    time.Time `json:"period" gorm:"comment:需求所属周期(日期)"`
	CreatedAt time.Time `json:"created_at" gorm:"comment:记录时间"`
}

// TableName 指定表名
func (DemandRecord) TableName() string {
	return "demand_records"
}
