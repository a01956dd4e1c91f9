/**
 * 模型:智能决策模型
 * @author: sun977
 * @date: 2026.03.14
 * @description: 决策管线输出的决策数据模型，包含管线内的决策值对象与落库实体
 * @func: Decision值对象、AgentDecision实体、决策类型与紧急度枚举、MetadataJSON类型
 */
package decision

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Type 决策类型
type Type string

const (
	TypeReorder      Type = "REORDER"       // 补货
	TypeRedistribute Type = "REDISTRIBUTE"  // 库存再分配
	TypeTransport    Type = "TRANSPORT"     // 运输调拨
	TypeServiceAlert Type = "SERVICE_ALERT" // 服务水平告警
	TypeForecast     Type = "FORECAST"      // 需求预测
)

// Urgency 紧急度，按严重程度排序 LOW < MEDIUM < HIGH < CRITICAL
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"      // 低
	UrgencyMedium   Urgency = "MEDIUM"   // 中
	UrgencyHigh     Urgency = "HIGH"     // 高
	UrgencyCritical Urgency = "CRITICAL" // 紧急
)

// SeverityRank 返回紧急度的严重程度序号，越大越严重
// 未知取值按MEDIUM处理
func (u Urgency) SeverityRank() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return 1
	}
}

// MetadataJSON 决策诊断元数据JSON类型(预测需求/供应天数/成本拆分等)
type MetadataJSON map[string]interface{}

// Scan 实现sql.Scanner接口
func (m *MetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataJSON{}
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("无法将 %T 转换为 MetadataJSON", value)
	}

	if str == "" {
		*m = MetadataJSON{}
		return nil
	}

	return json.Unmarshal([]byte(str), m)
}

// Value 实现driver.Valuer接口
func (m MetadataJSON) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Decision 决策值对象
// 决策管线每个周期新鲜产出,管线自身不去重不合并,落库与执行由调用方负责
type Decision struct {
	Agent         string       `json:"agent"`                    // 产出决策的代理名称
	Type          Type         `json:"type"`                     // 决策类型
	Urgency       Urgency      `json:"urgency"`                  // 紧急度
	SourceNodeID  uint64       `json:"source_node_id,omitempty"` // 来源节点ID，可选(0表示无)
	DestNodeID    uint64       `json:"dest_node_id,omitempty"`   // 目标节点ID，可选(0表示无)
	Quantity      int64        `json:"quantity,omitempty"`       // 数量，可选
	EstimatedCost float64      `json:"estimated_cost,omitempty"` // 预估成本，可选
	Reason        string       `json:"reason"`                   // 决策原因(人类可读)
	Metadata      MetadataJSON `json:"metadata,omitempty"`       // 诊断元数据
}

// AgentDecision 决策落库实体
type AgentDecision struct {
	ID           uint64  `json:"id" gorm:"primaryKey;autoIncrement;comment:决策ID"`
	AgentName    string  `json:"agent_name" gorm:"size:100;not null;comment:产出决策的代理名称"`
	DecisionType Type    `json:"decision_type" gorm:"size:20;not null;index;comment:决策类型"`
	Urgency      Urgency `json:"urgency" gorm:"size:20;default:MEDIUM;index;comment:紧急度"`

	// 关联节点(可为空)
	SourceNodeID *uint64 `json:"source_node_id" gorm:"index;comment:来源节点ID"`
	DestNodeID   *uint64 `json:"dest_node_id" gorm:"index;comment:目标节点ID"`

	// 决策数据
	Quantity      *int64       `json:"quantity" gorm:"comment:数量"`
	EstimatedCost *float64     `json:"estimated_cost" gorm:"comment:预估成本"`
	Reason        string       `json:"reason" gorm:"type:text;comment:决策原因"`
	Metadata      MetadataJSON `json:"metadata" gorm:"type:json;comment:诊断元数据"`

	// 执行状态
	IsExecuted bool       `json:"is_executed" gorm:"default:false;comment:是否已执行"`
	ExecutedAt *time.Time `json:"executed_at" gorm:"comment:执行时间"`

	// 时间戳
	CreatedAt time.Time `json:"created_at" gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (AgentDecision) TableName() string {
	return "agent_decisions"
}

// ToEntity 将管线决策值对象转换为落库实体
func (d *Decision) ToEntity() *AgentDecision {
	entity := &AgentDecision{
		AgentName:    d.Agent,
		DecisionType: d.Type,
		Urgency:      d.Urgency,
		Reason:       d.Reason,
		Metadata:     d.Metadata,
	}
	if d.SourceNodeID != 0 {
		src := d.SourceNodeID
		entity.SourceNodeID = &src
	}
	if d.DestNodeID != 0 {
		dst := d.DestNodeID
		entity.DestNodeID = &dst
	}
	if d.Quantity != 0 {
		qty := d.Quantity
		entity.Quantity = &qty
	}
	if d.EstimatedCost != 0 {
		cost := d.EstimatedCost
		entity.EstimatedCost = &cost
	}
	return entity
}
