// Package strategy 实现策略的角色可见性、发布生命周期与唯一性约束。
package strategy

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/internal/user"
)

// Document 是不透明的策略配置文档。
// 引擎只关心"是否为空"，从不解释其内部结构，存取过程保持原样。
type Document map[string]any

// Value 实现 driver.Valuer，序列化为 JSON 存储。
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan 实现 sql.Scanner。
func (d *Document) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type for Document: %T", value)
	}
}

// StringList 以 JSON 数组形式存储的有序标签列表。
type StringList []string

// Value 实现 driver.Valuer。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner。
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Strategy 策略记录。
// (owner_id, name_lower) 上的复合唯一索引是名称唯一性的权威保障，
// 服务层的存在性检查只是提前返回的优化。
type Strategy struct {
	ID            uint64     `gorm:"primaryKey"                                                        json:"id"`
	Name          string     `gorm:"size:100;not null"                                                 json:"name"`
	NameLower     string     `gorm:"size:100;not null;uniqueIndex:uk_strategy_owner_name,priority:2"   json:"-"`
	Description   string     `gorm:"type:text"                                                         json:"description"`
	Configuration Document   `gorm:"type:json;not null"                                                json:"configuration"`
	Tags          StringList `gorm:"type:json"                                                         json:"tags"`
	IsPublic      bool       `gorm:"column:is_public;not null;default:false"                           json:"isPublic"`
	OwnerID       uint64     `gorm:"not null;uniqueIndex:uk_strategy_owner_name,priority:1"            json:"ownerId"`
	Owner         *user.User `gorm:"foreignKey:OwnerID"                                                json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// TableName 指定表名。
func (Strategy) TableName() string {
	return "strategies"
}

// BeforeSave 维护 name_lower 冗余列，保证唯一索引对大小写不敏感。
func (s *Strategy) BeforeSave(tx *gorm.DB) error {
	s.NameLower = strings.ToLower(s.Name)
	return nil
}

// Publish 将策略置为公开并盖上发布时间戳。
func (s *Strategy) Publish(now time.Time) {
	s.IsPublic = true
	s.PublishedAt = &now
}

// Unpublish 将策略收回为私有并清除发布时间戳。
func (s *Strategy) Unpublish() {
	s.IsPublic = false
	s.PublishedAt = nil
}

// DefaultConfiguration 返回创建时未提供配置的固定默认文档。
// 形状与取值必须与既有消费方逐位兼容，不得调整。
func DefaultConfiguration() Document {
	return Document{
		"indicators": map[string]any{
			"sma_short":  20,
			"sma_long":   50,
			"rsi_period": 14,
		},
		"entry_conditions": map[string]any{
			"price_above_sma": true,
			"rsi_above":       50,
		},
		"exit_conditions": map[string]any{
			"stop_loss_percent":   5,
			"take_profit_percent": 10,
		},
		"risk_management": map[string]any{
			"max_position_size": 0.1,
			"max_drawdown":      0.15,
		},
	}
}
