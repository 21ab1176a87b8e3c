// Package activity 实现用户活动日志的异步记录与查询。
package activity

import "time"

// Log 一条用户活动记录。
type Log struct {
	ID         uint64    `gorm:"primaryKey"          json:"id"`
	Username   string    `gorm:"size:64;index"       json:"username"`
	EventType  string    `gorm:"size:64;not null"    json:"eventType"`
	Message    string    `gorm:"size:512"            json:"message"`
	EntityType string    `gorm:"size:64"             json:"entityType"`
	EntityID   uint64    `json:"entityId"`
	CreatedAt  time.Time `gorm:"index"               json:"createdAt"`
}

// TableName 指定表名。
func (Log) TableName() string {
	return "user_activity_logs"
}
