// Package user 实现用户账户与角色模型。
package user

import (
	"fmt"
	"strings"
	"time"
)

// Role 是平台内封闭的用户角色集合。
// 新增角色必须同步补齐所有基于角色的分支逻辑。
type Role string

const (
	RoleResearcher       Role = "RESEARCHER"
	RolePortfolioManager Role = "PORTFOLIO_MANAGER"
	RoleClient           Role = "CLIENT"
)

// ParseRole 将外部输入解析为合法角色，大小写不敏感。
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case RoleResearcher:
		return RoleResearcher, nil
	case RolePortfolioManager:
		return RolePortfolioManager, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid 报告角色是否属于封闭集合。
func (r Role) Valid() bool {
	switch r {
	case RoleResearcher, RolePortfolioManager, RoleClient:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// User 平台账户。密码仅存 bcrypt 哈希。
type User struct {
	ID        uint64     `gorm:"primaryKey"                     json:"id"`
	Username  string     `gorm:"size:64;uniqueIndex;not null"   json:"username"`
	Email     string     `gorm:"size:128;uniqueIndex;not null"  json:"email"`
	Password  string     `gorm:"size:128;not null"              json:"-"`
	Name      string     `gorm:"size:128"                       json:"name"`
	Role      Role       `gorm:"size:32;not null"               json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}
