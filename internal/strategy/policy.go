package strategy

import (
	"github.com/prathamjain99/Quant/internal/user"
)

// CanView 判定 viewer 是否可以读取策略。
// 规则：所有者总是可见；组合经理全量可见；客户仅见公开策略；
// 其余情况（含非所有者的研究员）不可见。
func CanView(viewer *user.User, s *Strategy) bool {
	if viewer == nil || s == nil {
		return false
	}

	if s.OwnerID == viewer.ID {
		return true
	}

	switch viewer.Role {
	case user.RolePortfolioManager:
		return true
	case user.RoleClient:
		return s.IsPublic
	case user.RoleResearcher:
		return false
	default:
		return false
	}
}

// CanModify 判定 viewer 是否可以修改/删除/变更可见性。
// 角色与所有权缺一不可：只有身为研究员的所有者可以修改。
func CanModify(viewer *user.User, s *Strategy) bool {
	return viewer != nil && s != nil &&
		viewer.Role == user.RoleResearcher &&
		s.OwnerID == viewer.ID
}
