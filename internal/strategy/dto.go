package strategy

import (
	"time"

	"github.com/prathamjain99/Quant/internal/user"
)

// DTO 是对外返回的策略视图，附带按观察者计算的操作权限。
type DTO struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Configuration Document   `json:"configuration"`
	Tags          []string   `json:"tags,omitempty"`
	IsPublic      bool       `json:"isPublic"`
	OwnerID       uint64     `json:"ownerId"`
	OwnerName     string     `json:"ownerName,omitempty"`
	OwnerUsername string     `json:"ownerUsername,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`

	CanEdit    bool `json:"canEdit"`
	CanDelete  bool `json:"canDelete"`
	CanPublish bool `json:"canPublish"`
}

// NewDTO 基于观察者视角构建策略视图。
// canPublish 仅在可修改且尚未公开时为真。
func NewDTO(s *Strategy, viewer *user.User) *DTO {
	dto := &DTO{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Configuration: s.Configuration,
		Tags:          s.Tags,
		IsPublic:      s.IsPublic,
		OwnerID:       s.OwnerID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		PublishedAt:   s.PublishedAt,
	}

	if s.Owner != nil {
		dto.OwnerName = s.Owner.Name
		dto.OwnerUsername = s.Owner.Username
	}

	modifiable := CanModify(viewer, s)
	dto.CanEdit = modifiable
	dto.CanDelete = modifiable
	dto.CanPublish = modifiable && !s.IsPublic

	return dto
}

// NewDTOList 批量构建策略视图。
func NewDTOList(items []*Strategy, viewer *user.User) []*DTO {
	out := make([]*DTO, 0, len(items))
	for _, s := range items {
		out = append(out, NewDTO(s, viewer))
	}
	return out
}
