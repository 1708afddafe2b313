package model

import (
	"time"
)

// ScopeNode 作用域层级镜像（由外部服务通过事件维护）
type ScopeNode struct {
	ScopeKind    string    `gorm:"primaryKey;type:varchar(32)"`
	ScopeID      string    `gorm:"primaryKey;type:varchar(64)"`
	ParentKind   string    `gorm:"type:varchar(32);not null;default:'';index:idx_parent,priority:1"`
	ParentID     string    `gorm:"type:varchar(64);not null;default:'';index:idx_parent,priority:2"`
	Name         string    `gorm:"type:varchar(255)"`
	ResourceType string    `gorm:"type:varchar(64)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ScopeNode) TableName() string {
	return "scope_node"
}
