package model

import (
	"time"
)

// Quota 配额表
// 全局配额的 scope_kind/scope_id 为空字符串；usage/limit 为保留字，列名加前缀
type Quota struct {
	QuotaID   string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_name_scope,priority:1"`
	ScopeKind string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:uk_name_scope,priority:2;index:idx_scope,priority:1"`
	ScopeID   string    `gorm:"type:varchar(64);not null;default:'';uniqueIndex:uk_name_scope,priority:3;index:idx_scope,priority:2"`
	Usage     float64   `gorm:"column:quota_usage;not null;default:0"`
	Limit     float64   `gorm:"column:quota_limit;not null"`
	Threshold float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Quota) TableName() string {
	return "quota"
}
