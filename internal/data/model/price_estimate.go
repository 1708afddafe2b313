package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceEstimate 价格预估表
type PriceEstimate struct {
	PriceEstimateID string          `gorm:"primaryKey;type:varchar(36)"`
	ScopeKind       string          `gorm:"type:varchar(32);not null;uniqueIndex:uk_scope_month,priority:1"`
	ScopeID         string          `gorm:"type:varchar(64);not null;uniqueIndex:uk_scope_month,priority:2"`
	ScopeType       string          `gorm:"type:varchar(64);not null;index"` // openstack.instance / project ...
	CustomerID      string          `gorm:"type:varchar(64);not null;default:'';index:idx_customer_month,priority:1"`
	Year            int             `gorm:"not null;uniqueIndex:uk_scope_month,priority:3;index:idx_customer_month,priority:2"`
	Month           int             `gorm:"not null;uniqueIndex:uk_scope_month,priority:4;index:idx_customer_month,priority:3"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Limit           decimal.Decimal `gorm:"column:estimate_limit;type:decimal(20,4);not null"`
	Threshold       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Details         string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (PriceEstimate) TableName() string {
	return "price_estimate"
}

// PriceEstimateLink 同月预估的上下级关系
// 资源删除后其历史预估仍通过该关系计入上级
type PriceEstimateLink struct {
	ParentID  string    `gorm:"primaryKey;type:varchar(36)"`
	ChildID   string    `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (PriceEstimateLink) TableName() string {
	return "price_estimate_link"
}

// ConsumptionDetails 资源消耗明细，与预估一对一
type ConsumptionDetails struct {
	PriceEstimateID      string    `gorm:"primaryKey;type:varchar(36)"`
	Configuration        string    `gorm:"type:text"` // JSON: 消耗项 -> 数量
	ConsumedBeforeUpdate string    `gorm:"type:text"` // JSON: 消耗项 -> 数量*小时
	LastUpdateTime       time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ConsumptionDetails) TableName() string {
	return "consumption_details"
}
