package model

import (
	"time"
)

// QuotaAlert 阈值告警表，closed_at 为空表示未关闭
// 未关闭的告警 opened 为 true，关闭后置为 NULL，唯一索引只约束未关闭告警
type QuotaAlert struct {
	QuotaAlertID string     `gorm:"primaryKey;type:varchar(36)"`
	ScopeKind    string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_alert_open,priority:1"`
	ScopeID      string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_alert_open,priority:2"`
	QuotaName    string     `gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_alert_open,priority:3"`
	AlertType    string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_alert_open,priority:4"`
	Opened       *bool      `gorm:"uniqueIndex:idx_alert_open,priority:5"`
	Message      string     `gorm:"type:varchar(512)"`
	ClosedAt     *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (QuotaAlert) TableName() string {
	return "quota_alert"
}
