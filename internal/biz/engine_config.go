package biz

import (
	"time"

	"quota-service/internal/conf"
	"quota-service/internal/constants"
)

// EngineConfig 引擎配置
type EngineConfig struct {
	AlertThreshold    float64       // 配额告警比例
	CostLookupTimeout time.Duration // 准入检查中单次成本查询超时
}

// NewEngineConfig 从配置创建 EngineConfig
func NewEngineConfig(c *conf.Bootstrap) *EngineConfig {
	config := &EngineConfig{
		AlertThreshold:    constants.DefaultAlertThreshold, // 默认值
		CostLookupTimeout: 2 * time.Second,
	}
	if c == nil {
		return config
	}
	if c.Quota != nil && c.Quota.AlertThreshold > 0 {
		config.AlertThreshold = c.Quota.AlertThreshold
	}
	if c.CostTracking != nil && c.CostTracking.CostLookupTimeout != nil {
		if d := c.CostTracking.CostLookupTimeout.AsDuration(); d > 0 {
			config.CostLookupTimeout = d
		}
	}
	return config
}
