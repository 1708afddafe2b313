package biz

import "time"

// ConsumptionDetails 资源当月消耗明细（按价格预估记录一份）
type ConsumptionDetails struct {
	EstimateID           string
	Configuration        map[string]float64 // 当前配置：消耗项 -> 数量
	ConsumedBeforeUpdate map[string]float64 // 上次配置变更前已消耗：消耗项 -> 数量*小时
	LastUpdateTime       time.Time
}

// NewConsumptionDetails 新建空明细，起算时间为 start
func NewConsumptionDetails(estimateID string, start time.Time) *ConsumptionDetails {
	return &ConsumptionDetails{
		EstimateID:           estimateID,
		Configuration:        map[string]float64{},
		ConsumedBeforeUpdate: map[string]float64{},
		LastUpdateTime:       start,
	}
}

// UpdateConfiguration 先把旧配置截止到 now 的消耗计入，再切换为新配置
func (d *ConsumptionDetails) UpdateConfiguration(configuration map[string]float64, now time.Time) {
	d.ConsumedBeforeUpdate = d.consumedUntil(now)
	d.Configuration = make(map[string]float64, len(configuration))
	for name, quantity := range configuration {
		d.Configuration[name] = quantity
	}
	d.LastUpdateTime = now
}

// ConsumedInMonth 假设配置保持不变到月末时的当月总消耗
func (d *ConsumptionDetails) ConsumedInMonth(monthEnd time.Time) map[string]float64 {
	return d.consumedUntil(monthEnd)
}

func (d *ConsumptionDetails) consumedUntil(t time.Time) map[string]float64 {
	consumed := make(map[string]float64, len(d.ConsumedBeforeUpdate)+len(d.Configuration))
	for name, value := range d.ConsumedBeforeUpdate {
		consumed[name] = value
	}
	hours := t.Sub(d.LastUpdateTime).Hours()
	if hours < 0 {
		hours = 0
	}
	for name, quantity := range d.Configuration {
		consumed[name] += quantity * hours
	}
	return consumed
}

// MonthBounds 返回 t 所在月份的起止时间（止为下月第一天 0 点）
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
