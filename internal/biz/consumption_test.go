package biz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumptionDetails_UpdateConfiguration(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, monthEnd := MonthBounds(start)
	d := NewConsumptionDetails("e1", start)

	d.UpdateConfiguration(map[string]float64{"cpu": 1}, start)
	assert.Equal(t, map[string]float64{"cpu": 672}, d.ConsumedInMonth(monthEnd))

	// 10 天后改为 2 核 + 1024 内存
	changed := start.Add(240 * time.Hour)
	d.UpdateConfiguration(map[string]float64{"cpu": 2, "ram": 1024}, changed)
	assert.Equal(t, map[string]float64{"cpu": 240}, d.ConsumedBeforeUpdate)
	assert.Equal(t, map[string]float64{"cpu": 240 + 2*432, "ram": 1024 * 432}, d.ConsumedInMonth(monthEnd))

	// 清空配置后只剩已消耗部分
	d.UpdateConfiguration(map[string]float64{}, changed.Add(24*time.Hour))
	assert.Equal(t, map[string]float64{"cpu": 288, "ram": 24576}, d.ConsumedInMonth(monthEnd))
}

func TestConsumptionDetails_IgnoresTimeBeforeLastUpdate(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	d := NewConsumptionDetails("e1", now)
	d.UpdateConfiguration(map[string]float64{"cpu": 4}, now)

	assert.Equal(t, map[string]float64{"cpu": 0}, d.ConsumedInMonth(now.Add(-time.Hour)))
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2026, 12, 15, 13, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
