package constants

// 时间格式常量
const (
	// TimeFormatMonth 月份格式 (YYYY-MM)
	TimeFormatMonth = "2006-01"
)

// Redis Key 前缀常量
const (
	// RedisKeyQuotaLock 配额更新锁 key 前缀
	RedisKeyQuotaLock = "quota:lock:"
)

// 告警/事件类型常量
const (
	// AlertTypeQuotaOverThreshold 配额使用量超过阈值
	AlertTypeQuotaOverThreshold = "quota_usage_is_over_threshold"
	// EventTypeQuotaThresholdReached 项目-服务关联配额达到阈值
	EventTypeQuotaThresholdReached = "quota_threshold_reached"
	// AlertTypePriceEstimateOverThreshold 预估成本超过阈值
	AlertTypePriceEstimateOverThreshold = "price_estimate_is_over_threshold"
)

// 默认值常量
const (
	// DefaultAlertThreshold 默认告警比例
	DefaultAlertThreshold = 0.8
	// UnlimitedValue 不限额
	UnlimitedValue = -1
)

// 结果标签常量（用于指标）
const (
	// ResultSuccess 成功
	ResultSuccess = "success"
	// ResultFailed 失败
	ResultFailed = "failed"
	// ResultSkipped 跳过
	ResultSkipped = "skipped"
	// ResultAllowed 允许
	ResultAllowed = "allowed"
	// ResultRejected 拒绝
	ResultRejected = "rejected"
	// ResultDegraded 降级放行
	ResultDegraded = "degraded"
)

// 告警动作常量
const (
	// AlertActionRaised 告警触发
	AlertActionRaised = "raised"
	// AlertActionClosed 告警关闭
	AlertActionClosed = "closed"
)
