package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics 配额与成本跟踪引擎指标
type EngineMetrics struct {
	// 配额相关指标
	QuotaUpdateTotal    *prometheus.CounterVec // 配额用量更新总数（按配额名、结果）
	QuotaUpdateDuration prometheus.Histogram   // 配额用量更新耗时
	QuotaAlertTotal     *prometheus.CounterVec // 阈值告警（按配额名、动作）
	AggregationFailures *prometheus.CounterVec // 聚合失败数（按阶段）

	// 成本估算相关指标
	EstimateUpdateTotal *prometheus.CounterVec // 预估更新总数（按作用域类型）
	CostLimitCheckTotal *prometheus.CounterVec // 准入检查（按结果）
	CostLookupDuration  prometheus.Histogram   // 成本查询耗时

	// 清理相关指标
	SweeperDeletedTotal *prometheus.CounterVec // 清理删除数（按轮次）

	// 事件入口
	EventTotal *prometheus.CounterVec // 生命周期事件（按类型、结果）

	// 分布式锁相关指标
	LockAcquireTotal    *prometheus.CounterVec // 锁获取总数（按结果）
	LockAcquireDuration prometheus.Histogram   // 锁获取耗时
}

// NewEngineMetrics 创建引擎指标
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		QuotaUpdateTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_usage_update_total",
				Help: "Total number of quota usage updates",
			},
			[]string{"quota", "result"},
		),
		QuotaUpdateDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quota_usage_update_duration_seconds",
				Help:    "Duration of quota usage updates",
				Buckets: prometheus.DefBuckets,
			},
		),
		QuotaAlertTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_threshold_alert_total",
				Help: "Total number of quota threshold alerts raised or closed",
			},
			[]string{"quota", "action"}, // action: raised/closed
		),
		AggregationFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_aggregation_failures_total",
				Help: "Total number of failed aggregation steps",
			},
			[]string{"stage"},
		),

		EstimateUpdateTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cost_price_estimate_update_total",
				Help: "Total number of price estimate total updates",
			},
			[]string{"scope_kind"},
		),
		CostLimitCheckTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cost_limit_check_total",
				Help: "Total number of provisioning cost limit checks",
			},
			[]string{"result"}, // result: allowed/rejected/degraded
		),
		CostLookupDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cost_lookup_duration_seconds",
				Help:    "Duration of monthly cost estimate lookups",
				Buckets: prometheus.DefBuckets,
			},
		),

		SweeperDeletedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cost_sweeper_deleted_total",
				Help: "Total number of price estimates removed by the sweeper",
			},
			[]string{"pass"},
		),

		EventTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_lifecycle_event_total",
				Help: "Total number of dispatched lifecycle events",
			},
			[]string{"event", "result"},
		),

		LockAcquireTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_lock_acquire_total",
				Help: "Total number of lock acquisition attempts",
			},
			[]string{"result"}, // result: success/failed
		),
		LockAcquireDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quota_lock_acquire_duration_seconds",
				Help:    "Duration of lock acquisition",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}, // 毫秒级
			},
		),
	}
}

// 全局指标实例
var (
	defaultMetrics *EngineMetrics
	once           sync.Once
)

// GetMetrics 获取全局指标实例
func GetMetrics() *EngineMetrics {
	once.Do(func() {
		defaultMetrics = NewEngineMetrics()
	})
	return defaultMetrics
}
