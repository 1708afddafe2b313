package data

import (
	"context"
	"fmt"
	"time"

	"quota-service/internal/biz"
	"quota-service/internal/conf"
	"quota-service/internal/data/model"
	quotaErrors "quota-service/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// priceListBackend 基于配置价目表的成本后端
// 资源配置取自资源作用域上与价目表同名的配额用量
type priceListBackend struct {
	data         *Data
	resourceType string
	prices       map[string]decimal.Decimal // 消耗项 -> 单位小时价格
	now          func() time.Time
}

func newPriceListBackend(data *Data, resourceType string, prices map[string]float64) *priceListBackend {
	b := &priceListBackend{
		data:         data,
		resourceType: resourceType,
		prices:       make(map[string]decimal.Decimal, len(prices)),
		now:          time.Now,
	}
	for name, price := range prices {
		b.prices[name] = decimal.NewFromFloat(price)
	}
	return b
}

// GetConsumables 资源当前配置
func (b *priceListBackend) GetConsumables(ctx context.Context, resource *biz.ScopeNode) (map[string]float64, error) {
	if b.data == nil || len(b.prices) == 0 {
		return nil, quotaErrors.ErrBackendNotImplemented
	}
	names := make([]string, 0, len(b.prices))
	for name := range b.prices {
		names = append(names, name)
	}

	var quotas []model.Quota
	if err := b.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ? AND name IN ?", string(resource.Ref.Kind), resource.Ref.ID, names).
		Find(&quotas).Error; err != nil {
		return nil, quotaErrors.BackendError(err)
	}
	consumables := make(map[string]float64, len(quotas))
	for _, q := range quotas {
		consumables[q.Name] = q.Usage
	}
	return consumables, nil
}

// GetMonthlyCostEstimate 按当前配置运行整月的成本
func (b *priceListBackend) GetMonthlyCostEstimate(ctx context.Context, spec *biz.ResourceSpec) (decimal.Decimal, error) {
	consumables := spec.Consumables
	if consumables == nil {
		var err error
		if consumables, err = b.GetConsumables(ctx, spec.Node); err != nil {
			return decimal.Zero, err
		}
	}
	start, end := biz.MonthBounds(b.now())
	hours := end.Sub(start).Hours()

	consumed := make(map[string]float64, len(consumables))
	for name, quantity := range consumables {
		consumed[name] = quantity * hours
	}
	return b.CalculateCost(ctx, b.resourceType, consumed)
}

// CalculateCost 已消耗量 * 单价，价目表中没有的消耗项不计费
func (b *priceListBackend) CalculateCost(_ context.Context, resourceType string, consumed map[string]float64) (decimal.Decimal, error) {
	if resourceType != b.resourceType {
		return decimal.Zero, fmt.Errorf("price list of %s cannot price %s", b.resourceType, resourceType)
	}
	total := decimal.Zero
	for name, value := range consumed {
		price, ok := b.prices[name]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromFloat(value)))
	}
	return total.Round(4), nil
}

// resilientCostBackend 为外部成本查询加上超时和熔断
type resilientCostBackend struct {
	inner   biz.CostBackend
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *log.Helper
}

// breakerSettings 熔断参数，配置中未设置（零值）的字段保留默认值
type breakerSettings struct {
	maxRequests      uint32
	interval         time.Duration
	timeout          time.Duration
	failureThreshold float64
	minRequests      uint32
}

func newBreakerSettings(c *conf.Breaker) breakerSettings {
	s := breakerSettings{
		maxRequests:      3,
		interval:         10 * time.Second,
		timeout:          30 * time.Second,
		failureThreshold: 0.5,
		minRequests:      3,
	}
	if v := c.GetMaxRequests(); v > 0 {
		s.maxRequests = v
	}
	if d := c.GetInterval().AsDuration(); d > 0 {
		s.interval = d
	}
	if d := c.GetTimeout().AsDuration(); d > 0 {
		s.timeout = d
	}
	if v := c.GetFailureThreshold(); v > 0 {
		s.failureThreshold = v
	}
	if v := c.GetMinRequests(); v > 0 {
		s.minRequests = v
	}
	return s
}

func newResilientCostBackend(name string, inner biz.CostBackend, c *conf.CostTracking, logger log.Logger) *resilientCostBackend {
	settings := newBreakerSettings(c.GetBreaker())
	timeout := 2 * time.Second
	if d := c.GetCostLookupTimeout().AsDuration(); d > 0 {
		timeout = d
	}

	logHelper := log.NewHelper(log.With(logger, "module", "cost-backend", "resource_type", name))
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cost-" + name,
		MaxRequests: settings.maxRequests,
		Interval:    settings.interval,
		Timeout:     settings.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 检查是否达到最小请求数
			if counts.Requests < settings.minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.failureThreshold
			if shouldTrip {
				logHelper.Warnf("Circuit breaker tripping: requests=%d, failures=%d, ratio=%.2f",
					counts.Requests, counts.TotalFailures, failureRatio)
			}
			return shouldTrip
		},
		// 后端明确不支持不算失败
		IsSuccessful: func(err error) bool {
			return err == nil || quotaErrors.IsBackendNotImplemented(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logHelper.Infof("Circuit breaker state change: %s -> %s", from, to)
		},
	})

	return &resilientCostBackend{
		inner:   inner,
		breaker: cb,
		timeout: timeout,
		log:     logHelper,
	}
}

func (b *resilientCostBackend) GetConsumables(ctx context.Context, resource *biz.ScopeNode) (map[string]float64, error) {
	return b.inner.GetConsumables(ctx, resource)
}

func (b *resilientCostBackend) CalculateCost(ctx context.Context, resourceType string, consumed map[string]float64) (decimal.Decimal, error) {
	return b.inner.CalculateCost(ctx, resourceType, consumed)
}

// GetMonthlyCostEstimate 通过熔断器查询，超时或熔断时返回 BackendError
func (b *resilientCostBackend) GetMonthlyCostEstimate(ctx context.Context, spec *biz.ResourceSpec) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	result, err := b.breaker.Execute(func() (interface{}, error) {
		type lookup struct {
			cost decimal.Decimal
			err  error
		}
		done := make(chan lookup, 1)
		go func() {
			cost, err := b.inner.GetMonthlyCostEstimate(ctx, spec)
			done <- lookup{cost: cost, err: err}
		}()

		select {
		case r := <-done:
			return r.cost, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	if err != nil {
		if quotaErrors.IsBackendNotImplemented(err) {
			return decimal.Zero, err
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			b.log.Warnf("cost lookup rejected by circuit breaker: %v", err)
		}
		return decimal.Zero, quotaErrors.BackendError(err)
	}
	return result.(decimal.Decimal), nil
}

// NewCostRegistry 按价目表为每个资源类型注册成本后端
func NewCostRegistry(data *Data, c *conf.Bootstrap, logger log.Logger) *biz.CostRegistry {
	backends := make(map[string]biz.CostBackend)
	for _, price := range c.GetCostTracking().GetPrices() {
		resourceType := price.GetResourceType()
		if resourceType == "" {
			continue
		}
		backends[resourceType] = newResilientCostBackend(resourceType, newPriceListBackend(data, resourceType, price.GetUnits()), c.GetCostTracking(), logger)
	}
	return biz.NewCostRegistry(backends)
}
