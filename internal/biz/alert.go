package biz

import (
	"context"
	"fmt"
	"time"

	"quota-service/internal/constants"
	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// AlertKey 告警唯一键：同一键最多一条未关闭告警
type AlertKey struct {
	Scope ScopeRef
	Name  string // 配额名；成本告警为空
	Type  string
}

// AlertEvent 对外发布的告警/事件
type AlertEvent struct {
	Type      string    `json:"type"`
	Scope     ScopeRef  `json:"scope"`
	QuotaName string    `json:"quota_name,omitempty"`
	Limit     float64   `json:"limit"`
	Usage     float64   `json:"usage"`
	Threshold float64   `json:"threshold,omitempty"`
	Project   *ScopeRef `json:"project,omitempty"`
	Message   string    `json:"message"`
	Closed    bool      `json:"closed"`
	At        time.Time `json:"at"`
}

// AlertRepo 告警状态存储
type AlertRepo interface {
	// OpenAlert 已存在未关闭告警时返回 false
	OpenAlert(ctx context.Context, key AlertKey, message string) (bool, error)
	// CloseAlert 没有未关闭告警时返回 false
	CloseAlert(ctx context.Context, key AlertKey) (bool, error)
}

// AlertPublisher 告警发布
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event *AlertEvent) error
}

// AlertUseCase 阈值告警
// 告警是幂等的：只有状态发生变化（新开启/关闭）时才对外发布
type AlertUseCase struct {
	repo      AlertRepo
	publisher AlertPublisher
	scopes    *ScopeResolver
	conf      *EngineConfig
	log       *log.Helper
	metrics   *metrics.EngineMetrics
	now       func() time.Time
}

// NewAlertUseCase 创建告警 UseCase
func NewAlertUseCase(repo AlertRepo, publisher AlertPublisher, scopes *ScopeResolver, conf *EngineConfig, logger log.Logger) *AlertUseCase {
	return &AlertUseCase{
		repo:      repo,
		publisher: publisher,
		scopes:    scopes,
		conf:      conf,
		log:       log.NewHelper(logger),
		metrics:   metrics.GetMetrics(),
		now:       time.Now,
	}
}

// CheckQuotaThreshold 检查配额是否超过告警比例，超过则开启告警，否则关闭
func (uc *AlertUseCase) CheckQuotaThreshold(ctx context.Context, quota *Quota) {
	if quota.IsGlobal() {
		return
	}
	key := AlertKey{Scope: quota.Scope, Name: quota.Name, Type: constants.AlertTypeQuotaOverThreshold}

	if !quota.IsExceeded(uc.conf.AlertThreshold) {
		closed, err := uc.repo.CloseAlert(ctx, key)
		if err != nil {
			uc.log.Errorf("close quota alert failed: quota=%s, scope=%s, error=%v", quota.Name, quota.Scope, err)
			return
		}
		if closed {
			uc.recordAlert(quota.Name, constants.AlertActionClosed)
			uc.publish(ctx, &AlertEvent{
				Type:      constants.AlertTypeQuotaOverThreshold,
				Scope:     quota.Scope,
				QuotaName: quota.Name,
				Limit:     quota.Limit,
				Usage:     quota.Usage,
				Message:   fmt.Sprintf("Quota %s is back under threshold.", quota.Name),
				Closed:    true,
				At:        uc.now(),
			})
		}
		return
	}

	message := fmt.Sprintf("Quota %s is over threshold. Limit: %v, usage: %v", quota.Name, quota.Limit, quota.Usage)
	opened, err := uc.repo.OpenAlert(ctx, key, message)
	if err != nil {
		uc.log.Errorf("open quota alert failed: quota=%s, scope=%s, error=%v", quota.Name, quota.Scope, err)
		return
	}
	if !opened {
		return
	}
	uc.recordAlert(quota.Name, constants.AlertActionRaised)
	uc.log.Warnf("%s: scope=%s", message, quota.Scope)
	uc.publish(ctx, &AlertEvent{
		Type:      constants.AlertTypeQuotaOverThreshold,
		Scope:     quota.Scope,
		QuotaName: quota.Name,
		Limit:     quota.Limit,
		Usage:     quota.Usage,
		Message:   message,
		At:        uc.now(),
	})

	if quota.Scope.Kind == ScopeKindServiceProjectLink {
		uc.publishThresholdReached(ctx, quota)
	}
}

// publishThresholdReached 项目-服务关联的配额达到阈值时额外发出项目级事件
func (uc *AlertUseCase) publishThresholdReached(ctx context.Context, quota *Quota) {
	project, err := uc.scopes.AncestorOfKind(ctx, quota.Scope, ScopeKindProject)
	if err != nil {
		uc.log.Errorf("resolve project of %s failed: %v", quota.Scope, err)
		return
	}
	event := &AlertEvent{
		Type:      constants.EventTypeQuotaThresholdReached,
		Scope:     quota.Scope,
		QuotaName: quota.Name,
		Limit:     quota.Limit,
		Usage:     quota.Usage,
		Threshold: uc.conf.AlertThreshold * quota.Limit,
		At:        uc.now(),
	}
	projectName := ""
	if project != nil {
		event.Project = &project.Ref
		projectName = project.Name
	}
	event.Message = fmt.Sprintf("%s quota threshold has been reached for project %s.", quota.Name, projectName)
	uc.publish(ctx, event)
}

// CheckEstimateThreshold 预估成本超过正阈值时开启告警，回落后关闭
func (uc *AlertUseCase) CheckEstimateThreshold(ctx context.Context, estimate *PriceEstimate) {
	key := AlertKey{Scope: estimate.Scope, Type: constants.AlertTypePriceEstimateOverThreshold}
	total, _ := estimate.Total.Float64()
	threshold, _ := estimate.Threshold.Float64()
	limit, _ := estimate.Limit.Float64()

	over := estimate.Threshold.GreaterThan(decimal.Zero) && estimate.Total.GreaterThanOrEqual(estimate.Threshold)
	if !over {
		closed, err := uc.repo.CloseAlert(ctx, key)
		if err != nil {
			uc.log.Errorf("close price estimate alert failed: scope=%s, error=%v", estimate.Scope, err)
			return
		}
		if closed {
			uc.publish(ctx, &AlertEvent{
				Type:      constants.AlertTypePriceEstimateOverThreshold,
				Scope:     estimate.Scope,
				Limit:     limit,
				Usage:     total,
				Threshold: threshold,
				Message:   "Price estimate is back under threshold.",
				Closed:    true,
				At:        uc.now(),
			})
		}
		return
	}

	message := fmt.Sprintf("Price estimate of %s for %s is over threshold. Threshold: %s, total: %s",
		estimate.Scope, estimate.Period(), estimate.Threshold, estimate.Total)
	opened, err := uc.repo.OpenAlert(ctx, key, message)
	if err != nil {
		uc.log.Errorf("open price estimate alert failed: scope=%s, error=%v", estimate.Scope, err)
		return
	}
	if !opened {
		return
	}
	uc.log.Warn(message)
	uc.publish(ctx, &AlertEvent{
		Type:      constants.AlertTypePriceEstimateOverThreshold,
		Scope:     estimate.Scope,
		Limit:     limit,
		Usage:     total,
		Threshold: threshold,
		Message:   message,
		At:        uc.now(),
	})
}

func (uc *AlertUseCase) publish(ctx context.Context, event *AlertEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishAlert(ctx, event); err != nil {
		uc.log.Errorf("publish alert failed: type=%s, scope=%s, error=%v", event.Type, event.Scope, err)
	}
}

func (uc *AlertUseCase) recordAlert(name, action string) {
	if uc.metrics != nil {
		uc.metrics.QuotaAlertTotal.WithLabelValues(name, action).Inc()
	}
}
