package service

import (
	"context"
	"fmt"

	"quota-service/internal/biz"
	"quota-service/internal/constants"
	quotaErrors "quota-service/internal/errors"
	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// EventService 引擎的事件入口
// 外部服务在对象生命周期的固定时点显式调用这些方法。
// 汇总和告警失败只记录日志；只有成本超限会作为错误返回给调用方。
type EventService struct {
	scopes    *biz.ScopeUseCase
	quotas    *biz.QuotaUseCase
	estimates *biz.PriceEstimateUseCase
	sweeper   *biz.SweeperUseCase
	log       *log.Helper
	metrics   *metrics.EngineMetrics
}

// NewEventService 创建 EventService
func NewEventService(
	scopes *biz.ScopeUseCase,
	quotas *biz.QuotaUseCase,
	estimates *biz.PriceEstimateUseCase,
	sweeper *biz.SweeperUseCase,
	logger log.Logger,
) *EventService {
	return &EventService{
		scopes:    scopes,
		quotas:    quotas,
		estimates: estimates,
		sweeper:   sweeper,
		log:       log.NewHelper(logger),
		metrics:   metrics.GetMetrics(),
	}
}

// RegisterScope 只登记层级，不触发配额初始化
func (s *EventService) RegisterScope(ctx context.Context, node *biz.ScopeNode) error {
	if err := s.scopes.Register(ctx, node); err != nil {
		s.log.Errorf("RegisterScope failed: %v", err)
		return err
	}
	return nil
}

// OnScopeCreated 作用域创建：登记层级、初始化配额、更新计数
func (s *EventService) OnScopeCreated(ctx context.Context, node *biz.ScopeNode) error {
	if err := s.RegisterScope(ctx, node); err != nil {
		return err
	}
	err := s.quotas.HandleObjectCreated(ctx, node)
	s.record(EventScopeCreated, err)
	if err != nil {
		s.log.Errorf("OnScopeCreated quota handling failed: scope=%s, error=%v", node.Ref, err)
	}
	return nil
}

// OnResourceCreated 资源创建；consumables 为空时从成本后端读取配置
func (s *EventService) OnResourceCreated(ctx context.Context, node *biz.ScopeNode, consumables map[string]float64) error {
	if node.Ref.Kind != biz.ScopeKindResource {
		return fmt.Errorf("scope %s is not a resource", node.Ref)
	}
	if err := s.OnScopeCreated(ctx, node); err != nil {
		return err
	}

	var err error
	if consumables != nil {
		err = s.estimates.OnResourceConfigurationChanged(ctx, node, consumables)
	} else {
		err = s.estimates.OnResourceUpdated(ctx, node)
	}
	s.record(EventResourceCreated, err)
	if err != nil {
		s.log.Errorf("OnResourceCreated estimate update failed: scope=%s, error=%v", node.Ref, err)
	}
	return nil
}

// OnResourceDeleted 资源删除
func (s *EventService) OnResourceDeleted(ctx context.Context, ref biz.ScopeRef) error {
	return s.OnScopeDeleted(ctx, ref, biz.ScopeDeletionResource)
}

// OnResourceConfigurationChanged 资源配置变更
func (s *EventService) OnResourceConfigurationChanged(ctx context.Context, ref biz.ScopeRef, consumables map[string]float64) error {
	node, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	err = s.estimates.OnResourceConfigurationChanged(ctx, node, consumables)
	s.record(EventResourceConfigurationChanged, err)
	if err != nil {
		s.log.Errorf("OnResourceConfigurationChanged failed: scope=%s, error=%v", ref, err)
	}
	return nil
}

// OnResourceQuotaChanged 资源配额变更后按后端配置重算预估
func (s *EventService) OnResourceQuotaChanged(ctx context.Context, ref biz.ScopeRef) error {
	node, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	err = s.estimates.OnResourceUpdated(ctx, node)
	s.record(EventResourceQuotaChanged, err)
	if err != nil {
		s.log.Errorf("OnResourceQuotaChanged failed: scope=%s, error=%v", ref, err)
	}
	return nil
}

// OnQuotaSaved 配额在引擎之外被保存后调用（引擎自身的修改已自动处理）
func (s *EventService) OnQuotaSaved(ctx context.Context, ref biz.QuotaRef, created bool, previousUsage float64) error {
	quota, err := s.quotas.Get(ctx, ref)
	if err != nil {
		s.record(EventQuotaSaved, err)
		s.log.Errorf("OnQuotaSaved failed: quota=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		return nil
	}
	if quota == nil {
		s.log.Warnf("OnQuotaSaved: quota %s of %s does not exist", ref.Name, ref.Scope)
		return nil
	}
	s.quotas.HandleQuotaSaved(ctx, quota, created, previousUsage)
	s.record(EventQuotaSaved, nil)
	return nil
}

// OnQuotaPreDelete 配额删除前调用，此时用量仍可读
func (s *EventService) OnQuotaPreDelete(ctx context.Context, ref biz.QuotaRef) error {
	quota, err := s.quotas.Get(ctx, ref)
	if err != nil || quota == nil {
		s.record(EventQuotaPreDelete, err)
		if err != nil {
			s.log.Errorf("OnQuotaPreDelete failed: quota=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		}
		return nil
	}
	s.quotas.HandleQuotaPreDelete(ctx, quota)
	s.record(EventQuotaPreDelete, nil)
	return nil
}

// OnScopeDeleted 作用域删除，必须在作用域真正从外部层级消失之前调用
// 依次处理配额、价格预估，最后把节点从层级镜像中移除
func (s *EventService) OnScopeDeleted(ctx context.Context, ref biz.ScopeRef, kind biz.ScopeDeletionKind) error {
	node, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if kind == "" {
		kind = biz.DeletionKindOf(ref)
	}

	if err := s.quotas.HandleObjectDeleted(ctx, node); err != nil {
		s.log.Errorf("OnScopeDeleted quota handling failed: scope=%s, error=%v", ref, err)
		s.record(EventScopeDeleted, err)
	}
	if err := s.estimates.OnScopeDeleted(ctx, node, kind); err != nil {
		s.log.Errorf("OnScopeDeleted estimate handling failed: scope=%s, error=%v", ref, err)
		s.record(EventScopeDeleted, err)
	}
	if err := s.scopes.Remove(ctx, ref); err != nil {
		s.record(EventScopeDeleted, err)
		return err
	}
	s.record(EventScopeDeleted, nil)
	return nil
}

// OnScopeUnlinked 解除关联暂不支持
func (s *EventService) OnScopeUnlinked(ctx context.Context, ref biz.ScopeRef) error {
	err := s.estimates.OnScopeUnlinked(ctx, ref)
	s.record(EventScopeUnlinked, err)
	return err
}

// CheckProvision 资源开通准入检查，超限时返回 CostLimitExceeded
func (s *EventService) CheckProvision(ctx context.Context, req *biz.ProvisionRequest) error {
	err := s.estimates.CheckProjectCostLimit(ctx, req)
	if err == nil {
		return nil
	}
	if quotaErrors.IsCostLimitExceeded(err) {
		return err
	}
	// 其他错误不阻止开通
	s.log.Errorf("CheckProvision failed, provisioning proceeds: %v", err)
	return nil
}

// RunSweeper 执行一致性清理
func (s *EventService) RunSweeper(ctx context.Context, confirm biz.ConfirmFunc) ([]*biz.SweepReport, error) {
	reports, err := s.sweeper.Run(ctx, confirm)
	s.record(EventSweep, err)
	return reports, err
}

func (s *EventService) resolve(ctx context.Context, ref biz.ScopeRef) (*biz.ScopeNode, error) {
	node, err := s.scopes.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, quotaErrors.ErrScopeNotFound
	}
	return node, nil
}

func (s *EventService) record(event string, err error) {
	if s.metrics == nil {
		return
	}
	result := constants.ResultSuccess
	if err != nil {
		result = constants.ResultFailed
	}
	s.metrics.EventTotal.WithLabelValues(event, result).Inc()
}
