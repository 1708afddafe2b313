package biz

import (
	"context"
	"fmt"
)

// HandleQuotaSaved 配额保存后的处理：阈值告警 + 向汇总配额传播变化量
// 汇总失败只记录日志，不影响触发事件本身
func (uc *QuotaUseCase) HandleQuotaSaved(ctx context.Context, quota *Quota, created bool, previousUsage float64) {
	if quota == nil {
		return
	}
	if uc.alerts != nil {
		uc.alerts.CheckQuotaThreshold(ctx, quota)
	}

	if !uc.isAggregationSource(quota) {
		return
	}
	for _, agg := range uc.registry.AggregatorsFor(quota.Scope.Kind, quota.Name) {
		diff := agg.PostChildQuotaSave(quota, created, previousUsage)
		if diff == 0 {
			continue
		}
		if err := uc.applyToAggregator(ctx, agg, quota, diff, false); err != nil {
			uc.log.Errorf("aggregate quota %s of %s failed: %v", agg.Name, quota.Scope, err)
			uc.recordAggregationFailure("post_save")
		}
	}
}

// HandleQuotaPreDelete 配额删除前从汇总配额中扣除其用量（删除后用量不可读）
func (uc *QuotaUseCase) HandleQuotaPreDelete(ctx context.Context, quota *Quota) {
	if quota == nil || !uc.isAggregationSource(quota) {
		return
	}
	for _, agg := range uc.registry.AggregatorsFor(quota.Scope.Kind, quota.Name) {
		diff := agg.PreChildQuotaDelete(quota)
		if diff == 0 {
			continue
		}
		if err := uc.applyToAggregator(ctx, agg, quota, diff, true); err != nil {
			uc.log.Errorf("release quota %s of %s from aggregator failed: %v", quota.Name, quota.Scope, err)
			uc.recordAggregationFailure("pre_delete")
		}
	}
}

// RecalculateUsage 按当前存活的直接下级重新计算汇总配额
func (uc *QuotaUseCase) RecalculateUsage(ctx context.Context, ref QuotaRef) error {
	field, ok := uc.registry.Field(ref.Scope.Kind, ref.Name).(*UsageAggregatorQuotaField)
	if !ok {
		return fmt.Errorf("quota %s of %s is not an aggregator", ref.Name, ref.Scope.Kind)
	}
	if _, err := uc.GetOrCreate(ctx, ref); err != nil {
		return err
	}

	children, err := uc.scopes.Children(ctx, ref.Scope)
	if err != nil {
		return err
	}
	var total float64
	for _, child := range children {
		if child.Ref.Kind != field.ChildKind() {
			continue
		}
		q, err := uc.repo.GetQuota(ctx, QuotaRef{Name: field.ChildName(), Scope: child.Ref})
		if err != nil {
			return err
		}
		if q != nil {
			total += q.Usage
		}
	}
	return uc.SetUsage(ctx, ref, total)
}

// isAggregationSource 只有已注册的非汇总作用域配额才会触发汇总
func (uc *QuotaUseCase) isAggregationSource(quota *Quota) bool {
	if quota.IsGlobal() {
		return false
	}
	if uc.registry.Field(quota.Scope.Kind, quota.Name) == nil {
		return false
	}
	return !uc.registry.IsAggregator(quota.Scope.Kind, quota.Name)
}

func (uc *QuotaUseCase) applyToAggregator(ctx context.Context, agg *UsageAggregatorQuotaField, child *Quota, diff float64, failSilently bool) error {
	parent, err := uc.scopes.AncestorOfKind(ctx, child.Scope, agg.Scope)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}
	ref := QuotaRef{Name: agg.Name, Scope: parent.Ref}
	if !failSilently {
		_, created, err := uc.getOrCreate(ctx, ref)
		if err != nil {
			return err
		}
		// 新建的汇总配额从 0 开始，已有下级用量需要整体重算
		if created {
			return uc.RecalculateUsage(ctx, ref)
		}
	}
	return uc.AddUsage(ctx, ref, diff, failSilently)
}

func (uc *QuotaUseCase) recordAggregationFailure(stage string) {
	if uc.metrics != nil {
		uc.metrics.AggregationFailures.WithLabelValues(stage).Inc()
	}
}
