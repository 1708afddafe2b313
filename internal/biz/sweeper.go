package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// 清理轮次
const (
	SweepPassUnregistered = "unregistered_scope_type"
	SweepPassOrphaned     = "orphaned_empty"
	SweepPassIncomplete   = "incomplete_month"
)

// ConfirmFunc 删除前确认，返回 false 时跳过本轮
type ConfirmFunc func(pass string, count int, description string) bool

// AssumeYes 无需确认
func AssumeYes(string, int, string) bool { return true }

// SweepReport 单轮清理结果
type SweepReport struct {
	Pass      string
	Found     int
	Deleted   int
	Confirmed bool
}

// SweeperUseCase 价格预估一致性清理
// 每一轮单独提交，中途失败不回滚，重新执行即可
type SweeperUseCase struct {
	repo     PriceEstimateRepo
	registry *CostRegistry
	scopes   *ScopeResolver
	log      *log.Helper
	metrics  *metrics.EngineMetrics
}

// NewSweeperUseCase 创建清理 UseCase
func NewSweeperUseCase(repo PriceEstimateRepo, registry *CostRegistry, scopes *ScopeResolver, logger log.Logger) *SweeperUseCase {
	return &SweeperUseCase{
		repo:     repo,
		registry: registry,
		scopes:   scopes,
		log:      log.NewHelper(logger),
		metrics:  metrics.GetMetrics(),
	}
}

// Run 依次执行三轮清理
func (uc *SweeperUseCase) Run(ctx context.Context, confirm ConfirmFunc) ([]*SweepReport, error) {
	if confirm == nil {
		confirm = AssumeYes
	}
	passes := []struct {
		name        string
		description string
		find        func(ctx context.Context) ([]*PriceEstimate, error)
	}{
		{SweepPassUnregistered, "price estimates whose scope type is not registered", uc.findUnregistered},
		{SweepPassOrphaned, "price estimates without scope and details", uc.findOrphaned},
		{SweepPassIncomplete, "price estimates of months with an empty tier", uc.findIncomplete},
	}

	var reports []*SweepReport
	for _, pass := range passes {
		invalid, err := pass.find(ctx)
		if err != nil {
			return reports, fmt.Errorf("sweeper pass %s: %w", pass.name, err)
		}
		report := &SweepReport{Pass: pass.name, Found: len(invalid)}
		reports = append(reports, report)
		if len(invalid) == 0 {
			continue
		}
		if !confirm(pass.name, len(invalid), pass.description) {
			uc.log.Infof("sweeper pass %s skipped: %d estimates kept", pass.name, len(invalid))
			continue
		}
		report.Confirmed = true

		ids := make([]string, 0, len(invalid))
		for _, e := range invalid {
			ids = append(ids, e.ID)
		}
		if err := uc.repo.DeleteEstimates(ctx, ids); err != nil {
			return reports, fmt.Errorf("sweeper pass %s: %w", pass.name, err)
		}
		report.Deleted = len(ids)
		if uc.metrics != nil {
			uc.metrics.SweeperDeletedTotal.WithLabelValues(pass.name).Add(float64(len(ids)))
		}
		uc.log.Infof("sweeper pass %s: deleted %d estimates", pass.name, len(ids))
	}
	return reports, nil
}

// findUnregistered 第一轮：scope_type 既不是已知作用域也不是已注册资源类型
func (uc *SweeperUseCase) findUnregistered(ctx context.Context) ([]*PriceEstimate, error) {
	valid := map[string]bool{
		string(ScopeKindCustomer):           true,
		string(ScopeKindProject):            true,
		string(ScopeKindServiceProjectLink): true,
	}
	for _, t := range uc.registry.ResourceTypes() {
		valid[t] = true
	}

	estimates, err := uc.repo.ListAllEstimates(ctx)
	if err != nil {
		return nil, err
	}
	var invalid []*PriceEstimate
	for _, e := range estimates {
		if !valid[e.ScopeType] {
			invalid = append(invalid, e)
		}
	}
	return invalid, nil
}

// findOrphaned 第二轮：作用域已不存在且 details 为空
func (uc *SweeperUseCase) findOrphaned(ctx context.Context) ([]*PriceEstimate, error) {
	estimates, err := uc.repo.ListAllEstimates(ctx)
	if err != nil {
		return nil, err
	}
	var invalid []*PriceEstimate
	for _, e := range estimates {
		if strings.TrimSpace(e.Details) != "" {
			continue
		}
		exists, err := uc.scopes.Exists(ctx, e.Scope)
		if err != nil {
			return nil, err
		}
		if !exists {
			invalid = append(invalid, e)
		}
	}
	return invalid, nil
}

type sweepBucket struct {
	customerID string
	year       int
	month      int
}

// findIncomplete 第三轮：同一客户同一月份中项目、关联、资源三层任一层为空时整月作废
func (uc *SweeperUseCase) findIncomplete(ctx context.Context) ([]*PriceEstimate, error) {
	estimates, err := uc.repo.ListAllEstimates(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[sweepBucket]map[ScopeKind][]*PriceEstimate)
	for _, e := range estimates {
		// 没有所属客户的预估无法归入任何客户，不在本轮处理
		if e.Scope.Kind == ScopeKindCustomer || e.CustomerID == "" {
			continue
		}
		key := sweepBucket{customerID: e.CustomerID, year: e.Year, month: e.Month}
		if buckets[key] == nil {
			buckets[key] = make(map[ScopeKind][]*PriceEstimate)
		}
		buckets[key][e.Scope.Kind] = append(buckets[key][e.Scope.Kind], e)
	}

	keys := make([]sweepBucket, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].customerID != keys[j].customerID {
			return keys[i].customerID < keys[j].customerID
		}
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	tiers := []ScopeKind{ScopeKindProject, ScopeKindServiceProjectLink, ScopeKindResource}
	var invalid []*PriceEstimate
	for _, key := range keys {
		bucket := buckets[key]
		complete := true
		for _, tier := range tiers {
			if len(bucket[tier]) == 0 {
				complete = false
				break
			}
		}
		if complete {
			continue
		}
		for _, tier := range tiers {
			invalid = append(invalid, bucket[tier]...)
		}
	}
	return invalid, nil
}
