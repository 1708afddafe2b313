package biz

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"quota-service/internal/constants"
	quotaErrors "quota-service/internal/errors"
	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// PriceEstimate 价格预估领域对象：作用域在某月的累计成本
type PriceEstimate struct {
	ID         string
	Scope      ScopeRef
	ScopeType  string // 资源类型或作用域类型，作用域删除后仍可用于清理
	CustomerID string // 所属客户，作用域删除后仍保留
	Year       int
	Month      int
	Total      decimal.Decimal
	Limit      decimal.Decimal // -1 表示不限额
	Threshold  decimal.Decimal
	Details    string // 消耗明细 JSON，对引擎不透明
	UpdatedAt  time.Time
}

// Period 账期，格式 YYYY-MM
func (e *PriceEstimate) Period() string {
	return time.Date(e.Year, time.Month(e.Month), 1, 0, 0, 0, 0, time.UTC).Format(constants.TimeFormatMonth)
}

// IsUnlimited 是否不限额
func (e *PriceEstimate) IsUnlimited() bool {
	return e.Limit.Equal(decimal.NewFromInt(constants.UnlimitedValue))
}

// 可单独更新的预估字段
const (
	EstimateFieldTotal     = "total"
	EstimateFieldLimit     = "limit"
	EstimateFieldThreshold = "threshold"
	EstimateFieldDetails   = "details"
)

// PriceEstimateRepo 价格预估数据层接口
type PriceEstimateRepo interface {
	// GetEstimate 不存在时返回 nil, nil
	GetEstimate(ctx context.Context, scope ScopeRef, year, month int) (*PriceEstimate, error)
	// GetOrCreateEstimate 按 (scope, year, month) 幂等创建
	GetOrCreateEstimate(ctx context.Context, estimate *PriceEstimate) (*PriceEstimate, bool, error)
	// UpdateEstimate 只保存 fields 指定的字段
	UpdateEstimate(ctx context.Context, estimate *PriceEstimate, fields ...string) error
	// LinkEstimates 建立上下级关系，已存在时忽略
	LinkEstimates(ctx context.Context, parentID, childID string) error
	ListChildEstimates(ctx context.Context, parentID string) ([]*PriceEstimate, error)
	ListParentEstimates(ctx context.Context, childID string) ([]*PriceEstimate, error)
	ListEstimatesByScope(ctx context.Context, scope ScopeRef) ([]*PriceEstimate, error)
	ListAllEstimates(ctx context.Context) ([]*PriceEstimate, error)
	// DeleteEstimates 同时删除关联关系和消耗明细
	DeleteEstimates(ctx context.Context, ids []string) error

	// GetConsumptionDetails 不存在时返回 nil, nil
	GetConsumptionDetails(ctx context.Context, estimateID string) (*ConsumptionDetails, error)
	SaveConsumptionDetails(ctx context.Context, details *ConsumptionDetails) error
}

// ScopeDeletionKind 作用域删除类型
type ScopeDeletionKind string

const (
	ScopeDeletionResource ScopeDeletionKind = "resource"
	ScopeDeletionCustomer ScopeDeletionKind = "customer"
	ScopeDeletionOther    ScopeDeletionKind = "other"
)

// DeletionKindOf 根据作用域类型判断删除类型
func DeletionKindOf(ref ScopeRef) ScopeDeletionKind {
	switch ref.Kind {
	case ScopeKindResource:
		return ScopeDeletionResource
	case ScopeKindCustomer:
		return ScopeDeletionCustomer
	}
	return ScopeDeletionOther
}

// ProvisionRequest 资源开通准入请求，Resource.Parent 为所属项目-服务关联
type ProvisionRequest struct {
	Resource    *ScopeNode
	Consumables map[string]float64
}

// PriceEstimateUseCase 价格预估业务逻辑
// 祖先链上每一级独立重算并保存，传播过程中读者可能看到部分更新的中间状态
type PriceEstimateUseCase struct {
	repo     PriceEstimateRepo
	registry *CostRegistry
	scopes   *ScopeResolver
	alerts   *AlertUseCase
	conf     *EngineConfig
	log      *log.Helper
	metrics  *metrics.EngineMetrics
	now      func() time.Time
}

// NewPriceEstimateUseCase 创建价格预估 UseCase
func NewPriceEstimateUseCase(
	repo PriceEstimateRepo,
	registry *CostRegistry,
	scopes *ScopeResolver,
	alerts *AlertUseCase,
	conf *EngineConfig,
	logger log.Logger,
) *PriceEstimateUseCase {
	return &PriceEstimateUseCase{
		repo:     repo,
		registry: registry,
		scopes:   scopes,
		alerts:   alerts,
		conf:     conf,
		log:      log.NewHelper(logger),
		metrics:  metrics.GetMetrics(),
		now:      time.Now,
	}
}

// GetCurrent 作用域当月预估，不存在返回 nil
func (uc *PriceEstimateUseCase) GetCurrent(ctx context.Context, scope ScopeRef) (*PriceEstimate, error) {
	now := uc.now()
	return uc.repo.GetEstimate(ctx, scope, now.Year(), int(now.Month()))
}

// ListEstimates 作用域的全部预估（按年月排序）
func (uc *PriceEstimateUseCase) ListEstimates(ctx context.Context, scope ScopeRef) ([]*PriceEstimate, error) {
	estimates, err := uc.repo.ListEstimatesByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.Slice(estimates, func(i, j int) bool {
		if estimates[i].Year != estimates[j].Year {
			return estimates[i].Year < estimates[j].Year
		}
		return estimates[i].Month < estimates[j].Month
	})
	return estimates, nil
}

// GetOrCreateCurrentWithAncestors 获取或创建作用域当月预估，并逐级创建祖先预估、建立上下级关系
func (uc *PriceEstimateUseCase) GetOrCreateCurrentWithAncestors(ctx context.Context, node *ScopeNode) (*PriceEstimate, error) {
	now := uc.now()
	year, month := now.Year(), int(now.Month())

	ancestors, err := uc.scopes.Ancestors(ctx, node.Ref)
	if err != nil {
		return nil, err
	}
	customerID := ""
	if node.Ref.Kind == ScopeKindCustomer {
		customerID = node.Ref.ID
	}
	for _, a := range ancestors {
		if a.Ref.Kind == ScopeKindCustomer {
			customerID = a.Ref.ID
		}
	}

	estimate, err := uc.getOrCreate(ctx, node, customerID, year, month)
	if err != nil {
		return nil, err
	}
	child := estimate
	for _, a := range ancestors {
		parent, err := uc.getOrCreate(ctx, a, customerID, year, month)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.LinkEstimates(ctx, parent.ID, child.ID); err != nil {
			return nil, err
		}
		child = parent
	}
	return estimate, nil
}

func (uc *PriceEstimateUseCase) getOrCreate(ctx context.Context, node *ScopeNode, customerID string, year, month int) (*PriceEstimate, error) {
	estimate, created, err := uc.repo.GetOrCreateEstimate(ctx, &PriceEstimate{
		Scope:      node.Ref,
		ScopeType:  node.ScopeType(),
		CustomerID: customerID,
		Year:       year,
		Month:      month,
		Total:      decimal.Zero,
		Limit:      decimal.NewFromInt(constants.UnlimitedValue),
		Threshold:  decimal.Zero,
	})
	if err != nil {
		return nil, err
	}
	if created {
		if err := uc.copyThresholdFromPrevious(ctx, estimate); err != nil {
			return nil, err
		}
	}
	return estimate, nil
}

// copyThresholdFromPrevious 新月份预估沿用上月的正阈值，限额不沿用
func (uc *PriceEstimateUseCase) copyThresholdFromPrevious(ctx context.Context, estimate *PriceEstimate) error {
	prev := time.Date(estimate.Year, time.Month(estimate.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	previous, err := uc.repo.GetEstimate(ctx, estimate.Scope, prev.Year(), int(prev.Month()))
	if err != nil {
		return err
	}
	if previous == nil || !previous.Threshold.GreaterThan(decimal.Zero) {
		return nil
	}
	estimate.Threshold = previous.Threshold
	return uc.repo.UpdateEstimate(ctx, estimate, EstimateFieldThreshold)
}

// UpdateTotal 重算预估总额并逐级向上传播
// 资源预估按消耗明细调用成本后端计算，其余作用域为下级预估之和
func (uc *PriceEstimateUseCase) UpdateTotal(ctx context.Context, estimate *PriceEstimate) error {
	total, err := uc.computeTotal(ctx, estimate)
	if err != nil {
		return err
	}
	estimate.Total = total
	if err := uc.repo.UpdateEstimate(ctx, estimate, EstimateFieldTotal); err != nil {
		return err
	}
	if uc.metrics != nil {
		uc.metrics.EstimateUpdateTotal.WithLabelValues(string(estimate.Scope.Kind)).Inc()
	}
	if uc.alerts != nil {
		uc.alerts.CheckEstimateThreshold(ctx, estimate)
	}

	parents, err := uc.repo.ListParentEstimates(ctx, estimate.ID)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		if err := uc.UpdateTotal(ctx, parent); err != nil {
			return err
		}
	}
	return nil
}

func (uc *PriceEstimateUseCase) computeTotal(ctx context.Context, estimate *PriceEstimate) (decimal.Decimal, error) {
	if estimate.Scope.Kind != ScopeKindResource {
		children, err := uc.repo.ListChildEstimates(ctx, estimate.ID)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		for _, c := range children {
			total = total.Add(c.Total)
		}
		return total, nil
	}

	details, err := uc.repo.GetConsumptionDetails(ctx, estimate.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if details == nil {
		return decimal.Zero, nil
	}
	backend, err := uc.registry.Backend(estimate.ScopeType)
	if err != nil {
		return decimal.Zero, err
	}
	_, monthEnd := uc.monthBounds(estimate)
	return backend.CalculateCost(ctx, estimate.ScopeType, details.ConsumedInMonth(monthEnd))
}

func (uc *PriceEstimateUseCase) monthBounds(estimate *PriceEstimate) (time.Time, time.Time) {
	return MonthBounds(time.Date(estimate.Year, time.Month(estimate.Month), 1, 0, 0, 0, 0, uc.now().Location()))
}

type estimateChildDetails struct {
	Scope     string          `json:"scope"`
	ScopeType string          `json:"scope_type"`
	Total     decimal.Decimal `json:"total"`
}

type estimateDetails struct {
	Configuration   map[string]float64     `json:"configuration,omitempty"`
	ConsumedInMonth map[string]float64     `json:"consumed_in_month,omitempty"`
	Children        []estimateChildDetails `json:"children,omitempty"`
}

// InitDetails 根据消耗明细（资源）或当前下级预估（其他作用域）重建 details
func (uc *PriceEstimateUseCase) InitDetails(ctx context.Context, estimate *PriceEstimate) error {
	var details estimateDetails
	if estimate.Scope.Kind == ScopeKindResource {
		consumption, err := uc.repo.GetConsumptionDetails(ctx, estimate.ID)
		if err != nil {
			return err
		}
		if consumption != nil {
			_, monthEnd := uc.monthBounds(estimate)
			details.Configuration = consumption.Configuration
			details.ConsumedInMonth = consumption.ConsumedInMonth(monthEnd)
		}
	} else {
		children, err := uc.repo.ListChildEstimates(ctx, estimate.ID)
		if err != nil {
			return err
		}
		for _, c := range children {
			details.Children = append(details.Children, estimateChildDetails{
				Scope:     c.Scope.String(),
				ScopeType: c.ScopeType,
				Total:     c.Total,
			})
		}
		sort.Slice(details.Children, func(i, j int) bool { return details.Children[i].Scope < details.Children[j].Scope })
	}

	estimate.Details = ""
	if len(details.Configuration) > 0 || len(details.ConsumedInMonth) > 0 || len(details.Children) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		estimate.Details = string(raw)
	}
	return uc.repo.UpdateEstimate(ctx, estimate, EstimateFieldDetails)
}

// updateResourceEstimate 记录资源新配置并重算资源及其祖先的当月预估
func (uc *PriceEstimateUseCase) updateResourceEstimate(ctx context.Context, node *ScopeNode, configuration map[string]float64) (*PriceEstimate, error) {
	estimate, err := uc.GetOrCreateCurrentWithAncestors(ctx, node)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	details, err := uc.repo.GetConsumptionDetails(ctx, estimate.ID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		if details, err = uc.newMonthConsumption(ctx, estimate); err != nil {
			return nil, err
		}
	}
	details.UpdateConfiguration(configuration, now)
	if err := uc.repo.SaveConsumptionDetails(ctx, details); err != nil {
		return nil, err
	}
	if err := uc.UpdateTotal(ctx, estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

// newMonthConsumption 新月份的消耗明细从月初起算，并沿用上月末的配置
func (uc *PriceEstimateUseCase) newMonthConsumption(ctx context.Context, estimate *PriceEstimate) (*ConsumptionDetails, error) {
	monthStart, _ := uc.monthBounds(estimate)
	details := NewConsumptionDetails(estimate.ID, monthStart)

	prev := monthStart.AddDate(0, -1, 0)
	previous, err := uc.repo.GetEstimate(ctx, estimate.Scope, prev.Year(), int(prev.Month()))
	if err != nil || previous == nil {
		return details, err
	}
	previousDetails, err := uc.repo.GetConsumptionDetails(ctx, previous.ID)
	if err != nil || previousDetails == nil {
		return details, err
	}
	for name, quantity := range previousDetails.Configuration {
		details.Configuration[name] = quantity
	}
	return details, nil
}

// OnResourceConfigurationChanged 资源配置变更（调用方给出新配置）
func (uc *PriceEstimateUseCase) OnResourceConfigurationChanged(ctx context.Context, node *ScopeNode, consumables map[string]float64) error {
	if !uc.registry.IsRegistered(node.ResourceType) {
		return nil
	}
	_, err := uc.updateResourceEstimate(ctx, node, consumables)
	return err
}

// OnResourceUpdated 资源或其配额变更：从成本后端读取当前配置后更新预估
func (uc *PriceEstimateUseCase) OnResourceUpdated(ctx context.Context, node *ScopeNode) error {
	backend, err := uc.registry.Backend(node.ResourceType)
	if err != nil {
		if quotaErrors.IsResourceNotRegistered(err) {
			return nil
		}
		return err
	}
	configuration, err := backend.GetConsumables(ctx, node)
	if err != nil {
		return err
	}
	_, err = uc.updateResourceEstimate(ctx, node, configuration)
	return err
}

// OnScopeDeleted 作用域删除（必须在作用域从层级移除之前调用）
func (uc *PriceEstimateUseCase) OnScopeDeleted(ctx context.Context, node *ScopeNode, kind ScopeDeletionKind) error {
	switch kind {
	case ScopeDeletionResource:
		return uc.onResourceDeleted(ctx, node)
	case ScopeDeletionCustomer:
		return uc.onCustomerDeleted(ctx, node.Ref)
	default:
		estimate, err := uc.GetOrCreateCurrentWithAncestors(ctx, node)
		if err != nil {
			return err
		}
		return uc.InitDetails(ctx, estimate)
	}
}

// OnScopeUnlinked 解除关联暂不支持，不做任何修改
func (uc *PriceEstimateUseCase) OnScopeUnlinked(ctx context.Context, ref ScopeRef) error {
	uc.log.Warnf("scope unlink is not supported: scope=%s", ref)
	return quotaErrors.ErrUnlinkNotSupported
}

// onResourceDeleted 资源删除：清空配置后重算，保留预估记录作为账单历史
func (uc *PriceEstimateUseCase) onResourceDeleted(ctx context.Context, node *ScopeNode) error {
	if !uc.registry.IsRegistered(node.ResourceType) {
		return nil
	}
	estimate, err := uc.updateResourceEstimate(ctx, node, map[string]float64{})
	if err != nil {
		return err
	}
	return uc.InitDetails(ctx, estimate)
}

// onCustomerDeleted 删除客户的全部预估及其所有下级预估
func (uc *PriceEstimateUseCase) onCustomerDeleted(ctx context.Context, ref ScopeRef) error {
	roots, err := uc.repo.ListEstimatesByScope(ctx, ref)
	if err != nil {
		return err
	}
	visited := make(map[string]bool)
	var ids []string
	queue := roots
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current.ID] {
			continue
		}
		visited[current.ID] = true
		ids = append(ids, current.ID)

		children, err := uc.repo.ListChildEstimates(ctx, current.ID)
		if err != nil {
			return err
		}
		queue = append(queue, children...)
	}
	if len(ids) == 0 {
		return nil
	}
	uc.log.Infof("delete %d price estimates of customer %s", len(ids), ref.ID)
	return uc.repo.DeleteEstimates(ctx, ids)
}

// SetLimit 设置作用域当月预估限额
func (uc *PriceEstimateUseCase) SetLimit(ctx context.Context, node *ScopeNode, limit decimal.Decimal) (*PriceEstimate, error) {
	estimate, err := uc.GetOrCreateCurrentWithAncestors(ctx, node)
	if err != nil {
		return nil, err
	}
	estimate.Limit = limit
	if err := uc.repo.UpdateEstimate(ctx, estimate, EstimateFieldLimit); err != nil {
		return nil, err
	}
	return estimate, nil
}

// SetThreshold 设置作用域当月预估告警阈值
func (uc *PriceEstimateUseCase) SetThreshold(ctx context.Context, node *ScopeNode, threshold decimal.Decimal) (*PriceEstimate, error) {
	estimate, err := uc.GetOrCreateCurrentWithAncestors(ctx, node)
	if err != nil {
		return nil, err
	}
	estimate.Threshold = threshold
	if err := uc.repo.UpdateEstimate(ctx, estimate, EstimateFieldThreshold); err != nil {
		return nil, err
	}
	if uc.alerts != nil {
		uc.alerts.CheckEstimateThreshold(ctx, estimate)
	}
	return estimate, nil
}

// CheckProjectCostLimit 资源开通前检查项目当月预估是否会超出限额
// 先检查当前总额，再叠加资源月度预估成本；成本查询失败时降级放行
func (uc *PriceEstimateUseCase) CheckProjectCostLimit(ctx context.Context, req *ProvisionRequest) error {
	if req == nil || req.Resource == nil {
		return nil
	}
	project, err := uc.scopes.AncestorOfKind(ctx, req.Resource.Parent, ScopeKindProject)
	if err != nil {
		return err
	}
	if project == nil {
		uc.recordLimitCheck(constants.ResultAllowed)
		return nil
	}
	estimate, err := uc.GetCurrent(ctx, project.Ref)
	if err != nil {
		return err
	}
	if estimate == nil || estimate.IsUnlimited() {
		uc.recordLimitCheck(constants.ResultAllowed)
		return nil
	}

	if estimate.Total.GreaterThan(estimate.Limit) {
		uc.recordLimitCheck(constants.ResultRejected)
		return quotaErrors.CostLimitExceeded("Estimated cost of project is over limit.")
	}

	cost, ok := uc.lookupMonthlyCost(ctx, req)
	if !ok {
		return nil
	}
	if estimate.Total.Add(cost).GreaterThan(estimate.Limit) {
		uc.recordLimitCheck(constants.ResultRejected)
		return quotaErrors.CostLimitExceeded("Total estimated cost of resource and project is over limit.")
	}
	uc.recordLimitCheck(constants.ResultAllowed)
	return nil
}

// lookupMonthlyCost 查询资源月度预估成本，查不到时返回 false（调用方放行）
func (uc *PriceEstimateUseCase) lookupMonthlyCost(ctx context.Context, req *ProvisionRequest) (decimal.Decimal, bool) {
	backend, err := uc.registry.Backend(req.Resource.ResourceType)
	if err != nil {
		uc.log.Errorf("Failed to get cost estimate for resource %s: %v", req.Resource.Ref, err)
		uc.recordLimitCheck(constants.ResultDegraded)
		return decimal.Zero, false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, uc.conf.CostLookupTimeout)
	defer cancel()

	start := time.Now()
	cost, err := backend.GetMonthlyCostEstimate(lookupCtx, &ResourceSpec{Node: req.Resource, Consumables: req.Consumables})
	if uc.metrics != nil {
		uc.metrics.CostLookupDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if quotaErrors.IsBackendNotImplemented(err) {
			uc.recordLimitCheck(constants.ResultAllowed)
			return decimal.Zero, false
		}
		uc.log.Errorf("Failed to get cost estimate for resource %s: %v", req.Resource.Ref, err)
		uc.recordLimitCheck(constants.ResultDegraded)
		return decimal.Zero, false
	}
	return cost, true
}

func (uc *PriceEstimateUseCase) recordLimitCheck(result string) {
	if uc.metrics != nil {
		uc.metrics.CostLimitCheckTotal.WithLabelValues(result).Inc()
	}
}
