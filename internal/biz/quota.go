package biz

import (
	"context"
	"time"

	"quota-service/internal/constants"
	quotaErrors "quota-service/internal/errors"
	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// Quota 配额领域对象，Scope 为空表示全局配额
type Quota struct {
	ID        string
	Name      string
	Scope     ScopeRef
	Usage     float64
	Limit     float64 // -1 表示不限额
	Threshold float64
	UpdatedAt time.Time
}

// IsGlobal 是否为全局配额
func (q *Quota) IsGlobal() bool {
	return q.Scope.IsZero()
}

// IsExceeded 用量是否达到 limit*fraction，不限额时永远为 false
func (q *Quota) IsExceeded(fraction float64) bool {
	if q.Limit == constants.UnlimitedValue {
		return false
	}
	return q.Usage >= q.Limit*fraction
}

// Ref 配额引用
func (q *Quota) Ref() QuotaRef {
	return QuotaRef{Name: q.Name, Scope: q.Scope}
}

// QuotaRef 配额引用 (name, scope)
type QuotaRef struct {
	Name  string   `json:"name"`
	Scope ScopeRef `json:"scope"`
}

// QuotaRepo 配额数据层接口（定义在 biz 层）
type QuotaRepo interface {
	// GetQuota 不存在时返回 nil, nil
	GetQuota(ctx context.Context, ref QuotaRef) (*Quota, error)
	// GetOrCreateQuota 幂等创建，并发创建者得到同一条记录
	GetOrCreateQuota(ctx context.Context, ref QuotaRef, limit float64) (*Quota, bool, error)
	// AddQuotaUsage 行锁内原子累加，返回修改前后的快照；不存在时返回 QuotaNotFound
	AddQuotaUsage(ctx context.Context, ref QuotaRef, delta float64) (*Quota, *Quota, error)
	SetQuotaUsage(ctx context.Context, ref QuotaRef, usage float64) (*Quota, *Quota, error)
	SetQuotaLimit(ctx context.Context, ref QuotaRef, limit float64) (*Quota, error)
	ListQuotas(ctx context.Context, scope ScopeRef) ([]*Quota, error)
	DeleteQuota(ctx context.Context, ref QuotaRef) error
}

// QuotaUseCase 配额业务逻辑
// 所有修改用量的操作在保存后都会调用 HandleQuotaSaved，完成阈值检查和向上汇总
type QuotaUseCase struct {
	repo     QuotaRepo
	registry *QuotaRegistry
	scopes   *ScopeResolver
	alerts   *AlertUseCase
	conf     *EngineConfig
	log      *log.Helper
	metrics  *metrics.EngineMetrics
}

// NewQuotaUseCase 创建配额 UseCase
func NewQuotaUseCase(
	repo QuotaRepo,
	registry *QuotaRegistry,
	scopes *ScopeResolver,
	alerts *AlertUseCase,
	conf *EngineConfig,
	logger log.Logger,
) *QuotaUseCase {
	return &QuotaUseCase{
		repo:     repo,
		registry: registry,
		scopes:   scopes,
		alerts:   alerts,
		conf:     conf,
		log:      log.NewHelper(logger),
		metrics:  metrics.GetMetrics(),
	}
}

// Get 获取配额，不存在返回 nil
func (uc *QuotaUseCase) Get(ctx context.Context, ref QuotaRef) (*Quota, error) {
	return uc.repo.GetQuota(ctx, ref)
}

// ListByScope 作用域下的全部配额
func (uc *QuotaUseCase) ListByScope(ctx context.Context, scope ScopeRef) ([]*Quota, error) {
	return uc.repo.ListQuotas(ctx, scope)
}

// GetOrCreate 获取或创建配额（usage=0，limit 取字段默认值，未注册字段为 -1）
func (uc *QuotaUseCase) GetOrCreate(ctx context.Context, ref QuotaRef) (*Quota, error) {
	quota, _, err := uc.getOrCreate(ctx, ref)
	return quota, err
}

func (uc *QuotaUseCase) getOrCreate(ctx context.Context, ref QuotaRef) (*Quota, bool, error) {
	limit := float64(constants.UnlimitedValue)
	if f := uc.registry.Field(ref.Scope.Kind, ref.Name); f != nil {
		limit = f.DefaultLimit()
	}
	quota, created, err := uc.repo.GetOrCreateQuota(ctx, ref, limit)
	if err != nil {
		return nil, false, err
	}
	if created {
		uc.log.Debugf("quota created: name=%s, scope=%s", ref.Name, ref.Scope)
		uc.HandleQuotaSaved(ctx, quota, true, 0)
	}
	return quota, created, nil
}

// AddUsage 原子累加用量
// 配额不存在时：failSilently 为 true 直接返回 nil，否则返回 QuotaNotFound
func (uc *QuotaUseCase) AddUsage(ctx context.Context, ref QuotaRef, delta float64, failSilently bool) error {
	start := time.Now()
	before, after, err := uc.repo.AddQuotaUsage(ctx, ref, delta)
	if uc.metrics != nil {
		uc.metrics.QuotaUpdateDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if quotaErrors.IsQuotaNotFound(err) && failSilently {
			uc.recordUpdate(ref.Name, constants.ResultSkipped)
			return nil
		}
		uc.recordUpdate(ref.Name, constants.ResultFailed)
		return err
	}
	uc.recordUpdate(ref.Name, constants.ResultSuccess)

	uc.HandleQuotaSaved(ctx, after, false, before.Usage)
	return nil
}

// SetUsage 直接设置用量
func (uc *QuotaUseCase) SetUsage(ctx context.Context, ref QuotaRef, usage float64) error {
	before, after, err := uc.repo.SetQuotaUsage(ctx, ref, usage)
	if err != nil {
		uc.recordUpdate(ref.Name, constants.ResultFailed)
		return err
	}
	uc.recordUpdate(ref.Name, constants.ResultSuccess)

	uc.HandleQuotaSaved(ctx, after, false, before.Usage)
	return nil
}

// SetLimit 修改限额，只影响告警，不触发汇总
func (uc *QuotaUseCase) SetLimit(ctx context.Context, ref QuotaRef, limit float64) error {
	quota, err := uc.repo.SetQuotaLimit(ctx, ref, limit)
	if err != nil {
		return err
	}
	uc.HandleQuotaSaved(ctx, quota, false, quota.Usage)
	return nil
}

// IncreaseGlobal 全局计数 +1，首次使用时创建
func (uc *QuotaUseCase) IncreaseGlobal(ctx context.Context, name string) error {
	ref := QuotaRef{Name: name}
	if _, err := uc.GetOrCreate(ctx, ref); err != nil {
		return err
	}
	return uc.AddUsage(ctx, ref, 1, false)
}

// DecreaseGlobal 全局计数 -1
func (uc *QuotaUseCase) DecreaseGlobal(ctx context.Context, name string) error {
	return uc.AddUsage(ctx, QuotaRef{Name: name}, -1, true)
}

// InitQuotas 为新建作用域创建声明的配额，创建条件不满足的字段直接跳过
func (uc *QuotaUseCase) InitQuotas(ctx context.Context, node *ScopeNode) error {
	for _, field := range uc.registry.Fields(node.Ref.Kind) {
		if err := uc.initQuota(ctx, node, field); err != nil {
			if quotaErrors.IsCreationConditionFailed(err) {
				uc.log.Debugf("skip quota %s for %s: %v", field.FieldName(), node.Ref, err)
				continue
			}
			return err
		}
	}
	return nil
}

func (uc *QuotaUseCase) initQuota(ctx context.Context, node *ScopeNode, field QuotaField) error {
	if !field.CanCreate(node) {
		return quotaErrors.ErrCreationConditionFailed
	}
	_, err := uc.GetOrCreate(ctx, QuotaRef{Name: field.FieldName(), Scope: node.Ref})
	return err
}

// HandleObjectCreated 作用域对象创建：初始化配额、计数 +1、全局计数 +1
func (uc *QuotaUseCase) HandleObjectCreated(ctx context.Context, node *ScopeNode) error {
	if err := uc.InitQuotas(ctx, node); err != nil {
		return err
	}

	for _, counter := range uc.registry.CountersFor(node.Ref.Kind) {
		if !counter.Counts(node) {
			continue
		}
		owner, err := uc.scopes.AncestorOfKind(ctx, node.Ref, counter.Scope)
		if err != nil {
			return err
		}
		if owner == nil {
			continue
		}
		ref := QuotaRef{Name: counter.Name, Scope: owner.Ref}
		if _, err := uc.GetOrCreate(ctx, ref); err != nil {
			return err
		}
		if err := uc.AddUsage(ctx, ref, 1, false); err != nil {
			return err
		}
	}

	if name, ok := uc.registry.GlobalCountQuota(node.Ref.Kind); ok {
		if err := uc.IncreaseGlobal(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// HandleObjectDeleted 作用域对象删除（必须在对象从层级移除之前调用）
// 计数 -1（静默失败）、全局计数 -1，最后删除对象自身的配额
func (uc *QuotaUseCase) HandleObjectDeleted(ctx context.Context, node *ScopeNode) error {
	for _, counter := range uc.registry.CountersFor(node.Ref.Kind) {
		if !counter.Counts(node) {
			continue
		}
		owner, err := uc.scopes.AncestorOfKind(ctx, node.Ref, counter.Scope)
		if err != nil {
			return err
		}
		if owner == nil {
			continue
		}
		if err := uc.AddUsage(ctx, QuotaRef{Name: counter.Name, Scope: owner.Ref}, -1, true); err != nil {
			return err
		}
	}

	if name, ok := uc.registry.GlobalCountQuota(node.Ref.Kind); ok {
		if err := uc.DecreaseGlobal(ctx, name); err != nil {
			return err
		}
	}

	quotas, err := uc.repo.ListQuotas(ctx, node.Ref)
	if err != nil {
		return err
	}
	for _, q := range quotas {
		uc.HandleQuotaPreDelete(ctx, q)
		if err := uc.repo.DeleteQuota(ctx, q.Ref()); err != nil {
			return err
		}
	}
	return nil
}

func (uc *QuotaUseCase) recordUpdate(name, result string) {
	if uc.metrics != nil {
		uc.metrics.QuotaUpdateTotal.WithLabelValues(name, result).Inc()
	}
}
