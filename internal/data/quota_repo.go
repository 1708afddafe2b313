package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quota-service/internal/biz"
	"quota-service/internal/conf"
	"quota-service/internal/constants"
	"quota-service/internal/data/model"
	quotaErrors "quota-service/internal/errors"
	"quota-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quotaRepo 配额数据访问
// 用量修改 = 分布式锁（可选）+ 事务内 SELECT ... FOR UPDATE
type quotaRepo struct {
	data       *Data
	log        *log.Helper
	sync       *redsync.Redsync
	lockExpiry time.Duration
	metrics    *metrics.EngineMetrics
}

// NewQuotaRepo 创建配额 repo（返回 biz.QuotaRepo 接口）
func NewQuotaRepo(data *Data, sync *redsync.Redsync, c *conf.Bootstrap, logger log.Logger) biz.QuotaRepo {
	lockExpiry := 5 * time.Second
	if c != nil && c.Quota != nil {
		if d := c.Quota.LockExpiry.AsDuration(); d > 0 {
			lockExpiry = d
		}
	}
	return &quotaRepo{
		data:       data,
		log:        log.NewHelper(logger),
		sync:       sync,
		lockExpiry: lockExpiry,
		metrics:    metrics.GetMetrics(),
	}
}

func quotaScope(ref biz.QuotaRef) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("name = ? AND scope_kind = ? AND scope_id = ?", ref.Name, string(ref.Scope.Kind), ref.Scope.ID)
	}
}

func toBizQuota(m *model.Quota) *biz.Quota {
	return &biz.Quota{
		ID:        m.QuotaID,
		Name:      m.Name,
		Scope:     biz.NewScopeRef(biz.ScopeKind(m.ScopeKind), m.ScopeID),
		Usage:     m.Usage,
		Limit:     m.Limit,
		Threshold: m.Threshold,
		UpdatedAt: m.UpdatedAt,
	}
}

// GetQuota 获取配额
func (r *quotaRepo) GetQuota(ctx context.Context, ref biz.QuotaRef) (*biz.Quota, error) {
	var m model.Quota
	if err := r.data.db.WithContext(ctx).Scopes(quotaScope(ref)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("GetQuota failed: name=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		return nil, fmt.Errorf("failed to query quota: %w", err)
	}
	return toBizQuota(&m), nil
}

// GetOrCreateQuota 获取或创建配额
// 唯一索引冲突时忽略插入并重新读取，保证并发创建者得到同一条记录
func (r *quotaRepo) GetOrCreateQuota(ctx context.Context, ref biz.QuotaRef, limit float64) (*biz.Quota, bool, error) {
	existing, err := r.GetQuota(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	m := model.Quota{
		QuotaID:   uuid.New().String(),
		Name:      ref.Name,
		ScopeKind: string(ref.Scope.Kind),
		ScopeID:   ref.Scope.ID,
		Usage:     0,
		Limit:     limit,
	}
	result := r.data.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if result.Error != nil {
		r.log.Errorf("CreateQuota failed: name=%s, scope=%s, error=%v", ref.Name, ref.Scope, result.Error)
		return nil, false, fmt.Errorf("failed to create quota: %w", result.Error)
	}
	created := result.RowsAffected > 0

	quota, err := r.GetQuota(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	if quota == nil {
		return nil, false, quotaErrors.QuotaNotFound(ref.Name, ref.Scope.String())
	}
	return quota, created, nil
}

// AddQuotaUsage 原子累加用量
func (r *quotaRepo) AddQuotaUsage(ctx context.Context, ref biz.QuotaRef, delta float64) (*biz.Quota, *biz.Quota, error) {
	return r.updateUsage(ctx, ref, func(current float64) (interface{}, float64) {
		return gorm.Expr("quota_usage + ?", delta), current + delta
	})
}

// SetQuotaUsage 设置用量
func (r *quotaRepo) SetQuotaUsage(ctx context.Context, ref biz.QuotaRef, usage float64) (*biz.Quota, *biz.Quota, error) {
	return r.updateUsage(ctx, ref, func(float64) (interface{}, float64) {
		return usage, usage
	})
}

func (r *quotaRepo) updateUsage(
	ctx context.Context,
	ref biz.QuotaRef,
	next func(current float64) (interface{}, float64),
) (*biz.Quota, *biz.Quota, error) {
	unlock, err := r.lock(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var before, after *biz.Quota
	err = r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Quota
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(quotaScope(ref)).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return quotaErrors.QuotaNotFound(ref.Name, ref.Scope.String())
			}
			return err
		}
		before = toBizQuota(&m)

		expr, usage := next(m.Usage)
		if err := tx.Model(&model.Quota{}).Where("quota_id = ?", m.QuotaID).
			Update("quota_usage", expr).Error; err != nil {
			return err
		}
		after = toBizQuota(&m)
		after.Usage = usage
		return nil
	})
	if err != nil {
		if !quotaErrors.IsQuotaNotFound(err) {
			r.log.Errorf("update quota usage failed: name=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		}
		return nil, nil, err
	}
	return before, after, nil
}

// SetQuotaLimit 设置限额
func (r *quotaRepo) SetQuotaLimit(ctx context.Context, ref biz.QuotaRef, limit float64) (*biz.Quota, error) {
	result := r.data.db.WithContext(ctx).Model(&model.Quota{}).Scopes(quotaScope(ref)).Update("quota_limit", limit)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update quota limit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, quotaErrors.QuotaNotFound(ref.Name, ref.Scope.String())
	}
	return r.GetQuota(ctx, ref)
}

// ListQuotas 作用域下的全部配额
func (r *quotaRepo) ListQuotas(ctx context.Context, scope biz.ScopeRef) ([]*biz.Quota, error) {
	var ms []model.Quota
	if err := r.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ?", string(scope.Kind), scope.ID).
		Order("name").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list quotas: %w", err)
	}
	quotas := make([]*biz.Quota, 0, len(ms))
	for i := range ms {
		quotas = append(quotas, toBizQuota(&ms[i]))
	}
	return quotas, nil
}

// DeleteQuota 删除配额
func (r *quotaRepo) DeleteQuota(ctx context.Context, ref biz.QuotaRef) error {
	if err := r.data.db.WithContext(ctx).Scopes(quotaScope(ref)).Delete(&model.Quota{}).Error; err != nil {
		return fmt.Errorf("failed to delete quota: %w", err)
	}
	return nil
}

// lock 获取配额的分布式锁（按配额名+作用域），未配置 Redis 时只依赖行锁
func (r *quotaRepo) lock(ctx context.Context, ref biz.QuotaRef) (func(), error) {
	if r.sync == nil {
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("%s%s:%s:%s", constants.RedisKeyQuotaLock, ref.Name, ref.Scope.Kind, ref.Scope.ID)
	lockStartTime := time.Now()
	mutex := r.sync.NewMutex(lockKey, redsync.WithExpiry(r.lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		r.log.Errorf("Failed to acquire lock for quota: name=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		if r.metrics != nil {
			r.metrics.LockAcquireTotal.WithLabelValues(constants.ResultFailed).Inc()
			r.metrics.LockAcquireDuration.Observe(time.Since(lockStartTime).Seconds())
		}
		return nil, quotaErrors.ErrQuotaLockFailed
	}
	if r.metrics != nil {
		r.metrics.LockAcquireTotal.WithLabelValues(constants.ResultSuccess).Inc()
		r.metrics.LockAcquireDuration.Observe(time.Since(lockStartTime).Seconds())
	}
	return func() {
		if ok, err := mutex.Unlock(); !ok || err != nil {
			r.log.Warnf("Failed to unlock quota: name=%s, scope=%s, error=%v", ref.Name, ref.Scope, err)
		}
	}, nil
}
