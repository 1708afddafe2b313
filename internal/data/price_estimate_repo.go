package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quota-service/internal/biz"
	"quota-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// biz 字段名 -> 列名
var estimateColumns = map[string]string{
	biz.EstimateFieldTotal:     "total",
	biz.EstimateFieldLimit:     "estimate_limit",
	biz.EstimateFieldThreshold: "threshold",
	biz.EstimateFieldDetails:   "details",
}

// priceEstimateRepo 价格预估数据访问
type priceEstimateRepo struct {
	data *Data
	log  *log.Helper
}

// NewPriceEstimateRepo 创建价格预估 repo
func NewPriceEstimateRepo(data *Data, logger log.Logger) biz.PriceEstimateRepo {
	return &priceEstimateRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizEstimate(m *model.PriceEstimate) *biz.PriceEstimate {
	return &biz.PriceEstimate{
		ID:         m.PriceEstimateID,
		Scope:      biz.NewScopeRef(biz.ScopeKind(m.ScopeKind), m.ScopeID),
		ScopeType:  m.ScopeType,
		CustomerID: m.CustomerID,
		Year:       m.Year,
		Month:      m.Month,
		Total:      m.Total,
		Limit:      m.Limit,
		Threshold:  m.Threshold,
		Details:    m.Details,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toBizEstimates(ms []model.PriceEstimate) []*biz.PriceEstimate {
	estimates := make([]*biz.PriceEstimate, 0, len(ms))
	for i := range ms {
		estimates = append(estimates, toBizEstimate(&ms[i]))
	}
	return estimates
}

// GetEstimate 获取某月预估
func (r *priceEstimateRepo) GetEstimate(ctx context.Context, scope biz.ScopeRef, year, month int) (*biz.PriceEstimate, error) {
	var m model.PriceEstimate
	err := r.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ? AND year = ? AND month = ?", string(scope.Kind), scope.ID, year, month).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("GetEstimate failed: scope=%s, period=%d-%02d, error=%v", scope, year, month, err)
		return nil, fmt.Errorf("failed to query price estimate: %w", err)
	}
	return toBizEstimate(&m), nil
}

// GetOrCreateEstimate 获取或创建预估
func (r *priceEstimateRepo) GetOrCreateEstimate(ctx context.Context, estimate *biz.PriceEstimate) (*biz.PriceEstimate, bool, error) {
	existing, err := r.GetEstimate(ctx, estimate.Scope, estimate.Year, estimate.Month)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	m := model.PriceEstimate{
		PriceEstimateID: uuid.New().String(),
		ScopeKind:       string(estimate.Scope.Kind),
		ScopeID:         estimate.Scope.ID,
		ScopeType:       estimate.ScopeType,
		CustomerID:      estimate.CustomerID,
		Year:            estimate.Year,
		Month:           estimate.Month,
		Total:           estimate.Total,
		Limit:           estimate.Limit,
		Threshold:       estimate.Threshold,
		Details:         estimate.Details,
	}
	result := r.data.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create price estimate: %w", result.Error)
	}

	created, err := r.GetEstimate(ctx, estimate.Scope, estimate.Year, estimate.Month)
	if err != nil {
		return nil, false, err
	}
	if created == nil {
		return nil, false, fmt.Errorf("price estimate of %s disappeared after create", estimate.Scope)
	}
	return created, result.RowsAffected > 0, nil
}

// UpdateEstimate 更新指定字段
func (r *priceEstimateRepo) UpdateEstimate(ctx context.Context, estimate *biz.PriceEstimate, fields ...string) error {
	values := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		switch f {
		case biz.EstimateFieldTotal:
			values[estimateColumns[f]] = estimate.Total
		case biz.EstimateFieldLimit:
			values[estimateColumns[f]] = estimate.Limit
		case biz.EstimateFieldThreshold:
			values[estimateColumns[f]] = estimate.Threshold
		case biz.EstimateFieldDetails:
			values[estimateColumns[f]] = estimate.Details
		default:
			return fmt.Errorf("unknown price estimate field: %s", f)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := r.data.db.WithContext(ctx).Model(&model.PriceEstimate{}).
		Where("price_estimate_id = ?", estimate.ID).Updates(values).Error; err != nil {
		r.log.Errorf("UpdateEstimate failed: id=%s, fields=%v, error=%v", estimate.ID, fields, err)
		return fmt.Errorf("failed to update price estimate: %w", err)
	}
	return nil
}

// LinkEstimates 建立上下级关系
func (r *priceEstimateRepo) LinkEstimates(ctx context.Context, parentID, childID string) error {
	link := model.PriceEstimateLink{ParentID: parentID, ChildID: childID}
	if err := r.data.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return fmt.Errorf("failed to link price estimates: %w", err)
	}
	return nil
}

// ListChildEstimates 直接下级预估
func (r *priceEstimateRepo) ListChildEstimates(ctx context.Context, parentID string) ([]*biz.PriceEstimate, error) {
	var ms []model.PriceEstimate
	if err := r.data.db.WithContext(ctx).
		Joins("JOIN price_estimate_link ON price_estimate_link.child_id = price_estimate.price_estimate_id").
		Where("price_estimate_link.parent_id = ?", parentID).
		Order("price_estimate.scope_kind, price_estimate.scope_id").
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list child price estimates: %w", err)
	}
	return toBizEstimates(ms), nil
}

// ListParentEstimates 直接上级预估
func (r *priceEstimateRepo) ListParentEstimates(ctx context.Context, childID string) ([]*biz.PriceEstimate, error) {
	var ms []model.PriceEstimate
	if err := r.data.db.WithContext(ctx).
		Joins("JOIN price_estimate_link ON price_estimate_link.parent_id = price_estimate.price_estimate_id").
		Where("price_estimate_link.child_id = ?", childID).
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list parent price estimates: %w", err)
	}
	return toBizEstimates(ms), nil
}

// ListEstimatesByScope 作用域的全部预估
func (r *priceEstimateRepo) ListEstimatesByScope(ctx context.Context, scope biz.ScopeRef) ([]*biz.PriceEstimate, error) {
	var ms []model.PriceEstimate
	if err := r.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ?", string(scope.Kind), scope.ID).
		Order("year, month").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list price estimates: %w", err)
	}
	return toBizEstimates(ms), nil
}

// ListAllEstimates 全部预估（清理任务使用）
func (r *priceEstimateRepo) ListAllEstimates(ctx context.Context) ([]*biz.PriceEstimate, error) {
	var ms []model.PriceEstimate
	if err := r.data.db.WithContext(ctx).Order("customer_id, year, month, scope_kind, scope_id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list price estimates: %w", err)
	}
	return toBizEstimates(ms), nil
}

// DeleteEstimates 删除预估及其关联关系、消耗明细
func (r *priceEstimateRepo) DeleteEstimates(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id IN ? OR child_id IN ?", ids, ids).Delete(&model.PriceEstimateLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_estimate_id IN ?", ids).Delete(&model.ConsumptionDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_estimate_id IN ?", ids).Delete(&model.PriceEstimate{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// GetConsumptionDetails 获取消耗明细
func (r *priceEstimateRepo) GetConsumptionDetails(ctx context.Context, estimateID string) (*biz.ConsumptionDetails, error) {
	var m model.ConsumptionDetails
	if err := r.data.db.WithContext(ctx).Where("price_estimate_id = ?", estimateID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query consumption details: %w", err)
	}

	details := &biz.ConsumptionDetails{
		EstimateID:           m.PriceEstimateID,
		Configuration:        map[string]float64{},
		ConsumedBeforeUpdate: map[string]float64{},
		LastUpdateTime:       m.LastUpdateTime,
	}
	if err := decodeQuantities(m.Configuration, &details.Configuration); err != nil {
		return nil, err
	}
	if err := decodeQuantities(m.ConsumedBeforeUpdate, &details.ConsumedBeforeUpdate); err != nil {
		return nil, err
	}
	return details, nil
}

// SaveConsumptionDetails 保存消耗明细
func (r *priceEstimateRepo) SaveConsumptionDetails(ctx context.Context, details *biz.ConsumptionDetails) error {
	configuration, err := json.Marshal(details.Configuration)
	if err != nil {
		return err
	}
	consumed, err := json.Marshal(details.ConsumedBeforeUpdate)
	if err != nil {
		return err
	}
	m := model.ConsumptionDetails{
		PriceEstimateID:      details.EstimateID,
		Configuration:        string(configuration),
		ConsumedBeforeUpdate: string(consumed),
		LastUpdateTime:       details.LastUpdateTime,
	}
	err = r.data.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "price_estimate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"configuration", "consumed_before_update", "last_update_time", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to save consumption details: %w", err)
	}
	return nil
}

func decodeQuantities(raw string, out *map[string]float64) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid consumption details: %w", err)
	}
	return nil
}
