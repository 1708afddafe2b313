package data

import (
	"context"
	"errors"
	"fmt"

	"quota-service/internal/biz"
	"quota-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopeRepo 作用域层级镜像
// 引擎只读（biz.ScopeGraph），写入由事件入口在对象创建/删除时完成
type ScopeRepo struct {
	data *Data
	log  *log.Helper
}

// NewScopeRepo 创建作用域 repo
func NewScopeRepo(data *Data, logger log.Logger) *ScopeRepo {
	return &ScopeRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizScope(m *model.ScopeNode) *biz.ScopeNode {
	return &biz.ScopeNode{
		Ref:          biz.NewScopeRef(biz.ScopeKind(m.ScopeKind), m.ScopeID),
		Parent:       biz.NewScopeRef(biz.ScopeKind(m.ParentKind), m.ParentID),
		Name:         m.Name,
		ResourceType: m.ResourceType,
	}
}

// GetScope 获取节点，不存在返回 nil
func (r *ScopeRepo) GetScope(ctx context.Context, ref biz.ScopeRef) (*biz.ScopeNode, error) {
	var m model.ScopeNode
	err := r.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ?", string(ref.Kind), ref.ID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query scope: %w", err)
	}
	return toBizScope(&m), nil
}

// ListChildren 直接下级
func (r *ScopeRepo) ListChildren(ctx context.Context, ref biz.ScopeRef) ([]*biz.ScopeNode, error) {
	var ms []model.ScopeNode
	if err := r.data.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ?", string(ref.Kind), ref.ID).
		Order("scope_kind, scope_id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list child scopes: %w", err)
	}
	nodes := make([]*biz.ScopeNode, 0, len(ms))
	for i := range ms {
		nodes = append(nodes, toBizScope(&ms[i]))
	}
	return nodes, nil
}

// UpsertScope 登记或更新节点
func (r *ScopeRepo) UpsertScope(ctx context.Context, node *biz.ScopeNode) error {
	m := model.ScopeNode{
		ScopeKind:    string(node.Ref.Kind),
		ScopeID:      node.Ref.ID,
		ParentKind:   string(node.Parent.Kind),
		ParentID:     node.Parent.ID,
		Name:         node.Name,
		ResourceType: node.ResourceType,
	}
	err := r.data.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope_kind"}, {Name: "scope_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"parent_kind", "parent_id", "name", "resource_type", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		r.log.Errorf("UpsertScope failed: scope=%s, error=%v", node.Ref, err)
		return fmt.Errorf("failed to upsert scope: %w", err)
	}
	return nil
}

// RemoveScope 移除节点
func (r *ScopeRepo) RemoveScope(ctx context.Context, ref biz.ScopeRef) error {
	if err := r.data.db.WithContext(ctx).
		Where("scope_kind = ? AND scope_id = ?", string(ref.Kind), ref.ID).
		Delete(&model.ScopeNode{}).Error; err != nil {
		return fmt.Errorf("failed to remove scope: %w", err)
	}
	return nil
}
