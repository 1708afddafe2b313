package biz

import (
	"context"
	"sort"

	quotaErrors "quota-service/internal/errors"

	"github.com/shopspring/decimal"
)

// ResourceSpec 成本查询的资源描述
// Consumables 为空时由后端自行获取资源当前配置
type ResourceSpec struct {
	Node        *ScopeNode
	Consumables map[string]float64
}

// CostBackend 按资源类型提供的成本后端
// 不支持的操作返回 ErrBackendNotImplemented，调用失败返回 BackendError
type CostBackend interface {
	// GetConsumables 资源当前配置：消耗项 -> 数量
	GetConsumables(ctx context.Context, resource *ScopeNode) (map[string]float64, error)
	// GetMonthlyCostEstimate 资源按当前配置运行一整月的预估成本
	GetMonthlyCostEstimate(ctx context.Context, spec *ResourceSpec) (decimal.Decimal, error)
	// CalculateCost 按已消耗量（数量*小时）计算成本
	CalculateCost(ctx context.Context, resourceType string, consumed map[string]float64) (decimal.Decimal, error)
}

// CostRegistry 资源类型 -> 成本后端，启动时构建一次
type CostRegistry struct {
	backends map[string]CostBackend
}

// NewCostRegistry 创建成本后端注册表
func NewCostRegistry(backends map[string]CostBackend) *CostRegistry {
	r := &CostRegistry{backends: make(map[string]CostBackend, len(backends))}
	for resourceType, backend := range backends {
		if backend != nil {
			r.backends[resourceType] = backend
		}
	}
	return r
}

// Backend 获取资源类型的后端，未注册返回 ErrResourceNotRegistered
func (r *CostRegistry) Backend(resourceType string) (CostBackend, error) {
	backend, ok := r.backends[resourceType]
	if !ok {
		return nil, quotaErrors.ErrResourceNotRegistered
	}
	return backend, nil
}

// IsRegistered 资源类型是否已注册
func (r *CostRegistry) IsRegistered(resourceType string) bool {
	_, ok := r.backends[resourceType]
	return ok
}

// ResourceTypes 已注册的资源类型（有序）
func (r *CostRegistry) ResourceTypes() []string {
	types := make([]string, 0, len(r.backends))
	for t := range r.backends {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
