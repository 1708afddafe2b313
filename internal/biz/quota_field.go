package biz

import "quota-service/internal/constants"

// QuotaField 配额字段声明：某类作用域创建时自动拥有的配额
type QuotaField interface {
	FieldName() string
	FieldScope() ScopeKind
	DefaultLimit() float64
	// CanCreate 创建条件，返回 false 时该作用域不创建此配额
	CanCreate(node *ScopeNode) bool
}

// BaseQuotaField 普通配额字段
type BaseQuotaField struct {
	Name      string
	Scope     ScopeKind
	Limit     float64
	Condition func(node *ScopeNode) bool
}

func (f *BaseQuotaField) FieldName() string     { return f.Name }
func (f *BaseQuotaField) FieldScope() ScopeKind { return f.Scope }

func (f *BaseQuotaField) DefaultLimit() float64 {
	if f.Limit == 0 {
		return constants.UnlimitedValue
	}
	return f.Limit
}

func (f *BaseQuotaField) CanCreate(node *ScopeNode) bool {
	if f.Condition == nil {
		return true
	}
	return f.Condition(node)
}

// CounterQuotaField 计数配额：统计作用域下某类对象的数量
// 目标对象创建时 +1，删除时 -1（静默失败）
type CounterQuotaField struct {
	BaseQuotaField
	TargetKind ScopeKind
	// TargetTypes 仅统计这些资源类型，为空表示不过滤
	TargetTypes []string
}

// Counts 目标对象是否计入本字段
func (f *CounterQuotaField) Counts(node *ScopeNode) bool {
	if node == nil || node.Ref.Kind != f.TargetKind {
		return false
	}
	if len(f.TargetTypes) == 0 {
		return true
	}
	for _, t := range f.TargetTypes {
		if t == node.ResourceType {
			return true
		}
	}
	return false
}

// UsageAggregatorQuotaField 汇总配额：累加直接下级作用域同名（或指定名）配额的用量
// 汇总配额本身不会再作为子配额触发汇总，避免重复计数和循环传播
type UsageAggregatorQuotaField struct {
	BaseQuotaField
	ChildQuotaName string
}

// ChildKind 子配额所在的作用域类型
func (f *UsageAggregatorQuotaField) ChildKind() ScopeKind {
	return f.Scope.ChildKind()
}

// ChildName 子配额名称
func (f *UsageAggregatorQuotaField) ChildName() string {
	if f.ChildQuotaName == "" {
		return f.Name
	}
	return f.ChildQuotaName
}

// PostChildQuotaSave 子配额保存后汇总配额需要增加的用量
func (f *UsageAggregatorQuotaField) PostChildQuotaSave(child *Quota, created bool, previousUsage float64) float64 {
	if created {
		return child.Usage
	}
	return child.Usage - previousUsage
}

// PreChildQuotaDelete 子配额删除前汇总配额需要扣减的用量
func (f *UsageAggregatorQuotaField) PreChildQuotaDelete(child *Quota) float64 {
	return -child.Usage
}

type fieldKey struct {
	kind ScopeKind
	name string
}

// QuotaRegistry 配额字段注册表，进程启动时构建一次，之后只读
type QuotaRegistry struct {
	fields      map[ScopeKind][]QuotaField
	byKey       map[fieldKey]QuotaField
	counters    map[ScopeKind][]*CounterQuotaField
	aggregators map[fieldKey][]*UsageAggregatorQuotaField
	globals     map[ScopeKind]string
}

// NewQuotaRegistry 构建注册表；globals 为各作用域类型的全局计数配额名
func NewQuotaRegistry(fields []QuotaField, globals map[ScopeKind]string) *QuotaRegistry {
	r := &QuotaRegistry{
		fields:      make(map[ScopeKind][]QuotaField),
		byKey:       make(map[fieldKey]QuotaField),
		counters:    make(map[ScopeKind][]*CounterQuotaField),
		aggregators: make(map[fieldKey][]*UsageAggregatorQuotaField),
		globals:     make(map[ScopeKind]string),
	}
	for _, f := range fields {
		key := fieldKey{kind: f.FieldScope(), name: f.FieldName()}
		if _, ok := r.byKey[key]; ok {
			continue
		}
		r.byKey[key] = f
		r.fields[key.kind] = append(r.fields[key.kind], f)

		switch field := f.(type) {
		case *CounterQuotaField:
			r.counters[field.TargetKind] = append(r.counters[field.TargetKind], field)
		case *UsageAggregatorQuotaField:
			childKey := fieldKey{kind: field.ChildKind(), name: field.ChildName()}
			r.aggregators[childKey] = append(r.aggregators[childKey], field)
		}
	}
	for kind, name := range globals {
		r.globals[kind] = name
	}
	return r
}

// Fields 某作用域类型的全部字段
func (r *QuotaRegistry) Fields(kind ScopeKind) []QuotaField {
	return r.fields[kind]
}

// Field 查找字段，未注册返回 nil
func (r *QuotaRegistry) Field(kind ScopeKind, name string) QuotaField {
	return r.byKey[fieldKey{kind: kind, name: name}]
}

// IsAggregator 字段是否为汇总字段
func (r *QuotaRegistry) IsAggregator(kind ScopeKind, name string) bool {
	_, ok := r.Field(kind, name).(*UsageAggregatorQuotaField)
	return ok
}

// CountersFor 统计某类对象的计数字段
func (r *QuotaRegistry) CountersFor(target ScopeKind) []*CounterQuotaField {
	return r.counters[target]
}

// AggregatorsFor 以某子配额为来源的汇总字段
func (r *QuotaRegistry) AggregatorsFor(childKind ScopeKind, childName string) []*UsageAggregatorQuotaField {
	return r.aggregators[fieldKey{kind: childKind, name: childName}]
}

// GlobalCountQuota 某作用域类型的全局计数配额名
func (r *QuotaRegistry) GlobalCountQuota(kind ScopeKind) (string, bool) {
	name, ok := r.globals[kind]
	return name, ok
}

// GlobalQuotaNames 全部全局计数配额名
func (r *QuotaRegistry) GlobalQuotaNames() []string {
	names := make([]string, 0, len(r.globals))
	for _, name := range r.globals {
		names = append(names, name)
	}
	return names
}

// 默认配额名
const (
	QuotaProjectCount   = "nc_project_count"
	QuotaLinkCount      = "nc_service_project_link_count"
	QuotaResourceCount  = "nc_resource_count"
	QuotaVCPU           = "vcpu"
	QuotaRAM            = "ram"
	QuotaStorage        = "storage"
	GlobalCustomerCount = "nc_global_customer_count"
	GlobalProjectCount  = "nc_global_project_count"
	GlobalLinkCount     = "nc_global_service_project_link_count"
	GlobalResourceCount = "nc_global_resource_count"
)

// NewDefaultQuotaRegistry 默认配额字段
//
//	customer: 项目计数、资源数汇总（来自项目）
//	project:  资源计数、关联计数、vcpu/ram/storage 汇总（来自关联）
//	link:     vcpu/ram/storage
func NewDefaultQuotaRegistry() *QuotaRegistry {
	fields := []QuotaField{
		&CounterQuotaField{
			BaseQuotaField: BaseQuotaField{Name: QuotaProjectCount, Scope: ScopeKindCustomer},
			TargetKind:     ScopeKindProject,
		},
		&UsageAggregatorQuotaField{
			BaseQuotaField: BaseQuotaField{Name: QuotaResourceCount, Scope: ScopeKindCustomer},
		},
		&CounterQuotaField{
			BaseQuotaField: BaseQuotaField{Name: QuotaResourceCount, Scope: ScopeKindProject},
			TargetKind:     ScopeKindResource,
		},
		&CounterQuotaField{
			BaseQuotaField: BaseQuotaField{Name: QuotaLinkCount, Scope: ScopeKindProject},
			TargetKind:     ScopeKindServiceProjectLink,
		},
	}
	for _, name := range []string{QuotaVCPU, QuotaRAM, QuotaStorage} {
		fields = append(fields,
			&BaseQuotaField{Name: name, Scope: ScopeKindServiceProjectLink},
			&UsageAggregatorQuotaField{BaseQuotaField: BaseQuotaField{Name: name, Scope: ScopeKindProject}},
		)
	}
	return NewQuotaRegistry(fields, map[ScopeKind]string{
		ScopeKindCustomer:           GlobalCustomerCount,
		ScopeKindProject:            GlobalProjectCount,
		ScopeKindServiceProjectLink: GlobalLinkCount,
		ScopeKindResource:           GlobalResourceCount,
	})
}
