package biz

import (
	"context"
	"fmt"

	quotaErrors "quota-service/internal/errors"
)

// ScopeKind 作用域类型
type ScopeKind string

const (
	ScopeKindCustomer           ScopeKind = "customer"
	ScopeKindProject            ScopeKind = "project"
	ScopeKindServiceProjectLink ScopeKind = "service_project_link"
	ScopeKindResource           ScopeKind = "resource"
)

// IsValid 是否为已知的作用域类型
func (k ScopeKind) IsValid() bool {
	switch k {
	case ScopeKindCustomer, ScopeKindProject, ScopeKindServiceProjectLink, ScopeKindResource:
		return true
	}
	return false
}

// ParentKind 上级作用域类型，customer 没有上级
func (k ScopeKind) ParentKind() ScopeKind {
	switch k {
	case ScopeKindResource:
		return ScopeKindServiceProjectLink
	case ScopeKindServiceProjectLink:
		return ScopeKindProject
	case ScopeKindProject:
		return ScopeKindCustomer
	}
	return ""
}

// ChildKind 直接下级作用域类型，resource 没有下级
func (k ScopeKind) ChildKind() ScopeKind {
	switch k {
	case ScopeKindCustomer:
		return ScopeKindProject
	case ScopeKindProject:
		return ScopeKindServiceProjectLink
	case ScopeKindServiceProjectLink:
		return ScopeKindResource
	}
	return ""
}

// ScopeRef 作用域引用，Kind 为空表示全局
type ScopeRef struct {
	Kind ScopeKind `json:"kind"`
	ID   string    `json:"id"`
}

// NewScopeRef 创建作用域引用
func NewScopeRef(kind ScopeKind, id string) ScopeRef {
	return ScopeRef{Kind: kind, ID: id}
}

// IsZero 是否为空引用（全局）
func (r ScopeRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

func (r ScopeRef) String() string {
	if r.IsZero() {
		return "global"
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// ScopeNode 层级中的一个节点
type ScopeNode struct {
	Ref          ScopeRef
	Parent       ScopeRef
	Name         string
	ResourceType string // 仅 resource 有，如 openstack.instance
}

// ScopeType 用于成本跟踪的类型标识：资源取资源类型，其余取作用域类型
func (n *ScopeNode) ScopeType() string {
	if n.Ref.Kind == ScopeKindResource {
		return n.ResourceType
	}
	return string(n.Ref.Kind)
}

// ScopeGraph 外部层级的只读视图（定义在 biz 层，由 data 层实现）
type ScopeGraph interface {
	// GetScope 不存在时返回 nil, nil
	GetScope(ctx context.Context, ref ScopeRef) (*ScopeNode, error)
	ListChildren(ctx context.Context, ref ScopeRef) ([]*ScopeNode, error)
}

// ScopeResolver 基于 ScopeGraph 提供祖先/后代查询
type ScopeResolver struct {
	graph ScopeGraph
}

// NewScopeResolver 创建 ScopeResolver
func NewScopeResolver(graph ScopeGraph) *ScopeResolver {
	return &ScopeResolver{graph: graph}
}

// Get 获取节点
func (r *ScopeResolver) Get(ctx context.Context, ref ScopeRef) (*ScopeNode, error) {
	if ref.IsZero() {
		return nil, nil
	}
	return r.graph.GetScope(ctx, ref)
}

// Exists 作用域是否仍可解析
func (r *ScopeResolver) Exists(ctx context.Context, ref ScopeRef) (bool, error) {
	node, err := r.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// Ancestors 返回祖先节点，由近及远
func (r *ScopeResolver) Ancestors(ctx context.Context, ref ScopeRef) ([]*ScopeNode, error) {
	node, err := r.Get(ctx, ref)
	if err != nil || node == nil {
		return nil, err
	}

	var ancestors []*ScopeNode
	visited := map[ScopeRef]bool{ref: true}
	for parent := node.Parent; !parent.IsZero() && !visited[parent]; {
		visited[parent] = true
		p, err := r.graph.GetScope(ctx, parent)
		if err != nil {
			return nil, err
		}
		if p == nil {
			break
		}
		ancestors = append(ancestors, p)
		parent = p.Parent
	}
	return ancestors, nil
}

// AncestorOfKind 返回指定类型的祖先（含自身），没有时返回 nil
func (r *ScopeResolver) AncestorOfKind(ctx context.Context, ref ScopeRef, kind ScopeKind) (*ScopeNode, error) {
	node, err := r.Get(ctx, ref)
	if err != nil || node == nil {
		return nil, err
	}
	if node.Ref.Kind == kind {
		return node, nil
	}
	ancestors, err := r.Ancestors(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, a := range ancestors {
		if a.Ref.Kind == kind {
			return a, nil
		}
	}
	return nil, nil
}

// Children 直接下级
func (r *ScopeResolver) Children(ctx context.Context, ref ScopeRef) ([]*ScopeNode, error) {
	if ref.IsZero() {
		return nil, nil
	}
	return r.graph.ListChildren(ctx, ref)
}

// Descendants 所有后代（广度优先）
func (r *ScopeResolver) Descendants(ctx context.Context, ref ScopeRef) ([]*ScopeNode, error) {
	var result []*ScopeNode
	visited := map[ScopeRef]bool{ref: true}
	queue := []ScopeRef{ref}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := r.Children(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if visited[c.Ref] {
				continue
			}
			visited[c.Ref] = true
			result = append(result, c)
			queue = append(queue, c.Ref)
		}
	}
	return result, nil
}

// ScopeWriter 作用域层级镜像的写入（由事件入口调用，引擎内部不写）
type ScopeWriter interface {
	UpsertScope(ctx context.Context, node *ScopeNode) error
	RemoveScope(ctx context.Context, ref ScopeRef) error
}

// ScopeUseCase 维护作用域层级镜像
type ScopeUseCase struct {
	writer   ScopeWriter
	resolver *ScopeResolver
}

// NewScopeUseCase 创建 ScopeUseCase
func NewScopeUseCase(writer ScopeWriter, resolver *ScopeResolver) *ScopeUseCase {
	return &ScopeUseCase{writer: writer, resolver: resolver}
}

// Register 登记作用域，父节点必须是合法的上级类型
func (uc *ScopeUseCase) Register(ctx context.Context, node *ScopeNode) error {
	if node == nil || !node.Ref.Kind.IsValid() || node.Ref.ID == "" {
		return quotaErrors.ErrInvalidScope
	}
	if !node.Parent.IsZero() && node.Parent.Kind != node.Ref.Kind.ParentKind() {
		return quotaErrors.InvalidScope("scope %s cannot be placed under %s", node.Ref, node.Parent)
	}
	return uc.writer.UpsertScope(ctx, node)
}

// Remove 移除作用域
func (uc *ScopeUseCase) Remove(ctx context.Context, ref ScopeRef) error {
	return uc.writer.RemoveScope(ctx, ref)
}

// Get 获取作用域，不存在返回 nil
func (uc *ScopeUseCase) Get(ctx context.Context, ref ScopeRef) (*ScopeNode, error) {
	return uc.resolver.Get(ctx, ref)
}
