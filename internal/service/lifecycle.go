package service

import (
	"context"

	"quota-service/internal/biz"
	quotaErrors "quota-service/internal/errors"
)

// 生命周期事件类型
const (
	EventScopeRegistered              = "scope_registered"
	EventScopeCreated                 = "scope_created"
	EventResourceCreated              = "resource_created"
	EventResourceDeleted              = "resource_deleted"
	EventResourceConfigurationChanged = "resource_configuration_changed"
	EventResourceQuotaChanged         = "resource_quota_changed"
	EventQuotaSaved                   = "quota_saved"
	EventQuotaPreDelete               = "quota_pre_delete"
	EventScopeDeleted                 = "scope_deleted"
	EventScopeUnlinked                = "scope_unlinked"
	EventSweep                        = "sweep"
)

// LifecycleEvent 通过 RocketMQ 投递的生命周期事件
type LifecycleEvent struct {
	Type          string             `json:"type"`
	Scope         biz.ScopeRef       `json:"scope"`
	Parent        biz.ScopeRef       `json:"parent,omitempty"`
	Name          string             `json:"name,omitempty"`
	ResourceType  string             `json:"resource_type,omitempty"`
	Consumables   map[string]float64 `json:"consumables,omitempty"`
	QuotaName     string             `json:"quota_name,omitempty"`
	Created       bool               `json:"created,omitempty"`
	PreviousUsage float64            `json:"previous_usage,omitempty"`
	DeletionKind  string             `json:"deletion_kind,omitempty"`
}

func (e *LifecycleEvent) node() *biz.ScopeNode {
	return &biz.ScopeNode{
		Ref:          e.Scope,
		Parent:       e.Parent,
		Name:         e.Name,
		ResourceType: e.ResourceType,
	}
}

func (e *LifecycleEvent) quotaRef() biz.QuotaRef {
	return biz.QuotaRef{Name: e.QuotaName, Scope: e.Scope}
}

// Dispatch 按事件类型分发到对应入口
func (s *EventService) Dispatch(ctx context.Context, event *LifecycleEvent) error {
	switch event.Type {
	case EventScopeRegistered:
		return s.RegisterScope(ctx, event.node())
	case EventScopeCreated:
		return s.OnScopeCreated(ctx, event.node())
	case EventResourceCreated:
		return s.OnResourceCreated(ctx, event.node(), event.Consumables)
	case EventResourceDeleted:
		return s.OnResourceDeleted(ctx, event.Scope)
	case EventResourceConfigurationChanged:
		return s.OnResourceConfigurationChanged(ctx, event.Scope, event.Consumables)
	case EventResourceQuotaChanged:
		return s.OnResourceQuotaChanged(ctx, event.Scope)
	case EventQuotaSaved:
		return s.OnQuotaSaved(ctx, event.quotaRef(), event.Created, event.PreviousUsage)
	case EventQuotaPreDelete:
		return s.OnQuotaPreDelete(ctx, event.quotaRef())
	case EventScopeDeleted:
		return s.OnScopeDeleted(ctx, event.Scope, biz.ScopeDeletionKind(event.DeletionKind))
	case EventScopeUnlinked:
		return s.OnScopeUnlinked(ctx, event.Scope)
	}
	return quotaErrors.ErrUnknownEvent.WithMetadata(map[string]string{"type": event.Type})
}
