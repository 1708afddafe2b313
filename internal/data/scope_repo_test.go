package data

import (
	"context"
	"testing"

	"quota-service/internal/biz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRepo_UpsertListRemove(t *testing.T) {
	repo := NewScopeRepo(newTestData(t), testLogger)
	ctx := context.Background()
	customer := biz.NewScopeRef(biz.ScopeKindCustomer, "c1")
	project := biz.NewScopeRef(biz.ScopeKindProject, "p1")

	require.NoError(t, repo.UpsertScope(ctx, &biz.ScopeNode{Ref: customer, Name: "Customer"}))
	require.NoError(t, repo.UpsertScope(ctx, &biz.ScopeNode{Ref: project, Parent: customer, Name: "Old name"}))
	require.NoError(t, repo.UpsertScope(ctx, &biz.ScopeNode{Ref: project, Parent: customer, Name: "Project"}))

	node, err := repo.GetScope(ctx, project)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "Project", node.Name)
	assert.Equal(t, customer, node.Parent)

	root, err := repo.GetScope(ctx, customer)
	require.NoError(t, err)
	assert.True(t, root.Parent.IsZero())

	children, err := repo.ListChildren(ctx, customer)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, project, children[0].Ref)

	require.NoError(t, repo.RemoveScope(ctx, project))
	node, err = repo.GetScope(ctx, project)
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestScopeRepo_ResolverIntegration(t *testing.T) {
	repo := NewScopeRepo(newTestData(t), testLogger)
	ctx := context.Background()
	nodes := []*biz.ScopeNode{
		{Ref: biz.NewScopeRef(biz.ScopeKindCustomer, "c1")},
		{Ref: biz.NewScopeRef(biz.ScopeKindProject, "p1"), Parent: biz.NewScopeRef(biz.ScopeKindCustomer, "c1")},
		{Ref: linkScope, Parent: biz.NewScopeRef(biz.ScopeKindProject, "p1")},
		{Ref: biz.NewScopeRef(biz.ScopeKindResource, "r1"), Parent: linkScope, ResourceType: "openstack.instance"},
	}
	for _, n := range nodes {
		require.NoError(t, repo.UpsertScope(ctx, n))
	}

	resolver := biz.NewScopeResolver(repo)
	customer, err := resolver.AncestorOfKind(ctx, nodes[3].Ref, biz.ScopeKindCustomer)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "c1", customer.Ref.ID)

	resource, err := resolver.Get(ctx, nodes[3].Ref)
	require.NoError(t, err)
	assert.Equal(t, "openstack.instance", resource.ScopeType())
}
