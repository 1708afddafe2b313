package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweeperFixture() (*fakeEstimateRepo, *SweeperUseCase) {
	c1 := NewScopeRef(ScopeKindCustomer, "c1")
	p1 := NewScopeRef(ScopeKindProject, "p1")
	p2 := NewScopeRef(ScopeKindProject, "p2")
	l1 := NewScopeRef(ScopeKindServiceProjectLink, "l1")
	graph := newFakeScopeGraph(
		&ScopeNode{Ref: c1},
		&ScopeNode{Ref: p1, Parent: c1},
		&ScopeNode{Ref: p2, Parent: c1},
		&ScopeNode{Ref: NewScopeRef(ScopeKindProject, "p3"), Parent: c1},
		&ScopeNode{Ref: l1, Parent: p1},
		&ScopeNode{Ref: NewScopeRef(ScopeKindServiceProjectLink, "l2"), Parent: p2},
		&ScopeNode{Ref: NewScopeRef(ScopeKindResource, "r1"), Parent: l1, ResourceType: testResourceType},
	)
	repo := newFakeEstimateRepo()
	registry := NewCostRegistry(map[string]CostBackend{testResourceType: &fakeCostBackend{}})
	return repo, NewSweeperUseCase(repo, registry, NewScopeResolver(graph), testLogger)
}

func putEstimate(repo *fakeEstimateRepo, kind ScopeKind, id, scopeType string, month int, details string) {
	if scopeType == "" {
		scopeType = string(kind)
	}
	repo.put(&PriceEstimate{
		Scope:      NewScopeRef(kind, id),
		ScopeType:  scopeType,
		CustomerID: "c1",
		Year:       2026,
		Month:      month,
		Details:    details,
	})
}

func seedSweeperData(repo *fakeEstimateRepo) {
	// 9 月：3 个项目、2 个关联、0 个资源
	putEstimate(repo, ScopeKindCustomer, "c1", "", 9, "")
	putEstimate(repo, ScopeKindProject, "p1", "", 9, "")
	putEstimate(repo, ScopeKindProject, "p2", "", 9, "")
	putEstimate(repo, ScopeKindProject, "p3", "", 9, "")
	putEstimate(repo, ScopeKindServiceProjectLink, "l1", "", 9, "")
	putEstimate(repo, ScopeKindServiceProjectLink, "l2", "", 9, "")

	// 10 月：三层齐全
	putEstimate(repo, ScopeKindCustomer, "c1", "", 10, "")
	putEstimate(repo, ScopeKindProject, "p1", "", 10, "")
	putEstimate(repo, ScopeKindServiceProjectLink, "l1", "", 10, "")
	putEstimate(repo, ScopeKindResource, "r1", testResourceType, 10, "")

	// 未注册类型
	putEstimate(repo, ScopeKindResource, "x1", "legacy.instance", 10, "")
	// 作用域已删除且没有明细
	putEstimate(repo, ScopeKindProject, "gone", "", 10, "")
	// 作用域已删除但保留明细
	putEstimate(repo, ScopeKindProject, "archived", "", 10, `{"children":[{"scope":"service_project_link:l9"}]}`)
}

func TestSweeper_RemovesInvalidEstimates(t *testing.T) {
	repo, uc := newSweeperFixture()
	seedSweeperData(repo)
	require.Equal(t, 13, repo.count())

	reports, err := uc.Run(context.Background(), AssumeYes)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, SweepPassUnregistered, reports[0].Pass)
	assert.Equal(t, 1, reports[0].Deleted)
	assert.Equal(t, SweepPassOrphaned, reports[1].Pass)
	assert.Equal(t, 1, reports[1].Deleted)
	assert.Equal(t, SweepPassIncomplete, reports[2].Pass)
	assert.Equal(t, 5, reports[2].Deleted)

	assert.Equal(t, 6, repo.count())
	remaining, err := repo.ListAllEstimates(context.Background())
	require.NoError(t, err)
	for _, e := range remaining {
		if e.Month == 9 {
			assert.Equal(t, ScopeKindCustomer, e.Scope.Kind)
		}
	}
}

func TestSweeper_RerunIsNoop(t *testing.T) {
	repo, uc := newSweeperFixture()
	seedSweeperData(repo)
	_, err := uc.Run(context.Background(), AssumeYes)
	require.NoError(t, err)

	reports, err := uc.Run(context.Background(), AssumeYes)
	require.NoError(t, err)
	for _, r := range reports {
		assert.Zero(t, r.Found, r.Pass)
		assert.Zero(t, r.Deleted, r.Pass)
	}
	assert.Equal(t, 6, repo.count())
}

func TestSweeper_DeclinedPassKeepsEstimates(t *testing.T) {
	repo, uc := newSweeperFixture()
	seedSweeperData(repo)

	var asked []string
	reports, err := uc.Run(context.Background(), func(pass string, count int, _ string) bool {
		asked = append(asked, pass)
		return pass != SweepPassIncomplete
	})
	require.NoError(t, err)

	assert.Equal(t, []string{SweepPassUnregistered, SweepPassOrphaned, SweepPassIncomplete}, asked)
	assert.False(t, reports[2].Confirmed)
	assert.Equal(t, 5, reports[2].Found)
	assert.Zero(t, reports[2].Deleted)
	assert.Equal(t, 11, repo.count())
}

func TestSweeper_IncompletePassSkipsEstimatesWithoutCustomer(t *testing.T) {
	repo, uc := newSweeperFixture()
	// 两个没有客户归属的项目预估：不会被凑成同一个缺层的月份
	for _, id := range []string{"p1", "p2"} {
		repo.put(&PriceEstimate{
			Scope:     NewScopeRef(ScopeKindProject, id),
			ScopeType: string(ScopeKindProject),
			Year:      2026,
			Month:     10,
		})
	}

	reports, err := uc.Run(context.Background(), AssumeYes)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, SweepPassIncomplete, reports[2].Pass)
	assert.Zero(t, reports[2].Found)
	assert.Equal(t, 2, repo.count())
}
