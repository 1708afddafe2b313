package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"quota-service/internal/constants"
	quotaErrors "quota-service/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estimateFixture struct {
	graph     *fakeScopeGraph
	repo      *fakeEstimateRepo
	backend   *fakeCostBackend
	publisher *fakePublisher
	conf      *EngineConfig
	uc        *PriceEstimateUseCase
}

func newEstimateFixture(nodes ...*ScopeNode) *estimateFixture {
	f := &estimateFixture{
		graph:     newFakeScopeGraph(nodes...),
		repo:      newFakeEstimateRepo(),
		backend:   &fakeCostBackend{prices: map[string]float64{"cpu": 0.01, "ram": 0.001}},
		publisher: &fakePublisher{},
		conf:      NewEngineConfig(nil),
	}
	resolver := NewScopeResolver(f.graph)
	registry := NewCostRegistry(map[string]CostBackend{testResourceType: f.backend})
	alerts := NewAlertUseCase(newFakeAlertRepo(), f.publisher, resolver, f.conf, testLogger)
	f.uc = NewPriceEstimateUseCase(f.repo, registry, resolver, alerts, f.conf, testLogger)
	f.setNow(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	return f
}

func (f *estimateFixture) setNow(t time.Time) {
	f.uc.now = func() time.Time { return t }
}

func (f *estimateFixture) node(t *testing.T, ref ScopeRef) *ScopeNode {
	n, err := f.graph.GetScope(context.Background(), ref)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func (f *estimateFixture) current(t *testing.T, ref ScopeRef) *PriceEstimate {
	e, err := f.uc.GetCurrent(context.Background(), ref)
	require.NoError(t, err)
	require.NotNil(t, e, "estimate of %s", ref)
	return e
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestPriceEstimate_ConfigurationChangePropagates(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	resource := f.node(t, resourceRef)

	// 2 核 * 744 小时 * 0.01
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, resource, map[string]float64{"cpu": 2}))
	for _, ref := range []ScopeRef{resourceRef, linkRef, projectRef, customerRef} {
		assertDecimal(t, "14.88", f.current(t, ref).Total)
	}

	// 月中升级为 4 核：前 360 小时按 2 核，剩余 384 小时按 4 核
	f.setNow(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, resource, map[string]float64{"cpu": 4}))
	for _, ref := range []ScopeRef{resourceRef, linkRef, projectRef, customerRef} {
		assertDecimal(t, "22.56", f.current(t, ref).Total)
	}

	assert.Equal(t, customerRef.ID, f.current(t, resourceRef).CustomerID)
	assert.Equal(t, testResourceType, f.current(t, resourceRef).ScopeType)
	assert.Equal(t, 4, f.repo.count())
}

func TestPriceEstimate_SiblingResourcesSum(t *testing.T) {
	second := &ScopeNode{Ref: NewScopeRef(ScopeKindResource, "r2"), Parent: linkRef, ResourceType: testResourceType}
	f := newEstimateFixture(append(testHierarchy(), second)...)
	ctx := context.Background()

	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, f.node(t, resourceRef), map[string]float64{"cpu": 1}))
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, second, map[string]float64{"ram": 1000}))

	assertDecimal(t, "7.44", f.current(t, resourceRef).Total)
	assertDecimal(t, "744", f.current(t, second.Ref).Total)
	assertDecimal(t, "751.44", f.current(t, projectRef).Total)
}

func TestPriceEstimate_UnregisteredResourceIgnored(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	volume := &ScopeNode{Ref: NewScopeRef(ScopeKindResource, "v1"), Parent: linkRef, ResourceType: "openstack.volume"}

	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, volume, map[string]float64{"storage": 10}))
	require.NoError(t, f.uc.OnResourceUpdated(ctx, volume))
	assert.Zero(t, f.repo.count())
}

func TestPriceEstimate_ResourceUpdatedReadsBackend(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	f.backend.consumables = map[string]float64{"cpu": 1, "ram": 2048}

	require.NoError(t, f.uc.OnResourceUpdated(context.Background(), f.node(t, resourceRef)))
	// 744 * 0.01 + 744 * 2048 * 0.001
	assertDecimal(t, "1531.152", f.current(t, resourceRef).Total)
}

func TestPriceEstimate_ThresholdCarriedLimitNot(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	f.repo.put(&PriceEstimate{
		Scope:     projectRef,
		ScopeType: string(ScopeKindProject),
		Year:      2026,
		Month:     9,
		Total:     decimal.NewFromInt(70),
		Limit:     decimal.NewFromInt(100),
		Threshold: decimal.NewFromInt(50),
	})

	estimate, err := f.uc.GetOrCreateCurrentWithAncestors(ctx, f.node(t, projectRef))
	require.NoError(t, err)

	assertDecimal(t, "50", estimate.Threshold)
	current := f.current(t, projectRef)
	assertDecimal(t, "50", current.Threshold)
	assert.True(t, current.IsUnlimited())
	assert.True(t, current.Total.IsZero())

	// 客户上月没有阈值
	assert.True(t, f.current(t, customerRef).Threshold.IsZero())
}

func TestPriceEstimate_CustomerDeletionCascades(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, f.node(t, resourceRef), map[string]float64{"cpu": 1}))

	other := NewScopeRef(ScopeKindCustomer, "c2")
	f.repo.put(&PriceEstimate{Scope: other, ScopeType: string(ScopeKindCustomer), CustomerID: "c2", Year: 2026, Month: 10})
	require.Equal(t, 5, f.repo.count())

	require.NoError(t, f.uc.OnScopeDeleted(ctx, f.node(t, customerRef), ScopeDeletionCustomer))

	assert.Equal(t, 1, f.repo.count())
	remaining, err := f.uc.ListEstimates(ctx, other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestPriceEstimate_ResourceDeletionKeepsHistory(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	resource := f.node(t, resourceRef)
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, resource, map[string]float64{"cpu": 2}))

	// 运行 240 小时后删除
	f.setNow(time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.uc.OnScopeDeleted(ctx, resource, ScopeDeletionResource))

	estimate := f.current(t, resourceRef)
	assertDecimal(t, "4.8", estimate.Total)
	assert.Contains(t, estimate.Details, `"consumed_in_month":{"cpu":480}`)
	assertDecimal(t, "4.8", f.current(t, projectRef).Total)
	assert.Equal(t, 4, f.repo.count())
}

func TestPriceEstimate_NewMonthCarriesConfiguration(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	resource := f.node(t, resourceRef)

	f.setNow(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, resource, map[string]float64{"cpu": 2}))

	// 10 月第一次事件就是删除：月初到删除时的 360 小时仍按 2 核计算
	f.setNow(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.uc.OnScopeDeleted(ctx, resource, ScopeDeletionResource))

	october := f.current(t, resourceRef)
	assertDecimal(t, "7.2", october.Total)
	assert.Contains(t, october.Details, `"consumed_in_month":{"cpu":720}`)
	assertDecimal(t, "7.2", f.current(t, projectRef).Total)

	september, err := f.repo.GetEstimate(ctx, resourceRef, 2026, 9)
	require.NoError(t, err)
	require.NotNil(t, september)
	assertDecimal(t, "14.4", september.Total)
}

func TestPriceEstimate_OtherScopeDeletionSnapshotsChildren(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, f.node(t, resourceRef), map[string]float64{"cpu": 1}))

	require.NoError(t, f.uc.OnScopeDeleted(ctx, f.node(t, linkRef), ScopeDeletionOther))

	details := f.current(t, linkRef).Details
	assert.Contains(t, details, `"scope":"resource:r1"`)
	assert.Contains(t, details, `"scope_type":"openstack.instance"`)
}

func TestPriceEstimate_UnlinkNotSupported(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	err := f.uc.OnScopeUnlinked(context.Background(), linkRef)
	assert.True(t, quotaErrors.IsUnlinkNotSupported(err))
	assert.Zero(t, f.repo.count())
}

func TestPriceEstimate_SetThresholdRaisesAlert(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	require.NoError(t, f.uc.OnResourceConfigurationChanged(ctx, f.node(t, resourceRef), map[string]float64{"cpu": 2}))

	_, err := f.uc.SetThreshold(ctx, f.node(t, projectRef), decimal.NewFromInt(10))
	require.NoError(t, err)

	events := f.publisher.ofType(constants.AlertTypePriceEstimateOverThreshold)
	require.Len(t, events, 1)
	assert.Equal(t, projectRef, events[0].Scope)
}

func provisionRequest() *ProvisionRequest {
	return &ProvisionRequest{
		Resource: &ScopeNode{
			Ref:          NewScopeRef(ScopeKindResource, "new"),
			Parent:       linkRef,
			ResourceType: testResourceType,
		},
		Consumables: map[string]float64{"cpu": 4},
	}
}

func TestPriceEstimate_CheckProjectCostLimit(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	ctx := context.Background()
	project := f.node(t, projectRef)
	_, err := f.uc.SetLimit(ctx, project, decimal.NewFromInt(100))
	require.NoError(t, err)
	f.repo.setTotal(projectRef, 2026, 10, decimal.NewFromInt(90))

	f.backend.monthlyCost = decimal.NewFromInt(20)
	err = f.uc.CheckProjectCostLimit(ctx, provisionRequest())
	require.Error(t, err)
	assert.True(t, quotaErrors.IsCostLimitExceeded(err))
	assert.Contains(t, err.Error(), "Total estimated cost of resource and project is over limit.")

	f.backend.monthlyCost = decimal.NewFromInt(10)
	assert.NoError(t, f.uc.CheckProjectCostLimit(ctx, provisionRequest()))

	f.repo.setTotal(projectRef, 2026, 10, decimal.NewFromInt(101))
	err = f.uc.CheckProjectCostLimit(ctx, provisionRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Estimated cost of project is over limit.")

	_, err = f.uc.SetLimit(ctx, project, decimal.NewFromInt(constants.UnlimitedValue))
	require.NoError(t, err)
	f.backend.monthlyCost = decimal.NewFromInt(1000)
	assert.NoError(t, f.uc.CheckProjectCostLimit(ctx, provisionRequest()))
}

func TestPriceEstimate_CheckProjectCostLimitDegrades(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(f *estimateFixture, req *ProvisionRequest)
	}{
		{"backend error", func(f *estimateFixture, _ *ProvisionRequest) {
			f.backend.monthlyErr = quotaErrors.BackendError(errors.New("connection refused"))
		}},
		{"not implemented", func(f *estimateFixture, _ *ProvisionRequest) {
			f.backend.monthlyErr = quotaErrors.ErrBackendNotImplemented
		}},
		{"unregistered type", func(_ *estimateFixture, req *ProvisionRequest) {
			req.Resource.ResourceType = "aws.instance"
		}},
		{"timeout", func(f *estimateFixture, _ *ProvisionRequest) {
			f.conf.CostLookupTimeout = 10 * time.Millisecond
			f.backend.monthlyDelay = time.Second
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newEstimateFixture(testHierarchy()...)
			ctx := context.Background()
			_, err := f.uc.SetLimit(ctx, f.node(t, projectRef), decimal.NewFromInt(100))
			require.NoError(t, err)
			f.repo.setTotal(projectRef, 2026, 10, decimal.NewFromInt(90))
			f.backend.monthlyCost = decimal.NewFromInt(20)

			req := provisionRequest()
			tc.prepare(f, req)
			assert.NoError(t, f.uc.CheckProjectCostLimit(ctx, req))
		})
	}
}

func TestPriceEstimate_CheckProjectCostLimitWithoutEstimate(t *testing.T) {
	f := newEstimateFixture(testHierarchy()...)
	f.backend.monthlyCost = decimal.NewFromInt(1000)
	assert.NoError(t, f.uc.CheckProjectCostLimit(context.Background(), provisionRequest()))
	assert.Zero(t, f.repo.count())
}
