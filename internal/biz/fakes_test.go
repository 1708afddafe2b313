package biz

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	quotaErrors "quota-service/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testLogger = log.NewStdLogger(io.Discard)

// fakeScopeGraph 内存层级
type fakeScopeGraph struct {
	mu    sync.Mutex
	nodes map[ScopeRef]*ScopeNode
}

func newFakeScopeGraph(nodes ...*ScopeNode) *fakeScopeGraph {
	g := &fakeScopeGraph{nodes: make(map[ScopeRef]*ScopeNode)}
	for _, n := range nodes {
		g.nodes[n.Ref] = n
	}
	return g
}

func (g *fakeScopeGraph) GetScope(_ context.Context, ref ScopeRef) (*ScopeNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[ref]
	if !ok {
		return nil, nil
	}
	c := *n
	return &c, nil
}

func (g *fakeScopeGraph) ListChildren(_ context.Context, ref ScopeRef) ([]*ScopeNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var children []*ScopeNode
	for _, n := range g.nodes {
		if n.Parent == ref {
			c := *n
			children = append(children, &c)
		}
	}
	return children, nil
}

func (g *fakeScopeGraph) UpsertScope(_ context.Context, node *ScopeNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := *node
	g.nodes[node.Ref] = &c
	return nil
}

func (g *fakeScopeGraph) RemoveScope(_ context.Context, ref ScopeRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.nodes, ref)
	return nil
}

// fakeQuotaRepo 内存配额存储
type fakeQuotaRepo struct {
	mu     sync.Mutex
	quotas map[QuotaRef]*Quota
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{quotas: make(map[QuotaRef]*Quota)}
}

func (r *fakeQuotaRepo) GetQuota(_ context.Context, ref QuotaRef) (*Quota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotas[ref]
	if !ok {
		return nil, nil
	}
	c := *q
	return &c, nil
}

func (r *fakeQuotaRepo) GetOrCreateQuota(_ context.Context, ref QuotaRef, limit float64) (*Quota, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quotas[ref]; ok {
		c := *q
		return &c, false, nil
	}
	q := &Quota{ID: uuid.NewString(), Name: ref.Name, Scope: ref.Scope, Limit: limit, UpdatedAt: time.Now()}
	r.quotas[ref] = q
	c := *q
	return &c, true, nil
}

func (r *fakeQuotaRepo) update(ref QuotaRef, fn func(q *Quota)) (*Quota, *Quota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotas[ref]
	if !ok {
		return nil, nil, quotaErrors.QuotaNotFound(ref.Name, ref.Scope.String())
	}
	before := *q
	fn(q)
	after := *q
	return &before, &after, nil
}

func (r *fakeQuotaRepo) AddQuotaUsage(_ context.Context, ref QuotaRef, delta float64) (*Quota, *Quota, error) {
	return r.update(ref, func(q *Quota) { q.Usage += delta })
}

func (r *fakeQuotaRepo) SetQuotaUsage(_ context.Context, ref QuotaRef, usage float64) (*Quota, *Quota, error) {
	return r.update(ref, func(q *Quota) { q.Usage = usage })
}

func (r *fakeQuotaRepo) SetQuotaLimit(_ context.Context, ref QuotaRef, limit float64) (*Quota, error) {
	_, after, err := r.update(ref, func(q *Quota) { q.Limit = limit })
	return after, err
}

func (r *fakeQuotaRepo) ListQuotas(_ context.Context, scope ScopeRef) ([]*Quota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*Quota
	for _, q := range r.quotas {
		if q.Scope == scope {
			c := *q
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *fakeQuotaRepo) DeleteQuota(_ context.Context, ref QuotaRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.quotas, ref)
	return nil
}

func (r *fakeQuotaRepo) usage(name string, scope ScopeRef) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quotas[QuotaRef{Name: name, Scope: scope}]; ok {
		return q.Usage
	}
	return 0
}

func (r *fakeQuotaRepo) exists(name string, scope ScopeRef) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.quotas[QuotaRef{Name: name, Scope: scope}]
	return ok
}

// fakeAlertRepo 内存告警状态
type fakeAlertRepo struct {
	mu   sync.Mutex
	open map[AlertKey]string
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{open: make(map[AlertKey]string)}
}

func (r *fakeAlertRepo) OpenAlert(_ context.Context, key AlertKey, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[key]; ok {
		return false, nil
	}
	r.open[key] = message
	return true, nil
}

func (r *fakeAlertRepo) CloseAlert(_ context.Context, key AlertKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[key]; !ok {
		return false, nil
	}
	delete(r.open, key)
	return true, nil
}

// fakePublisher 记录已发布事件
type fakePublisher struct {
	mu     sync.Mutex
	events []*AlertEvent
}

func (p *fakePublisher) PublishAlert(_ context.Context, event *AlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) ofType(t string) []*AlertEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var list []*AlertEvent
	for _, e := range p.events {
		if e.Type == t {
			list = append(list, e)
		}
	}
	return list
}

// fakeEstimateRepo 内存价格预估存储
type fakeEstimateRepo struct {
	mu        sync.Mutex
	estimates map[string]*PriceEstimate
	links     map[string]map[string]bool // parent -> children
	details   map[string]*ConsumptionDetails
}

func newFakeEstimateRepo() *fakeEstimateRepo {
	return &fakeEstimateRepo{
		estimates: make(map[string]*PriceEstimate),
		links:     make(map[string]map[string]bool),
		details:   make(map[string]*ConsumptionDetails),
	}
}

func (r *fakeEstimateRepo) find(scope ScopeRef, year, month int) *PriceEstimate {
	for _, e := range r.estimates {
		if e.Scope == scope && e.Year == year && e.Month == month {
			return e
		}
	}
	return nil
}

func (r *fakeEstimateRepo) GetEstimate(_ context.Context, scope ScopeRef, year, month int) (*PriceEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.find(scope, year, month)
	if e == nil {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *fakeEstimateRepo) GetOrCreateEstimate(_ context.Context, estimate *PriceEstimate) (*PriceEstimate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.find(estimate.Scope, estimate.Year, estimate.Month); e != nil {
		c := *e
		return &c, false, nil
	}
	e := *estimate
	e.ID = uuid.NewString()
	r.estimates[e.ID] = &e
	c := e
	return &c, true, nil
}

func (r *fakeEstimateRepo) UpdateEstimate(_ context.Context, estimate *PriceEstimate, fields ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.estimates[estimate.ID]
	if !ok {
		return fmt.Errorf("estimate %s not found", estimate.ID)
	}
	for _, f := range fields {
		switch f {
		case EstimateFieldTotal:
			e.Total = estimate.Total
		case EstimateFieldLimit:
			e.Limit = estimate.Limit
		case EstimateFieldThreshold:
			e.Threshold = estimate.Threshold
		case EstimateFieldDetails:
			e.Details = estimate.Details
		}
	}
	return nil
}

func (r *fakeEstimateRepo) LinkEstimates(_ context.Context, parentID, childID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.links[parentID] == nil {
		r.links[parentID] = make(map[string]bool)
	}
	r.links[parentID][childID] = true
	return nil
}

func (r *fakeEstimateRepo) ListChildEstimates(_ context.Context, parentID string) ([]*PriceEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*PriceEstimate
	for id := range r.links[parentID] {
		if e, ok := r.estimates[id]; ok {
			c := *e
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *fakeEstimateRepo) ListParentEstimates(_ context.Context, childID string) ([]*PriceEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*PriceEstimate
	for parentID, children := range r.links {
		if children[childID] {
			if e, ok := r.estimates[parentID]; ok {
				c := *e
				list = append(list, &c)
			}
		}
	}
	return list, nil
}

func (r *fakeEstimateRepo) ListEstimatesByScope(_ context.Context, scope ScopeRef) ([]*PriceEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*PriceEstimate
	for _, e := range r.estimates {
		if e.Scope == scope {
			c := *e
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *fakeEstimateRepo) ListAllEstimates(_ context.Context) ([]*PriceEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*PriceEstimate, 0, len(r.estimates))
	for _, e := range r.estimates {
		c := *e
		list = append(list, &c)
	}
	return list, nil
}

func (r *fakeEstimateRepo) DeleteEstimates(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.estimates, id)
		delete(r.details, id)
		delete(r.links, id)
		for _, children := range r.links {
			delete(children, id)
		}
	}
	return nil
}

func (r *fakeEstimateRepo) GetConsumptionDetails(_ context.Context, estimateID string) (*ConsumptionDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[estimateID]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *fakeEstimateRepo) SaveConsumptionDetails(_ context.Context, details *ConsumptionDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *details
	r.details[details.EstimateID] = &c
	return nil
}

// put 直接写入一条预估，返回其 ID
func (r *fakeEstimateRepo) put(e *PriceEstimate) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.estimates[c.ID] = &c
	return c.ID
}

func (r *fakeEstimateRepo) setTotal(scope ScopeRef, year, month int, total decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.find(scope, year, month); e != nil {
		e.Total = total
	}
}

func (r *fakeEstimateRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.estimates)
}

// fakeCostBackend 按小时单价计费
type fakeCostBackend struct {
	prices       map[string]float64
	consumables  map[string]float64
	monthlyCost  decimal.Decimal
	monthlyErr   error
	monthlyDelay time.Duration
}

func (b *fakeCostBackend) GetConsumables(context.Context, *ScopeNode) (map[string]float64, error) {
	return b.consumables, nil
}

func (b *fakeCostBackend) GetMonthlyCostEstimate(ctx context.Context, _ *ResourceSpec) (decimal.Decimal, error) {
	if b.monthlyDelay > 0 {
		select {
		case <-time.After(b.monthlyDelay):
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		}
	}
	if b.monthlyErr != nil {
		return decimal.Zero, b.monthlyErr
	}
	return b.monthlyCost, nil
}

func (b *fakeCostBackend) CalculateCost(_ context.Context, _ string, consumed map[string]float64) (decimal.Decimal, error) {
	total := decimal.Zero
	for name, amount := range consumed {
		total = total.Add(decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(b.prices[name])))
	}
	return total.Round(4), nil
}
