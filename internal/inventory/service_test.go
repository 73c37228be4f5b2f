package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winside-retail/backoffice/internal/shared"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		current int
		delta   int
		want    int
		clamped bool
	}{
		{"increase", 5, 3, 8, false},
		{"decrease", 5, -3, 2, false},
		{"to zero", 5, -5, 0, false},
		{"clamped at zero", 5, -8, 0, true},
		{"from zero down", 0, -1, 0, true},
		{"zero delta", 7, 0, 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, clamped := ApplyDelta(tc.current, tc.delta)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.clamped, clamped)
			require.GreaterOrEqual(t, got, 0)
		})
	}
}

type fakeStockRepo struct {
	levels      map[int64]int // keyed by product id, nil-variant rows only
	adjustments []Adjustment
	failNext    error
}

func (f *fakeStockRepo) Adjust(_ context.Context, adj *Adjustment) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	current, ok := f.levels[adj.ProductID]
	if !ok {
		return ErrNotFound
	}
	adj.Previous = current
	adj.New, adj.Clamped = ApplyDelta(current, adj.Delta)
	f.levels[adj.ProductID] = adj.New
	adj.ID = int64(len(f.adjustments) + 1)
	f.adjustments = append(f.adjustments, *adj)
	return nil
}

func (f *fakeStockRepo) ListAdjustments(_ context.Context, _ ListAdjustmentsRequest) ([]Adjustment, int, error) {
	return f.adjustments, len(f.adjustments), nil
}

func (f *fakeStockRepo) LowStock(_ context.Context, _ string, threshold int) ([]LowStockItem, error) {
	var out []LowStockItem
	for id, qty := range f.levels {
		if qty <= threshold {
			out = append(out, LowStockItem{ProductID: id, Quantity: qty})
		}
	}
	return out, nil
}

type fakeGuard struct {
	seen    map[string]bool
	deleted []string
}

func newFakeGuard() *fakeGuard { return &fakeGuard{seen: make(map[string]bool)} }

func (g *fakeGuard) CheckAndInsert(_ context.Context, key, _ string) error {
	if g.seen[key] {
		return shared.ErrIdempotencyConflict
	}
	g.seen[key] = true
	return nil
}

func (g *fakeGuard) Delete(_ context.Context, key string) error {
	delete(g.seen, key)
	g.deleted = append(g.deleted, key)
	return nil
}

type fakeAudit struct {
	records []shared.AuditLog
}

func (a *fakeAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.records = append(a.records, log)
	return nil
}

func TestAdjustClampsAtZero(t *testing.T) {
	repo := &fakeStockRepo{levels: map[int64]int{10: 5}}
	svc := NewService(nil, repo, newFakeGuard(), &fakeAudit{}, 3)

	adj, err := svc.Adjust(context.Background(), 1, AdjustRequest{ProductID: 10, Delta: -8, Reason: "damaged"}, "")
	require.NoError(t, err)
	require.Equal(t, 5, adj.Previous)
	require.Equal(t, 0, adj.New)
	require.True(t, adj.Clamped)
	require.Equal(t, 0, repo.levels[10])
}

func TestAdjustRecordsReasonAndActor(t *testing.T) {
	repo := &fakeStockRepo{levels: map[int64]int{10: 5}}
	audit := &fakeAudit{}
	svc := NewService(nil, repo, newFakeGuard(), audit, 3)

	adj, err := svc.Adjust(context.Background(), 42, AdjustRequest{ProductID: 10, Delta: 3, Reason: "restock"}, "")
	require.NoError(t, err)
	require.Equal(t, "restock", adj.Reason)
	require.Equal(t, int64(42), adj.ActorID)
	require.NotEmpty(t, adj.Reference)

	require.Len(t, audit.records, 1)
	require.Equal(t, "stock.adjust", audit.records[0].Action)
	require.Equal(t, int64(42), audit.records[0].ActorID)
}

func TestAdjustIdempotencyKeyDeduplicates(t *testing.T) {
	repo := &fakeStockRepo{levels: map[int64]int{10: 5}}
	svc := NewService(nil, repo, newFakeGuard(), &fakeAudit{}, 3)

	_, err := svc.Adjust(context.Background(), 1, AdjustRequest{ProductID: 10, Delta: 1, Reason: "restock"}, "key-1")
	require.NoError(t, err)

	_, err = svc.Adjust(context.Background(), 1, AdjustRequest{ProductID: 10, Delta: 1, Reason: "restock"}, "key-1")
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Equal(t, 6, repo.levels[10], "duplicate must not re-apply the delta")
}

func TestAdjustReleasesKeyOnFailure(t *testing.T) {
	repo := &fakeStockRepo{levels: map[int64]int{10: 5}}
	guard := newFakeGuard()
	svc := NewService(nil, repo, guard, &fakeAudit{}, 3)

	repo.failNext = ErrNotFound
	_, err := svc.Adjust(context.Background(), 1, AdjustRequest{ProductID: 10, Delta: 1, Reason: "restock"}, "key-2")
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, guard.deleted, "key-2")

	// The retry with the same key succeeds once the failure is gone.
	_, err = svc.Adjust(context.Background(), 1, AdjustRequest{ProductID: 10, Delta: 1, Reason: "restock"}, "key-2")
	require.NoError(t, err)
}

func TestLowStockUsesThreshold(t *testing.T) {
	repo := &fakeStockRepo{levels: map[int64]int{1: 2, 2: 10, 3: 3}}
	svc := NewService(nil, repo, newFakeGuard(), &fakeAudit{}, 3)

	items, err := svc.LowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
}
