package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryLedgerRepo struct {
	accounts map[int64]Account
	charges  map[int64][]Entry
	payments map[int64][]Entry
	stored   map[int64]decimal.Decimal

	chargeReads int
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		accounts: make(map[int64]Account),
		charges:  make(map[int64][]Entry),
		payments: make(map[int64][]Entry),
		stored:   make(map[int64]decimal.Decimal),
	}
}

func (r *memoryLedgerRepo) GetAccount(ctx context.Context, kind AccountKind, id int64) (Account, error) {
	acc, ok := r.accounts[id]
	if !ok || acc.Kind != kind {
		return Account{}, ErrAccountNotFound
	}
	return acc, nil
}

func (r *memoryLedgerRepo) ListCharges(ctx context.Context, kind AccountKind, id int64) ([]Entry, error) {
	r.chargeReads++
	return r.charges[id], nil
}

func (r *memoryLedgerRepo) ListPayments(ctx context.Context, kind AccountKind, id int64) ([]Entry, error) {
	return r.payments[id], nil
}

func (r *memoryLedgerRepo) UpdateStoredBalance(ctx context.Context, kind AccountKind, id int64, balance decimal.Decimal) error {
	if _, ok := r.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	r.stored[id] = balance
	return nil
}

func (r *memoryLedgerRepo) GetStoredBalance(ctx context.Context, kind AccountKind, id int64) (decimal.Decimal, error) {
	if _, ok := r.accounts[id]; !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	return r.stored[id], nil
}

func (r *memoryLedgerRepo) ListAccountIDs(ctx context.Context, kind AccountKind) ([]int64, error) {
	var ids []int64
	for id, acc := range r.accounts {
		if acc.Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func seedCustomer(repo *memoryLedgerRepo) {
	repo.accounts[1] = Account{
		ID:          1,
		Kind:        KindCustomer,
		Name:        "Corner Store",
		Opening:     dec("100"),
		OpeningSide: SideDebit,
	}
	repo.charges[1] = []Entry{
		{ID: 10, Kind: EntrySale, Date: day(1), Amount: dec("250"), Reference: "INV-0010"},
	}
	repo.payments[1] = []Entry{
		{ID: 20, Kind: EntryPayment, Date: day(2), Amount: dec("300"), Reference: "PAY-0020", Method: "cash"},
	}
	repo.stored[1] = dec("999")
}

func TestServiceStatementSyncsStoredBalance(t *testing.T) {
	repo := newMemoryLedgerRepo()
	seedCustomer(repo)
	svc := NewService(repo, NewCache(nil, 0), nil, nil)

	stmt, err := svc.Statement(context.Background(), KindCustomer, 1)
	require.NoError(t, err)

	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("50")))
	// Stale stored balance resynchronized from the computed value.
	require.True(t, repo.stored[1].Equal(dec("50")))
}

func TestServiceStatementUnknownAccount(t *testing.T) {
	repo := newMemoryLedgerRepo()
	svc := NewService(repo, NewCache(nil, 0), nil, nil)

	_, err := svc.Statement(context.Background(), KindCustomer, 42)
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Statement(context.Background(), "warehouse", 1)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestServiceStatementIdempotent(t *testing.T) {
	repo := newMemoryLedgerRepo()
	seedCustomer(repo)
	svc := NewService(repo, NewCache(nil, 0), nil, nil)

	first, err := svc.Statement(context.Background(), KindCustomer, 1)
	require.NoError(t, err)
	second, err := svc.Statement(context.Background(), KindCustomer, 1)
	require.NoError(t, err)

	require.Equal(t, len(first.Lines), len(second.Lines))
	for i := range first.Lines {
		require.Equal(t, first.Lines[i].ID, second.Lines[i].ID)
		require.True(t, first.Lines[i].RunningBalance.Equal(second.Lines[i].RunningBalance))
	}
	require.True(t, first.Totals.CalculatedBalance.Equal(second.Totals.CalculatedBalance))
}

func TestServiceStatementServedFromCacheUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryLedgerRepo()
	seedCustomer(repo)
	svc := NewService(repo, NewCache(client, time.Minute), nil, nil)

	ctx := context.Background()
	_, err := svc.Statement(ctx, KindCustomer, 1)
	require.NoError(t, err)
	require.Equal(t, 1, repo.chargeReads)

	_, err = svc.Statement(ctx, KindCustomer, 1)
	require.NoError(t, err)
	require.Equal(t, 1, repo.chargeReads, "second read should hit the cache")

	svc.Invalidate(ctx, KindCustomer, 1)
	repo.charges[1] = append(repo.charges[1], Entry{ID: 11, Kind: EntrySale, Date: day(3), Amount: dec("40")})

	stmt, err := svc.Statement(ctx, KindCustomer, 1)
	require.NoError(t, err)
	require.Equal(t, 2, repo.chargeReads, "bump must force a recomputation")
	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("90")))
}

func TestServiceBalance(t *testing.T) {
	repo := newMemoryLedgerRepo()
	seedCustomer(repo)
	svc := NewService(repo, NewCache(nil, 0), nil, nil)

	totals, err := svc.Balance(context.Background(), KindCustomer, 1)
	require.NoError(t, err)
	require.True(t, totals.TotalDebits.Equal(dec("250")))
	require.True(t, totals.TotalCredits.Equal(dec("300")))
	require.True(t, totals.CalculatedBalance.Equal(dec("50")))
}

func TestServiceReconcileRepairsDrift(t *testing.T) {
	repo := newMemoryLedgerRepo()
	seedCustomer(repo)
	repo.accounts[2] = Account{ID: 2, Kind: KindCustomer, Name: "Clean", Opening: dec("0"), OpeningSide: SideDebit}
	repo.stored[2] = dec("0")
	svc := NewService(repo, NewCache(nil, 0), nil, nil)

	report, err := svc.Reconcile(context.Background(), KindCustomer)
	require.NoError(t, err)

	require.Equal(t, 2, report.Checked)
	require.Equal(t, 1, report.Repaired)
	require.True(t, repo.stored[1].Equal(dec("50")))
}
