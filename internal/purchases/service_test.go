package purchases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

type memoryPurchasesRepo struct {
	nextID    int64
	purchases map[int64]Purchase
}

func newMemoryPurchasesRepo() *memoryPurchasesRepo {
	return &memoryPurchasesRepo{nextID: 1, purchases: map[int64]Purchase{}}
}

func (m *memoryPurchasesRepo) Create(_ context.Context, purchase Purchase) (Purchase, error) {
	purchase.ID = m.nextID
	purchase.Number = fmt.Sprintf("PUR-%06d", purchase.ID)
	m.nextID++
	m.purchases[purchase.ID] = purchase
	return purchase, nil
}

func (m *memoryPurchasesRepo) Get(_ context.Context, id int64) (Purchase, error) {
	purchase, ok := m.purchases[id]
	if !ok {
		return Purchase{}, httpx.ErrNotFound
	}
	return purchase, nil
}

func (m *memoryPurchasesRepo) List(_ context.Context, _ ListPurchasesRequest) ([]Purchase, int, error) {
	out := make([]Purchase, 0, len(m.purchases))
	for _, p := range m.purchases {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryPurchasesRepo) Void(_ context.Context, id int64) (Purchase, error) {
	purchase, ok := m.purchases[id]
	if !ok {
		return Purchase{}, httpx.ErrNotFound
	}
	delete(m.purchases, id)
	return purchase, nil
}

type recordingLedger struct {
	kinds []ledger.AccountKind
	ids   []int64
}

func (r *recordingLedger) Invalidate(_ context.Context, kind ledger.AccountKind, accountID int64) {
	r.kinds = append(r.kinds, kind)
	r.ids = append(r.ids, accountID)
}

func TestCreateComputesTotalAndInvalidatesSupplier(t *testing.T) {
	repo := newMemoryPurchasesRepo()
	lp := &recordingLedger{}
	svc := NewService(repo, lp, nil)

	purchase, err := svc.Create(context.Background(), CreatePurchaseRequest{
		SupplierID:   3,
		PurchaseDate: "2026-07-01",
		Items: []PurchaseItemInput{
			{ProductID: 1, Quantity: "10", UnitCost: "12.50"},
			{ProductID: 2, Quantity: "4", UnitCost: "5"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "PUR-000001", purchase.Number)
	require.Equal(t, "145", purchase.Total.String())
	require.Equal(t, []ledger.AccountKind{ledger.KindSupplier}, lp.kinds)
	require.Equal(t, []int64{3}, lp.ids)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	svc := NewService(newMemoryPurchasesRepo(), &recordingLedger{}, nil)

	_, err := svc.Create(context.Background(), CreatePurchaseRequest{
		SupplierID:   3,
		PurchaseDate: "2026-07-01",
		Items:        []PurchaseItemInput{{ProductID: 1, Quantity: "0", UnitCost: "5"}},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRejectsPaidOverTotal(t *testing.T) {
	svc := NewService(newMemoryPurchasesRepo(), &recordingLedger{}, nil)

	_, err := svc.Create(context.Background(), CreatePurchaseRequest{
		SupplierID:   3,
		PurchaseDate: "2026-07-01",
		Paid:         "1000",
		Items:        []PurchaseItemInput{{ProductID: 1, Quantity: "1", UnitCost: "5"}},
	})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestVoidInvalidatesSupplierLedger(t *testing.T) {
	repo := newMemoryPurchasesRepo()
	lp := &recordingLedger{}
	svc := NewService(repo, lp, nil)

	purchase, err := svc.Create(context.Background(), CreatePurchaseRequest{
		SupplierID:   9,
		PurchaseDate: "2026-07-01",
		Items:        []PurchaseItemInput{{ProductID: 1, Quantity: "2", UnitCost: "30"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), purchase.ID))
	require.Equal(t, []int64{9, 9}, lp.ids)

	_, err = svc.Get(context.Background(), purchase.ID)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}
