package sales

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

type memorySalesRepo struct {
	nextID int64
	sales  map[int64]Sale
}

func newMemorySalesRepo() *memorySalesRepo {
	return &memorySalesRepo{nextID: 1, sales: map[int64]Sale{}}
}

func (m *memorySalesRepo) Create(_ context.Context, sale Sale) (Sale, error) {
	sale.ID = m.nextID
	sale.Number = fmt.Sprintf("INV-%06d", sale.ID)
	m.nextID++
	m.sales[sale.ID] = sale
	return sale, nil
}

func (m *memorySalesRepo) Get(_ context.Context, id int64) (Sale, error) {
	sale, ok := m.sales[id]
	if !ok {
		return Sale{}, httpx.ErrNotFound
	}
	return sale, nil
}

func (m *memorySalesRepo) List(_ context.Context, _ ListSalesRequest) ([]Sale, int, error) {
	out := make([]Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memorySalesRepo) Void(_ context.Context, id int64) (Sale, error) {
	sale, ok := m.sales[id]
	if !ok {
		return Sale{}, httpx.ErrNotFound
	}
	delete(m.sales, id)
	return sale, nil
}

type recordingLedger struct {
	invalidated []int64
}

func (r *recordingLedger) Invalidate(_ context.Context, _ ledger.AccountKind, accountID int64) {
	r.invalidated = append(r.invalidated, accountID)
}

func newSalesService(repo Repository, lp LedgerPort) *Service {
	return NewService(repo, lp, nil)
}

func item(productID int64, qty, price string) SaleItemInput {
	return SaleItemInput{ProductID: productID, Quantity: qty, UnitPrice: price}
}

func TestCreateComputesTotalFromItems(t *testing.T) {
	repo := newMemorySalesRepo()
	lp := &recordingLedger{}
	svc := newSalesService(repo, lp)

	customerID := int64(7)
	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: &customerID,
		SaleDate:   "2026-08-15",
		Items: []SaleItemInput{
			item(1, "2", "150.00"),
			item(2, "1.5", "80"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, "INV-000001", sale.Number)
	require.Equal(t, "420", sale.Total.String())
	require.Equal(t, "0", sale.Paid.String())
	require.Equal(t, []int64{7}, lp.invalidated)
}

func TestCreateWalkInSkipsLedger(t *testing.T) {
	repo := newMemorySalesRepo()
	lp := &recordingLedger{}
	svc := newSalesService(repo, lp)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		SaleDate: "2026-08-15",
		Paid:     "100",
		Items:    []SaleItemInput{item(1, "1", "100")},
	})
	require.NoError(t, err)
	require.Nil(t, sale.CustomerID)
	require.Empty(t, lp.invalidated)
}

func TestCreateRejectsPaidOverTotal(t *testing.T) {
	svc := newSalesService(newMemorySalesRepo(), &recordingLedger{})

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		SaleDate: "2026-08-15",
		Paid:     "500",
		Items:    []SaleItemInput{item(1, "1", "100")},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRejectsBadQuantity(t *testing.T) {
	svc := newSalesService(newMemorySalesRepo(), &recordingLedger{})

	for _, qty := range []string{"0", "-3", "abc"} {
		_, err := svc.Create(context.Background(), CreateSaleRequest{
			SaleDate: "2026-08-15",
			Items:    []SaleItemInput{item(1, qty, "100")},
		})
		require.Error(t, err, "quantity %q", qty)
		require.True(t, errors.Is(err, httpx.ErrValidation))
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := newSalesService(newMemorySalesRepo(), &recordingLedger{})

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		SaleDate: "15/08/2026",
		Items:    []SaleItemInput{item(1, "1", "10")},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestVoidInvalidatesCustomerLedger(t *testing.T) {
	repo := newMemorySalesRepo()
	lp := &recordingLedger{}
	svc := newSalesService(repo, lp)

	customerID := int64(4)
	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: &customerID,
		SaleDate:   "2026-08-15",
		Items:      []SaleItemInput{item(1, "1", "60")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), sale.ID))
	require.Equal(t, []int64{4, 4}, lp.invalidated)

	_, err = svc.Get(context.Background(), sale.ID)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestVoidUnknownSale(t *testing.T) {
	svc := newSalesService(newMemorySalesRepo(), &recordingLedger{})
	err := svc.Void(context.Background(), 99)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}
