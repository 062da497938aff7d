package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

type memoryCustomersRepo struct {
	nextID       int64
	customers    map[int64]Customer
	transactions map[int64]bool
}

func newMemoryCustomersRepo() *memoryCustomersRepo {
	return &memoryCustomersRepo{
		nextID:       1,
		customers:    map[int64]Customer{},
		transactions: map[int64]bool{},
	}
}

func (m *memoryCustomersRepo) List(_ context.Context, _ ListCustomersRequest) ([]Customer, int, error) {
	out := make([]Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memoryCustomersRepo) Get(_ context.Context, id int64) (Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return Customer{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *memoryCustomersRepo) Create(_ context.Context, c Customer) (Customer, error) {
	for _, existing := range m.customers {
		if existing.Code == c.Code {
			return Customer{}, httpx.ErrDuplicate
		}
	}
	c.ID = m.nextID
	c.IsActive = true
	m.nextID++
	m.customers[c.ID] = c
	return c, nil
}

func (m *memoryCustomersRepo) Update(_ context.Context, id int64, c Customer) error {
	if _, ok := m.customers[id]; !ok {
		return httpx.ErrNotFound
	}
	c.ID = id
	m.customers[id] = c
	return nil
}

func (m *memoryCustomersRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.customers[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *memoryCustomersRepo) HasTransactions(_ context.Context, id int64) (bool, error) {
	return m.transactions[id], nil
}

type stubLedger struct {
	balances    map[int64]decimal.Decimal
	invalidated []int64
}

func (s *stubLedger) Balance(_ context.Context, _ ledger.AccountKind, id int64) (ledger.Totals, error) {
	return ledger.Totals{CalculatedBalance: s.balances[id]}, nil
}

func (s *stubLedger) Invalidate(_ context.Context, _ ledger.AccountKind, id int64) {
	s.invalidated = append(s.invalidated, id)
}

func TestGetServesLedgerBalance(t *testing.T) {
	repo := newMemoryCustomersRepo()
	lp := &stubLedger{balances: map[int64]decimal.Decimal{}}
	svc := NewService(repo, lp)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{
		Code:    "CUST-01",
		Name:    "Hills Hardware",
		Opening: "200",
	})
	require.NoError(t, err)

	// The stored column says one thing, the ledger another. The ledger wins.
	lp.balances[created.ID] = decimal.RequireFromString("350.50")

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "350.5", got.Balance.String())
}

func TestCreateRejectsNegativeOpening(t *testing.T) {
	svc := NewService(newMemoryCustomersRepo(), &stubLedger{})

	_, err := svc.Create(context.Background(), CreateCustomerRequest{
		Code:    "CUST-02",
		Name:    "Negative Nancy",
		Opening: "-10",
	})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryCustomersRepo(), &stubLedger{})

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Code: "C1", Name: "First"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCustomerRequest{Code: "C1", Name: "Second"})
	require.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestUpdateOpeningInvalidatesLedger(t *testing.T) {
	repo := newMemoryCustomersRepo()
	lp := &stubLedger{balances: map[int64]decimal.Decimal{}}
	svc := NewService(repo, lp)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Code: "C1", Name: "First", Opening: "100"})
	require.NoError(t, err)

	newOpening := "250"
	_, err = svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Opening: &newOpening})
	require.NoError(t, err)
	require.Equal(t, []int64{created.ID}, lp.invalidated)
}

func TestUpdateNameLeavesLedgerAlone(t *testing.T) {
	repo := newMemoryCustomersRepo()
	lp := &stubLedger{balances: map[int64]decimal.Decimal{}}
	svc := NewService(repo, lp)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Code: "C1", Name: "First"})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Empty(t, lp.invalidated)
}

func TestDeleteRefusedWithHistory(t *testing.T) {
	repo := newMemoryCustomersRepo()
	svc := NewService(repo, &stubLedger{balances: map[int64]decimal.Decimal{}})

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Code: "C1", Name: "First"})
	require.NoError(t, err)
	repo.transactions[created.ID] = true

	err = svc.Delete(context.Background(), created.ID)
	require.True(t, errors.Is(err, httpx.ErrConflict))

	repo.transactions[created.ID] = false
	require.NoError(t, svc.Delete(context.Background(), created.ID))
}
