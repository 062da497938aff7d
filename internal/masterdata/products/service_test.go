package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpoint/stockpoint/internal/masterdata/shared"
)

type memoryProductsRepo struct {
	nextID   int64
	products map[int64]Product
}

func newMemoryProductsRepo() *memoryProductsRepo {
	return &memoryProductsRepo{nextID: 1, products: map[int64]Product{}}
}

func (m *memoryProductsRepo) List(_ context.Context, _ shared.ListFilters) ([]Product, int, error) {
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryProductsRepo) Get(_ context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryProductsRepo) Create(_ context.Context, p Product) (Product, error) {
	for _, existing := range m.products {
		if existing.Code == p.Code {
			return Product{}, shared.ErrDuplicate
		}
	}
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	return p, nil
}

func (m *memoryProductsRepo) Update(_ context.Context, id int64, p Product) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *memoryProductsRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func validForm() ProductForm {
	return ProductForm{
		Code:       "SKU-100",
		Name:       "Box Wrench",
		CategoryID: 1,
		Unit:       "pcs",
		Cost:       "12.40",
		Price:      "18.00",
		Stock:      "25",
		IsActive:   true,
	}
}

func TestCreateParsesAmounts(t *testing.T) {
	svc := NewService(newMemoryProductsRepo())

	p, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, "12.4", p.Cost.String())
	require.Equal(t, "18", p.Price.String())
	require.Equal(t, "25", p.Stock.String())
	require.True(t, p.ReorderLevel.IsZero())
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newMemoryProductsRepo())

	form := validForm()
	form.Price = "-1"
	_, err := svc.Create(context.Background(), form)
	require.True(t, errors.Is(err, shared.ErrRequiredField))
}

func TestCreateRejectsMalformedCost(t *testing.T) {
	svc := NewService(newMemoryProductsRepo())

	form := validForm()
	form.Cost = "cheap"
	_, err := svc.Create(context.Background(), form)
	require.True(t, errors.Is(err, shared.ErrRequiredField))
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryProductsRepo())

	_, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validForm())
	require.True(t, errors.Is(err, shared.ErrDuplicate))
}

func TestGetInvalidID(t *testing.T) {
	svc := NewService(newMemoryProductsRepo())

	_, err := svc.Get(context.Background(), 0)
	require.True(t, errors.Is(err, shared.ErrInvalidID))
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newMemoryProductsRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	form := validForm()
	form.Name = "Ratchet Wrench"
	form.Price = "21.50"
	require.NoError(t, svc.Update(context.Background(), p.ID, form))

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, "Ratchet Wrench", got.Name)
	require.Equal(t, "21.5", got.Price.String())
}
