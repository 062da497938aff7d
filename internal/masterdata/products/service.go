package products

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	product, err := fromForm(form)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	product, err := fromForm(form)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, product)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func fromForm(form ProductForm) (Product, error) {
	cost, err := parseAmount(form.Cost, "cost")
	if err != nil {
		return Product{}, err
	}
	price, err := parseAmount(form.Price, "price")
	if err != nil {
		return Product{}, err
	}
	stock := decimal.Zero
	if form.Stock != "" {
		if stock, err = parseAmount(form.Stock, "stock"); err != nil {
			return Product{}, err
		}
	}
	reorder := decimal.Zero
	if form.ReorderLevel != "" {
		if reorder, err = parseAmount(form.ReorderLevel, "reorder_level"); err != nil {
			return Product{}, err
		}
	}
	return Product{
		Code:         form.Code,
		Name:         form.Name,
		CategoryID:   form.CategoryID,
		Unit:         form.Unit,
		Cost:         cost,
		Price:        price,
		Stock:        stock,
		ReorderLevel: reorder,
		IsActive:     form.IsActive,
	}, nil
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal amount: %w", field, shared.ErrRequiredField)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative: %w", field, shared.ErrRequiredField)
	}
	return d, nil
}
