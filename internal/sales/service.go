package sales

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

// LedgerPort is the slice of the ledger service a sale mutation needs.
type LedgerPort interface {
	Invalidate(ctx context.Context, kind ledger.AccountKind, accountID int64)
}

type Service struct {
	repo   Repository
	ledger LedgerPort
	logger *slog.Logger
}

func NewService(repo Repository, ledgerPort LedgerPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, ledger: ledgerPort, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (Sale, error) {
	saleDate, err := time.Parse("2006-01-02", req.SaleDate)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: sale_date must be YYYY-MM-DD", httpx.ErrValidation)
	}

	items := make([]SaleItem, 0, len(req.Items))
	total := decimal.Zero
	for i, in := range req.Items {
		qty, err := decimal.NewFromString(in.Quantity)
		if err != nil || qty.IsNegative() || qty.IsZero() {
			return Sale{}, fmt.Errorf("%w: item %d quantity must be positive", httpx.ErrValidation, i+1)
		}
		price, err := decimal.NewFromString(in.UnitPrice)
		if err != nil || price.IsNegative() {
			return Sale{}, fmt.Errorf("%w: item %d unit_price must be a non-negative amount", httpx.ErrValidation, i+1)
		}
		lineTotal := qty.Mul(price)
		total = total.Add(lineTotal)
		items = append(items, SaleItem{
			ProductID: in.ProductID,
			Quantity:  qty,
			UnitPrice: price,
			Total:     lineTotal,
		})
	}

	paid := decimal.Zero
	if req.Paid != "" {
		if paid, err = decimal.NewFromString(req.Paid); err != nil || paid.IsNegative() {
			return Sale{}, fmt.Errorf("%w: paid must be a non-negative amount", httpx.ErrValidation)
		}
	}
	if paid.GreaterThan(total) {
		return Sale{}, fmt.Errorf("%w: paid cannot exceed total", httpx.ErrValidation)
	}

	sale := Sale{
		CustomerID: req.CustomerID,
		SaleDate:   saleDate,
		Total:      total,
		Paid:       paid,
		Note:       req.Note,
		Items:      items,
	}

	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	s.logger.Info("sale recorded", "number", created.Number, "total", created.Total.String())

	s.invalidateLedger(ctx, created.CustomerID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Void deletes the sale, restores stock, and refreshes the customer's
// ledger when the sale was on account.
func (s *Service) Void(ctx context.Context, id int64) error {
	sale, err := s.repo.Void(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateLedger(ctx, sale.CustomerID)
	return nil
}

func (s *Service) invalidateLedger(ctx context.Context, customerID *int64) {
	if customerID == nil {
		return
	}
	s.ledger.Invalidate(ctx, ledger.KindCustomer, *customerID)
}
