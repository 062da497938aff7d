package purchases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

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

func (s *Service) Create(ctx context.Context, req CreatePurchaseRequest) (Purchase, error) {
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return Purchase{}, fmt.Errorf("%w: purchase_date must be YYYY-MM-DD", httpx.ErrValidation)
	}

	items := make([]PurchaseItem, 0, len(req.Items))
	total := decimal.Zero
	for i, in := range req.Items {
		qty, err := decimal.NewFromString(in.Quantity)
		if err != nil || qty.IsNegative() || qty.IsZero() {
			return Purchase{}, fmt.Errorf("%w: item %d quantity must be positive", httpx.ErrValidation, i+1)
		}
		cost, err := decimal.NewFromString(in.UnitCost)
		if err != nil || cost.IsNegative() {
			return Purchase{}, fmt.Errorf("%w: item %d unit_cost must be a non-negative amount", httpx.ErrValidation, i+1)
		}
		lineTotal := qty.Mul(cost)
		total = total.Add(lineTotal)
		items = append(items, PurchaseItem{
			ProductID: in.ProductID,
			Quantity:  qty,
			UnitCost:  cost,
			Total:     lineTotal,
		})
	}

	paid := decimal.Zero
	if req.Paid != "" {
		if paid, err = decimal.NewFromString(req.Paid); err != nil || paid.IsNegative() {
			return Purchase{}, fmt.Errorf("%w: paid must be a non-negative amount", httpx.ErrValidation)
		}
	}
	if paid.GreaterThan(total) {
		return Purchase{}, fmt.Errorf("%w: paid cannot exceed total", httpx.ErrValidation)
	}

	purchase := Purchase{
		SupplierID:   req.SupplierID,
		PurchaseDate: purchaseDate,
		Total:        total,
		Paid:         paid,
		Note:         req.Note,
		Items:        items,
	}

	created, err := s.repo.Create(ctx, purchase)
	if err != nil {
		return Purchase{}, err
	}
	s.logger.Info("purchase recorded", "number", created.Number, "total", created.Total.String())

	s.ledger.Invalidate(ctx, ledger.KindSupplier, created.SupplierID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Void(ctx context.Context, id int64) error {
	purchase, err := s.repo.Void(ctx, id)
	if err != nil {
		return err
	}
	s.ledger.Invalidate(ctx, ledger.KindSupplier, purchase.SupplierID)
	return nil
}
