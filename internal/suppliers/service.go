package suppliers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

// LedgerPort serves supplier balances from the computed ledger.
type LedgerPort interface {
	Balance(ctx context.Context, kind ledger.AccountKind, id int64) (ledger.Totals, error)
	Invalidate(ctx context.Context, kind ledger.AccountKind, id int64)
}

type Service struct {
	repo   Repository
	ledger LedgerPort
}

func NewService(repo Repository, ledger LedgerPort) *Service {
	return &Service{repo: repo, ledger: ledger}
}

func (s *Service) List(ctx context.Context, req ListSuppliersRequest) ([]Supplier, int, error) {
	suppliers, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	for i := range suppliers {
		totals, err := s.ledger.Balance(ctx, ledger.KindSupplier, suppliers[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("suppliers: balance for %d: %w", suppliers[i].ID, err)
		}
		suppliers[i].Balance = totals.CalculatedBalance
	}
	return suppliers, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	sup, err := s.repo.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	totals, err := s.ledger.Balance(ctx, ledger.KindSupplier, id)
	if err != nil {
		return Supplier{}, err
	}
	sup.Balance = totals.CalculatedBalance
	return sup, nil
}

func (s *Service) Create(ctx context.Context, req CreateSupplierRequest) (Supplier, error) {
	opening := decimal.Zero
	side := ledger.SideDebit
	if req.Opening != "" {
		var err error
		opening, err = decimal.NewFromString(req.Opening)
		if err != nil || opening.IsNegative() {
			return Supplier{}, fmt.Errorf("%w: opening balance must be a non-negative amount", httpx.ErrValidation)
		}
	}
	if req.OpeningSide != "" {
		side = ledger.BalanceSide(req.OpeningSide)
	}
	return s.repo.Create(ctx, Supplier{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Opening:     opening,
		OpeningSide: side,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateSupplierRequest) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Phone != nil {
		current.Phone = req.Phone
	}
	if req.Email != nil {
		current.Email = req.Email
	}
	if req.Address != nil {
		current.Address = req.Address
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	openingChanged := false
	if req.Opening != nil {
		opening, err := decimal.NewFromString(*req.Opening)
		if err != nil || opening.IsNegative() {
			return Supplier{}, fmt.Errorf("%w: opening balance must be a non-negative amount", httpx.ErrValidation)
		}
		current.Opening = opening
		openingChanged = true
	}
	if req.OpeningSide != nil {
		current.OpeningSide = ledger.BalanceSide(*req.OpeningSide)
		openingChanged = true
	}

	if err := s.repo.Update(ctx, id, current); err != nil {
		return Supplier{}, err
	}
	if openingChanged {
		s.ledger.Invalidate(ctx, ledger.KindSupplier, id)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	has, err := s.repo.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: supplier has recorded transactions", httpx.ErrConflict)
	}
	return s.repo.Delete(ctx, id)
}
