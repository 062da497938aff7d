package customers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

// LedgerPort is the slice of the ledger service the customer module needs:
// serving balances from the computed ledger instead of the stored column.
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

// List returns customers with every balance served from the ledger
// computation, never from the denormalized column alone.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	customers, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	for i := range customers {
		totals, err := s.ledger.Balance(ctx, ledger.KindCustomer, customers[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("customers: balance for %d: %w", customers[i].ID, err)
		}
		customers[i].Balance = totals.CalculatedBalance
	}
	return customers, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	totals, err := s.ledger.Balance(ctx, ledger.KindCustomer, id)
	if err != nil {
		return Customer{}, err
	}
	c.Balance = totals.CalculatedBalance
	return c, nil
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	opening, side, err := parseOpening(req.Opening, req.OpeningSide)
	if err != nil {
		return Customer{}, err
	}
	c := Customer{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Opening:     opening,
		OpeningSide: side,
		Notes:       req.Notes,
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (Customer, error) {
	if id <= 0 {
		return Customer{}, fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Customer{}, err
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
	if req.Notes != nil {
		current.Notes = req.Notes
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	openingChanged := false
	if req.Opening != nil {
		opening, err := decimal.NewFromString(*req.Opening)
		if err != nil || opening.IsNegative() {
			return Customer{}, fmt.Errorf("%w: opening balance must be a non-negative amount", httpx.ErrValidation)
		}
		current.Opening = opening
		openingChanged = true
	}
	if req.OpeningSide != nil {
		current.OpeningSide = ledger.BalanceSide(*req.OpeningSide)
		openingChanged = true
	}

	if err := s.repo.Update(ctx, id, current); err != nil {
		return Customer{}, err
	}
	if openingChanged {
		// The opening balance seeds the whole ledger; any cached
		// statement is stale now.
		s.ledger.Invalidate(ctx, ledger.KindCustomer, id)
	}
	return s.Get(ctx, id)
}

// Delete removes a customer. Accounts with recorded sales or payments are
// kept; deleting them would orphan ledger history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	has, err := s.repo.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: customer has recorded transactions", httpx.ErrConflict)
	}
	return s.repo.Delete(ctx, id)
}

func parseOpening(raw, side string) (decimal.Decimal, ledger.BalanceSide, error) {
	if raw == "" {
		return decimal.Zero, ledger.SideDebit, nil
	}
	opening, err := decimal.NewFromString(raw)
	if err != nil || opening.IsNegative() {
		return decimal.Zero, "", fmt.Errorf("%w: opening balance must be a non-negative amount", httpx.ErrValidation)
	}
	balanceSide := ledger.SideDebit
	if side != "" {
		balanceSide = ledger.BalanceSide(side)
	}
	return opening, balanceSide, nil
}
