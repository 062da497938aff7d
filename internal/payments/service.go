package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
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

func (s *Service) Create(ctx context.Context, req CreatePaymentRequest) (Payment, error) {
	direction := Direction(req.Direction)
	if !direction.Valid() {
		return Payment{}, fmt.Errorf("%w: direction must be in or out", httpx.ErrValidation)
	}

	paidAt, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return Payment{}, fmt.Errorf("%w: payment_date must be YYYY-MM-DD", httpx.ErrValidation)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return Payment{}, fmt.Errorf("%w: amount must be a positive amount", httpx.ErrValidation)
	}

	payment := Payment{
		Number:      newPaymentNumber(),
		Direction:   direction,
		AccountID:   req.AccountID,
		PaymentDate: paidAt,
		Amount:      amount,
		Method:      req.Method,
		Note:        req.Note,
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return Payment{}, err
	}
	s.logger.Info("payment recorded",
		"number", created.Number,
		"direction", string(created.Direction),
		"amount", created.Amount.String())

	s.ledger.Invalidate(ctx, created.Direction.AccountKind(), created.AccountID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	payment, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.ledger.Invalidate(ctx, payment.Direction.AccountKind(), payment.AccountID)
	return nil
}

// newPaymentNumber builds a short random receipt number. Uniqueness is
// still enforced by the database.
func newPaymentNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PAY-" + id[:10]
}
