package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/stockpoint/stockpoint/internal/observability"
)

// Service produces ledger statements from the authoritative transaction
// tables. It holds no state across calls beyond caching: every statement is
// recomputed from storage, and the stored balance column is resynchronized
// from the computed value so the two can never quietly drift apart.
type Service struct {
	repo    RepositoryPort
	cache   *Cache
	metrics *observability.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

// NewService builds a Service instance. Cache and metrics may be nil.
func NewService(repo RepositoryPort, cache *Cache, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// Statement returns the account's full chronological statement. Concurrent
// requests for the same account collapse into one computation.
func (s *Service) Statement(ctx context.Context, kind AccountKind, id int64) (Statement, error) {
	if !kind.Valid() {
		return Statement{}, fmt.Errorf("%w: unknown account kind %q", ErrAccountNotFound, kind)
	}
	if id <= 0 {
		return Statement{}, ErrAccountNotFound
	}

	key := fmt.Sprintf("%s:%d", kind, id)
	resultCh := s.group.DoChan(key, func() (any, error) {
		stmt, err := s.statement(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		return stmt, nil
	})
	select {
	case <-ctx.Done():
		return Statement{}, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return Statement{}, res.Err
		}
		return res.Val.(Statement), nil
	}
}

func (s *Service) statement(ctx context.Context, kind AccountKind, id int64) (Statement, error) {
	cacheKey, err := s.cache.StatementKey(ctx, kind, id)
	if err != nil {
		// Cache trouble must not take down reads; fall through to a
		// direct computation.
		s.logger.Warn("ledger cache key", slog.Any("error", err))
		return s.compute(ctx, kind, id)
	}

	var stmt Statement
	err = s.cache.FetchJSON(ctx, cacheKey, &stmt, func(ctx context.Context) (any, error) {
		fresh, err := s.compute(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return Statement{}, err
	}
	return stmt, nil
}

// compute performs the two storage reads, runs the fold, and writes the
// calculated balance back onto the account row.
func (s *Service) compute(ctx context.Context, kind AccountKind, id int64) (Statement, error) {
	account, err := s.repo.GetAccount(ctx, kind, id)
	if err != nil {
		return Statement{}, err
	}

	charges, err := s.repo.ListCharges(ctx, kind, id)
	if err != nil {
		return Statement{}, err
	}
	payments, err := s.repo.ListPayments(ctx, kind, id)
	if err != nil {
		return Statement{}, err
	}

	entries := make([]Entry, 0, len(charges)+len(payments))
	entries = append(entries, charges...)
	entries = append(entries, payments...)

	stmt, err := Compute(account, entries)
	if err != nil {
		return Statement{}, err
	}

	if err := s.repo.UpdateStoredBalance(ctx, kind, id, stmt.Totals.CalculatedBalance); err != nil {
		// The statement itself is correct regardless; a failed writeback
		// only leaves the denormalized column stale until the next read
		// or reconciliation sweep.
		s.logger.Warn("ledger balance writeback",
			slog.String("kind", string(kind)),
			slog.Int64("account", id),
			slog.Any("error", err))
	}

	s.metrics.ObserveStatement(string(kind))
	return stmt, nil
}

// Balance returns just the calculated closing balance, recomputed from the
// ledger so listing endpoints never serve a stale figure.
func (s *Service) Balance(ctx context.Context, kind AccountKind, id int64) (Totals, error) {
	stmt, err := s.Statement(ctx, kind, id)
	if err != nil {
		return Totals{}, err
	}
	return stmt.Totals, nil
}

// Invalidate drops the cached statement for an account. Called by the
// sales, purchase and payment modules after any write touching the account.
func (s *Service) Invalidate(ctx context.Context, kind AccountKind, id int64) {
	if err := s.cache.Bump(ctx, kind, id); err != nil {
		s.logger.Warn("ledger cache bump",
			slog.String("kind", string(kind)),
			slog.Int64("account", id),
			slog.Any("error", err))
	}
}

// ReconcileReport summarises one balance reconciliation sweep.
type ReconcileReport struct {
	Checked  int
	Repaired int
}

// Reconcile recomputes every account's ledger balance and repairs any
// stored balance that disagrees with it.
func (s *Service) Reconcile(ctx context.Context, kind AccountKind) (ReconcileReport, error) {
	ids, err := s.repo.ListAccountIDs(ctx, kind)
	if err != nil {
		return ReconcileReport{}, err
	}

	var report ReconcileReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		stored, err := s.repo.GetStoredBalance(ctx, kind, id)
		if err != nil {
			return report, err
		}

		account, err := s.repo.GetAccount(ctx, kind, id)
		if err != nil {
			return report, err
		}
		charges, err := s.repo.ListCharges(ctx, kind, id)
		if err != nil {
			return report, err
		}
		payments, err := s.repo.ListPayments(ctx, kind, id)
		if err != nil {
			return report, err
		}
		stmt, err := Compute(account, append(charges, payments...))
		if err != nil {
			return report, err
		}

		report.Checked++
		if !stored.Equal(stmt.Totals.CalculatedBalance) {
			if err := s.repo.UpdateStoredBalance(ctx, kind, id, stmt.Totals.CalculatedBalance); err != nil {
				return report, err
			}
			s.metrics.ObserveDriftRepair()
			s.logger.Info("repaired drifted balance",
				slog.String("kind", string(kind)),
				slog.Int64("account", id),
				slog.String("stored", stored.String()),
				slog.String("computed", stmt.Totals.CalculatedBalance.String()))
			report.Repaired++
		}
	}
	return report, nil
}
