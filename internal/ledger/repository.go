package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RepositoryPort defines the storage reads the ledger needs: the account
// seed plus two independent entry lists, both filtered by account id.
type RepositoryPort interface {
	GetAccount(ctx context.Context, kind AccountKind, id int64) (Account, error)
	ListCharges(ctx context.Context, kind AccountKind, id int64) ([]Entry, error)
	ListPayments(ctx context.Context, kind AccountKind, id int64) ([]Entry, error)
	UpdateStoredBalance(ctx context.Context, kind AccountKind, id int64, balance decimal.Decimal) error
	ListAccountIDs(ctx context.Context, kind AccountKind) ([]int64, error)
	GetStoredBalance(ctx context.Context, kind AccountKind, id int64) (decimal.Decimal, error)
}

// Repository provides PostgreSQL backed reads for the ledger engine.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func accountTable(kind AccountKind) string {
	if kind == KindSupplier {
		return "suppliers"
	}
	return "customers"
}

// GetAccount loads the ledger seed for one customer or supplier.
func (r *Repository) GetAccount(ctx context.Context, kind AccountKind, id int64) (Account, error) {
	query := fmt.Sprintf(`
		SELECT id, name, opening_balance::text, opening_balance_side
		FROM %s
		WHERE id = $1`, accountTable(kind))

	var (
		acc     Account
		opening string
		side    string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(&acc.ID, &acc.Name, &opening, &side)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("ledger: get account: %w", err)
	}

	acc.Kind = kind
	acc.OpeningSide = BalanceSide(side)
	acc.Opening, err = decimal.NewFromString(opening)
	if err != nil {
		return Account{}, fmt.Errorf("ledger: parse opening balance: %w", err)
	}
	return acc, nil
}

// ListCharges returns the account's debit-side documents: sales for
// customers, purchases for suppliers.
func (r *Repository) ListCharges(ctx context.Context, kind AccountKind, id int64) ([]Entry, error) {
	var query string
	var entryKind EntryKind
	switch kind {
	case KindSupplier:
		query = `
			SELECT id, purchase_date, total::text, number
			FROM purchases
			WHERE supplier_id = $1
			ORDER BY purchase_date, id`
		entryKind = EntryPurchase
	default:
		query = `
			SELECT id, sale_date, total::text, number
			FROM sales
			WHERE customer_id = $1
			ORDER BY sale_date, id`
		entryKind = EntrySale
	}

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("ledger: list charges: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Date, &amount, &e.Reference); err != nil {
			return nil, fmt.Errorf("ledger: scan charge: %w", err)
		}
		e.Kind = entryKind
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse charge amount: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListPayments returns the account's credit-side documents.
func (r *Repository) ListPayments(ctx context.Context, kind AccountKind, id int64) ([]Entry, error) {
	direction := "in"
	if kind == KindSupplier {
		direction = "out"
	}
	query := `
		SELECT id, paid_at, amount::text, number, method
		FROM payments
		WHERE account_id = $1 AND direction = $2
		ORDER BY paid_at, id`

	rows, err := r.pool.Query(ctx, query, id, direction)
	if err != nil {
		return nil, fmt.Errorf("ledger: list payments: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Date, &amount, &e.Reference, &e.Method); err != nil {
			return nil, fmt.Errorf("ledger: scan payment: %w", err)
		}
		e.Kind = EntryPayment
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse payment amount: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateStoredBalance writes the freshly computed balance back onto the
// account row. Last writer wins: concurrent recomputations over the same
// transactions produce the same value.
func (r *Repository) UpdateStoredBalance(ctx context.Context, kind AccountKind, id int64, balance decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET balance = $1, updated_at = NOW() WHERE id = $2`, accountTable(kind))
	tag, err := r.pool.Exec(ctx, query, balance.String(), id)
	if err != nil {
		return fmt.Errorf("ledger: update stored balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetStoredBalance reads the denormalized balance column, used only to
// detect drift against the computed value.
func (r *Repository) GetStoredBalance(ctx context.Context, kind AccountKind, id int64) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT balance::text FROM %s WHERE id = $1`, accountTable(kind))
	var raw string
	err := r.pool.QueryRow(ctx, query, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: get stored balance: %w", err)
	}
	return decimal.NewFromString(raw)
}

// ListAccountIDs returns every account id of a kind, for reconciliation sweeps.
func (r *Repository) ListAccountIDs(ctx context.Context, kind AccountKind) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, accountTable(kind))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger: list account ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ledger: scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
