package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, req ListSuppliersRequest) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, s Supplier) error
	Delete(ctx context.Context, id int64) error
	HasTransactions(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, code, name, phone, email, address,
	opening_balance::text, opening_balance_side, balance::text,
	is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, req ListSuppliersRequest) ([]Supplier, int, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.Search != nil && *req.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+*req.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("suppliers: count: %w", err)
	}

	query += ` ORDER BY ` + sortOrder(req.SortBy, req.SortDir)
	if req.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, req.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, req.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	query := `
		INSERT INTO suppliers (code, name, phone, email, address,
			opening_balance, opening_balance_side, balance,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)
		RETURNING id`
	now := time.Now()
	balance := s.Opening
	if s.OpeningSide == ledger.SideCredit {
		balance = s.Opening.Neg()
	}
	err := r.db.QueryRow(ctx, query,
		s.Code, s.Name, s.Phone, s.Email, s.Address,
		s.Opening.String(), string(s.OpeningSide), balance.String(), now,
	).Scan(&s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Supplier{}, httpx.ErrDuplicate
		}
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	s.Balance = balance
	s.IsActive = true
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, phone = $2, email = $3, address = $4,
			opening_balance = $5, opening_balance_side = $6,
			is_active = $7, updated_at = $8
		WHERE id = $9`
	tag, err := r.db.Exec(ctx, query,
		s.Name, s.Phone, s.Email, s.Address,
		s.Opening.String(), string(s.OpeningSide),
		s.IsActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) HasTransactions(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE supplier_id = $1)
			OR EXISTS (SELECT 1 FROM payments WHERE account_id = $1 AND direction = 'out')`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("suppliers: has transactions: %w", err)
	}
	return exists, nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "balance":
		return "balance " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var (
		s                Supplier
		opening, balance string
		side             string
	)
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Phone, &s.Email, &s.Address,
		&opening, &side, &balance, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Supplier{}, err
	}
	s.OpeningSide = ledger.BalanceSide(side)
	if s.Opening, err = decimal.NewFromString(opening); err != nil {
		return Supplier{}, fmt.Errorf("suppliers: parse opening: %w", err)
	}
	if s.Balance, err = decimal.NewFromString(balance); err != nil {
		return Supplier{}, fmt.Errorf("suppliers: parse balance: %w", err)
	}
	return s, nil
}
