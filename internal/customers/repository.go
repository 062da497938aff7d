package customers

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
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
	HasTransactions(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const customerColumns = `id, code, name, phone, email, address,
	opening_balance::text, opening_balance_side, balance::text,
	notes, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM customers WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.Search != nil && *req.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+*req.Search+"%")
	}
	if req.IsActive != nil {
		argCount++
		clause := ` AND is_active = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
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
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	query := `
		INSERT INTO customers (code, name, phone, email, address,
			opening_balance, opening_balance_side, balance,
			notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $10)
		RETURNING id`
	now := time.Now()
	// A fresh account's balance is exactly its signed opening balance.
	err := r.db.QueryRow(ctx, query,
		c.Code, c.Name, c.Phone, c.Email, c.Address,
		c.Opening.String(), string(c.OpeningSide), signedOpening(c).String(),
		c.Notes, now,
	).Scan(&c.ID)
	if err != nil {
		return Customer{}, mapPgError("customers: create", err)
	}
	c.Balance = signedOpening(c)
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4,
			opening_balance = $5, opening_balance_side = $6,
			notes = $7, is_active = $8, updated_at = $9
		WHERE id = $10`
	tag, err := r.db.Exec(ctx, query,
		c.Name, c.Phone, c.Email, c.Address,
		c.Opening.String(), string(c.OpeningSide),
		c.Notes, c.IsActive, time.Now(), id)
	if err != nil {
		return mapPgError("customers: update", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapPgError("customers: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) HasTransactions(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM sales WHERE customer_id = $1)
			OR EXISTS (SELECT 1 FROM payments WHERE account_id = $1 AND direction = 'in')`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("customers: has transactions: %w", err)
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

func signedOpening(c Customer) decimal.Decimal {
	if c.OpeningSide == ledger.SideCredit {
		return c.Opening.Neg()
	}
	return c.Opening
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var (
		c                Customer
		opening, balance string
		side             string
	)
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Phone, &c.Email, &c.Address,
		&opening, &side, &balance, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Customer{}, err
	}
	c.OpeningSide = ledger.BalanceSide(side)
	if c.Opening, err = decimal.NewFromString(opening); err != nil {
		return Customer{}, fmt.Errorf("customers: parse opening: %w", err)
	}
	if c.Balance, err = decimal.NewFromString(balance); err != nil {
		return Customer{}, fmt.Errorf("customers: parse balance: %w", err)
	}
	return c, nil
}

func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
