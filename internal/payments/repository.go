package payments

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

	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

const paymentColumns = `id, number, direction, account_id, paid_at, amount::text, method, note, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, payment Payment) (Payment, error)
	Get(ctx context.Context, id int64) (Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error)
	Delete(ctx context.Context, id int64) (Payment, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Create(ctx context.Context, payment Payment) (Payment, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (number, direction, account_id, paid_at, amount, method, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`,
		payment.Number, payment.Direction, payment.AccountID, payment.PaymentDate,
		payment.Amount.String(), payment.Method, payment.Note, now,
	).Scan(&payment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Payment{}, fmt.Errorf("%w: payment number %s", httpx.ErrDuplicate, payment.Number)
			case "23503":
				return Payment{}, fmt.Errorf("%w: account %d", httpx.ErrNotFound, payment.AccountID)
			}
		}
		return Payment{}, fmt.Errorf("payments: insert: %w", err)
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now
	return payment, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, httpx.ErrNotFound
	}
	if err != nil {
		return Payment{}, fmt.Errorf("payments: get: %w", err)
	}
	return payment, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM payments WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.Direction != nil {
		argCount++
		clause := ` AND direction = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.Direction)
	}
	if req.AccountID != nil {
		argCount++
		clause := ` AND account_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.AccountID)
	}
	if req.FromDate != nil {
		argCount++
		clause := ` AND paid_at >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.FromDate)
	}
	if req.ToDate != nil {
		argCount++
		clause := ` AND paid_at <= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.ToDate)
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("payments: count: %w", err)
	}

	query += ` ORDER BY paid_at DESC, id DESC`
	if req.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, req.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("payments: list: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("payments: scan: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, totalCount, rows.Err()
}

// Delete removes the payment and returns it so the caller can refresh
// the affected ledger.
func (r *repository) Delete(ctx context.Context, id int64) (Payment, error) {
	payment, err := r.Get(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return Payment{}, fmt.Errorf("payments: delete: %w", err)
	}
	return payment, nil
}

func scanPayment(row pgx.Row) (Payment, error) {
	var (
		payment Payment
		amount  string
	)
	err := row.Scan(&payment.ID, &payment.Number, &payment.Direction, &payment.AccountID,
		&payment.PaymentDate, &amount, &payment.Method, &payment.Note,
		&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return Payment{}, err
	}
	if payment.Amount, err = decimal.NewFromString(amount); err != nil {
		return Payment{}, fmt.Errorf("payments: parse amount: %w", err)
	}
	return payment, nil
}
