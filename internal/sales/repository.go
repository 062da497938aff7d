package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/platform/db"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

// ErrInsufficientStock is returned when a sale would drive a product's
// stock below zero. It maps to a conflict response.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", httpx.ErrConflict)

type Repository interface {
	Create(ctx context.Context, sale Sale) (Sale, error)
	Get(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error)
	Void(ctx context.Context, id int64) (Sale, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Create inserts the sale, its line items, and the matching stock
// decrements in one transaction.
func (r *repository) Create(ctx context.Context, sale Sale) (Sale, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		err := tx.QueryRow(ctx, `
			INSERT INTO sales (number, customer_id, sale_date, total, paid, note, created_at, updated_at)
			VALUES ('', $1, $2, $3, $4, $5, $6, $6)
			RETURNING id`,
			sale.CustomerID, sale.SaleDate, sale.Total.String(), sale.Paid.String(), sale.Note, now,
		).Scan(&sale.ID)
		if err != nil {
			return fmt.Errorf("sales: insert: %w", err)
		}

		sale.Number = fmt.Sprintf("INV-%06d", sale.ID)
		if _, err := tx.Exec(ctx, `UPDATE sales SET number = $1 WHERE id = $2`, sale.Number, sale.ID); err != nil {
			return fmt.Errorf("sales: set number: %w", err)
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			item.SaleID = sale.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				sale.ID, item.ProductID, item.Quantity.String(), item.UnitPrice.String(), item.Total.String(),
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("sales: insert item: %w", err)
			}

			tag, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock - $1, updated_at = NOW()
				WHERE id = $2 AND stock >= $1`,
				item.Quantity.String(), item.ProductID)
			if err != nil {
				return fmt.Errorf("sales: decrement stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
			}
		}

		sale.CreatedAt = now
		sale.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	var (
		sale        Sale
		total, paid string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, customer_id, sale_date, total::text, paid::text, note, created_at, updated_at
		FROM sales WHERE id = $1`, id,
	).Scan(&sale.ID, &sale.Number, &sale.CustomerID, &sale.SaleDate, &total, &paid, &sale.Note, &sale.CreatedAt, &sale.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, httpx.ErrNotFound
	}
	if err != nil {
		return Sale{}, fmt.Errorf("sales: get: %w", err)
	}
	if sale.Total, err = decimal.NewFromString(total); err != nil {
		return Sale{}, fmt.Errorf("sales: parse total: %w", err)
	}
	if sale.Paid, err = decimal.NewFromString(paid); err != nil {
		return Sale{}, fmt.Errorf("sales: parse paid: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	sale.Items = items
	return sale, nil
}

func (r *repository) listItems(ctx context.Context, saleID int64) ([]SaleItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, p.name, i.quantity::text, i.unit_price::text, i.total::text
		FROM sale_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("sales: list items: %w", err)
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var (
			item                 SaleItem
			qty, price, lineTotal string
		)
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &qty, &price, &lineTotal)
		if err != nil {
			return nil, fmt.Errorf("sales: scan item: %w", err)
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("sales: parse quantity: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("sales: parse unit price: %w", err)
		}
		if item.Total, err = decimal.NewFromString(lineTotal); err != nil {
			return nil, fmt.Errorf("sales: parse line total: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	query := `SELECT id, number, customer_id, sale_date, total::text, paid::text, note, created_at, updated_at FROM sales WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM sales WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.CustomerID != nil {
		argCount++
		clause := ` AND customer_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.CustomerID)
	}
	if req.FromDate != nil {
		argCount++
		clause := ` AND sale_date >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.FromDate)
	}
	if req.ToDate != nil {
		argCount++
		clause := ` AND sale_date <= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.ToDate)
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("sales: count: %w", err)
	}

	query += ` ORDER BY sale_date DESC, id DESC`
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
		return nil, 0, fmt.Errorf("sales: list: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var (
			sale        Sale
			total, paid string
		)
		err := rows.Scan(&sale.ID, &sale.Number, &sale.CustomerID, &sale.SaleDate, &total, &paid, &sale.Note, &sale.CreatedAt, &sale.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("sales: scan: %w", err)
		}
		if sale.Total, err = decimal.NewFromString(total); err != nil {
			return nil, 0, fmt.Errorf("sales: parse total: %w", err)
		}
		if sale.Paid, err = decimal.NewFromString(paid); err != nil {
			return nil, 0, fmt.Errorf("sales: parse paid: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, totalCount, rows.Err()
}

// Void removes a sale and restores the stock its items consumed, all in
// one transaction. The removed sale is returned so the caller can
// invalidate the customer's ledger.
func (r *repository) Void(ctx context.Context, id int64) (Sale, error) {
	sale, err := r.Get(ctx, id)
	if err != nil {
		return Sale{}, err
	}

	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, item := range sale.Items {
			if _, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock + $1, updated_at = NOW()
				WHERE id = $2`,
				item.Quantity.String(), item.ProductID); err != nil {
				return fmt.Errorf("sales: restore stock: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, id); err != nil {
			return fmt.Errorf("sales: delete items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id); err != nil {
			return fmt.Errorf("sales: delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}
