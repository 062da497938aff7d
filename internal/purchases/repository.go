package purchases

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

	"github.com/stockpoint/stockpoint/internal/platform/db"
	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

type Repository interface {
	Create(ctx context.Context, purchase Purchase) (Purchase, error)
	Get(ctx context.Context, id int64) (Purchase, error)
	List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error)
	Void(ctx context.Context, id int64) (Purchase, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Create inserts the purchase, its line items, and the matching stock
// increments in one transaction. A missing supplier surfaces as a
// foreign key violation and maps to not found.
func (r *repository) Create(ctx context.Context, purchase Purchase) (Purchase, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		err := tx.QueryRow(ctx, `
			INSERT INTO purchases (number, supplier_id, purchase_date, total, paid, note, created_at, updated_at)
			VALUES ('', $1, $2, $3, $4, $5, $6, $6)
			RETURNING id`,
			purchase.SupplierID, purchase.PurchaseDate, purchase.Total.String(), purchase.Paid.String(), purchase.Note, now,
		).Scan(&purchase.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, purchase.SupplierID)
			}
			return fmt.Errorf("purchases: insert: %w", err)
		}

		purchase.Number = fmt.Sprintf("PUR-%06d", purchase.ID)
		if _, err := tx.Exec(ctx, `UPDATE purchases SET number = $1 WHERE id = $2`, purchase.Number, purchase.ID); err != nil {
			return fmt.Errorf("purchases: set number: %w", err)
		}

		for i := range purchase.Items {
			item := &purchase.Items[i]
			item.PurchaseID = purchase.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_cost, total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				purchase.ID, item.ProductID, item.Quantity.String(), item.UnitCost.String(), item.Total.String(),
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("purchases: insert item: %w", err)
			}

			if _, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock + $1, cost = $2, updated_at = NOW()
				WHERE id = $3`,
				item.Quantity.String(), item.UnitCost.String(), item.ProductID); err != nil {
				return fmt.Errorf("purchases: increment stock: %w", err)
			}
		}

		purchase.CreatedAt = now
		purchase.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return purchase, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Purchase, error) {
	var (
		purchase    Purchase
		total, paid string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, supplier_id, purchase_date, total::text, paid::text, note, created_at, updated_at
		FROM purchases WHERE id = $1`, id,
	).Scan(&purchase.ID, &purchase.Number, &purchase.SupplierID, &purchase.PurchaseDate, &total, &paid, &purchase.Note, &purchase.CreatedAt, &purchase.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, httpx.ErrNotFound
	}
	if err != nil {
		return Purchase{}, fmt.Errorf("purchases: get: %w", err)
	}
	if purchase.Total, err = decimal.NewFromString(total); err != nil {
		return Purchase{}, fmt.Errorf("purchases: parse total: %w", err)
	}
	if purchase.Paid, err = decimal.NewFromString(paid); err != nil {
		return Purchase{}, fmt.Errorf("purchases: parse paid: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return Purchase{}, err
	}
	purchase.Items = items
	return purchase, nil
}

func (r *repository) listItems(ctx context.Context, purchaseID int64) ([]PurchaseItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.purchase_id, i.product_id, p.name, i.quantity::text, i.unit_cost::text, i.total::text
		FROM purchase_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.purchase_id = $1
		ORDER BY i.id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("purchases: list items: %w", err)
	}
	defer rows.Close()

	var items []PurchaseItem
	for rows.Next() {
		var (
			item                 PurchaseItem
			qty, cost, lineTotal string
		)
		err := rows.Scan(&item.ID, &item.PurchaseID, &item.ProductID, &item.ProductName, &qty, &cost, &lineTotal)
		if err != nil {
			return nil, fmt.Errorf("purchases: scan item: %w", err)
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("purchases: parse quantity: %w", err)
		}
		if item.UnitCost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("purchases: parse unit cost: %w", err)
		}
		if item.Total, err = decimal.NewFromString(lineTotal); err != nil {
			return nil, fmt.Errorf("purchases: parse line total: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error) {
	query := `SELECT id, number, supplier_id, purchase_date, total::text, paid::text, note, created_at, updated_at FROM purchases WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM purchases WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.SupplierID != nil {
		argCount++
		clause := ` AND supplier_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.SupplierID)
	}
	if req.FromDate != nil {
		argCount++
		clause := ` AND purchase_date >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.FromDate)
	}
	if req.ToDate != nil {
		argCount++
		clause := ` AND purchase_date <= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.ToDate)
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("purchases: count: %w", err)
	}

	query += ` ORDER BY purchase_date DESC, id DESC`
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
		return nil, 0, fmt.Errorf("purchases: list: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var (
			purchase    Purchase
			total, paid string
		)
		err := rows.Scan(&purchase.ID, &purchase.Number, &purchase.SupplierID, &purchase.PurchaseDate, &total, &paid, &purchase.Note, &purchase.CreatedAt, &purchase.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("purchases: scan: %w", err)
		}
		if purchase.Total, err = decimal.NewFromString(total); err != nil {
			return nil, 0, fmt.Errorf("purchases: parse total: %w", err)
		}
		if purchase.Paid, err = decimal.NewFromString(paid); err != nil {
			return nil, 0, fmt.Errorf("purchases: parse paid: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	return purchases, totalCount, rows.Err()
}

// Void removes a purchase and backs its stock increments out again. The
// removed purchase is returned so the caller can invalidate the
// supplier's ledger.
func (r *repository) Void(ctx context.Context, id int64) (Purchase, error) {
	purchase, err := r.Get(ctx, id)
	if err != nil {
		return Purchase{}, err
	}

	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, item := range purchase.Items {
			if _, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock - $1, updated_at = NOW()
				WHERE id = $2`,
				item.Quantity.String(), item.ProductID); err != nil {
				return fmt.Errorf("purchases: back out stock: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, id); err != nil {
			return fmt.Errorf("purchases: delete items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
			return fmt.Errorf("purchases: delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return purchase, nil
}
