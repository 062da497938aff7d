package suppliers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
)

// Supplier represents a supplier account.
type Supplier struct {
	ID          int64              `json:"id"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Phone       *string            `json:"phone,omitempty"`
	Email       *string            `json:"email,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Opening     decimal.Decimal    `json:"opening_balance"`
	OpeningSide ledger.BalanceSide `json:"opening_balance_type"`
	Balance     decimal.Decimal    `json:"balance"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type CreateSupplierRequest struct {
	Code        string  `json:"code" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Opening     string  `json:"opening_balance" validate:"omitempty"`
	OpeningSide string  `json:"opening_balance_type" validate:"omitempty,oneof=debit credit"`
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Opening     *string `json:"opening_balance,omitempty"`
	OpeningSide *string `json:"opening_balance_type,omitempty" validate:"omitempty,oneof=debit credit"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type ListSuppliersRequest struct {
	Search  *string `json:"search,omitempty"`
	SortBy  string  `json:"sort_by,omitempty"`
	SortDir string  `json:"sort_dir,omitempty"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
