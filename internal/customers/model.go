package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
)

// Customer represents a customer account.
type Customer struct {
	ID           int64              `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Phone        *string            `json:"phone,omitempty"`
	Email        *string            `json:"email,omitempty"`
	Address      *string            `json:"address,omitempty"`
	Opening      decimal.Decimal    `json:"opening_balance"`
	OpeningSide  ledger.BalanceSide `json:"opening_balance_type"`
	Balance      decimal.Decimal    `json:"balance"`
	Notes        *string            `json:"notes,omitempty"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
