package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one point-of-sale document. CustomerID is nil for walk-in
// counter sales, which settle immediately and never enter any customer
// ledger.
type Sale struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	SaleDate   time.Time       `json:"sale_date"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Note       *string         `json:"note,omitempty"`
	Items      []SaleItem      `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// SaleItem is one product line on a sale. Line items are kept for audit
// and stock movement; the ledger only reads the sale total.
type SaleItem struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}
