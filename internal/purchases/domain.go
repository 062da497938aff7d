package purchases

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one supplier invoice. Unlike sales there is no walk-in
// form; every purchase belongs to a supplier and feeds that supplier's
// ledger.
type Purchase struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	SupplierID   int64           `json:"supplier_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Note         *string         `json:"note,omitempty"`
	Items        []PurchaseItem  `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type PurchaseItem struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchase_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}
