package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpoint/stockpoint/internal/ledger"
)

// Direction tells which side of the counter money moved. Incoming
// payments come from customers, outgoing payments go to suppliers.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// AccountKind maps the direction to the ledger side it settles.
func (d Direction) AccountKind() ledger.AccountKind {
	if d == DirectionOut {
		return ledger.KindSupplier
	}
	return ledger.KindCustomer
}

type Payment struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	Direction   Direction       `json:"direction"`
	AccountID   int64           `json:"account_id"`
	PaymentDate time.Time       `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Note        *string         `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
