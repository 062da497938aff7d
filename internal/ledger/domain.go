package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind identifies which party a ledger belongs to.
type AccountKind string

const (
	KindCustomer AccountKind = "customer"
	KindSupplier AccountKind = "supplier"
)

// Valid reports whether the kind is one of the known account kinds.
func (k AccountKind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

// BalanceSide is the canonical internal debit/credit representation.
// Presentation strings such as "Dr"/"Cr" exist only at the JSON boundary.
type BalanceSide string

const (
	SideDebit  BalanceSide = "debit"
	SideCredit BalanceSide = "credit"
)

// Account is the ledger's view of a customer or supplier: just enough to
// seed the running balance. The surrounding CRUD modules own the full record.
type Account struct {
	ID          int64
	Kind        AccountKind
	Name        string
	Opening     decimal.Decimal
	OpeningSide BalanceSide
}

// SignedOpening converts the opening balance magnitude and side into a
// signed starting balance. Debit increases what the account owes the
// business, credit decreases it.
func (a Account) SignedOpening() decimal.Decimal {
	if a.OpeningSide == SideCredit {
		return a.Opening.Neg()
	}
	return a.Opening
}

// EntryKind tags a ledger entry with its originating document type.
type EntryKind string

const (
	EntryOpening  EntryKind = "opening"
	EntrySale     EntryKind = "sale"
	EntryPurchase EntryKind = "purchase"
	EntryPayment  EntryKind = "payment"
)

// Side returns which side of the ledger the entry kind lands on. Sales and
// purchases increase what the account owes; payments decrease it regardless
// of account kind.
func (k EntryKind) Side() BalanceSide {
	if k == EntryPayment {
		return SideCredit
	}
	return SideDebit
}

// Entry is one raw transaction row fed into the ledger fold.
type Entry struct {
	ID        int64
	Kind      EntryKind
	Date      time.Time
	Amount    decimal.Decimal
	Reference string
	Method    string
}

// Line is a derived, read-only ledger row: an entry plus the running
// balance immediately after applying it. Lines are recomputed on every
// request and never persisted.
type Line struct {
	Entry
	RunningBalance decimal.Decimal
}

// Totals summarises a computed statement. The opening balance seeds the
// walk but is excluded from the debit/credit sums and reported separately.
type Totals struct {
	TotalDebits       decimal.Decimal
	TotalCredits      decimal.Decimal
	CalculatedBalance decimal.Decimal
}

// Statement is the full result of one ledger computation.
type Statement struct {
	Account Account
	Lines   []Line
	Totals  Totals
}

var (
	// ErrAccountNotFound is returned when the account id does not resolve.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrNegativeAmount is returned when a stored transaction carries a
	// negative amount. Sign is determined solely by entry kind, so a
	// negative magnitude is a data-integrity fault, not a sign flip.
	ErrNegativeAmount = errors.New("ledger: negative transaction amount")
)
