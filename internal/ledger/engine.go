package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Compute folds an account's raw transaction entries into a chronological
// statement with running balances and summary totals. It is a pure
// function: identical input always yields identical output, including line
// order.
//
// The resulting totals always satisfy
//
//	CalculatedBalance = SignedOpening + TotalDebits - TotalCredits
//
// which is the invariant the rest of the system leans on when it
// reconciles stored balances.
func Compute(account Account, entries []Entry) (Statement, error) {
	for _, e := range entries {
		if e.Amount.IsNegative() {
			return Statement{}, fmt.Errorf("%w: entry %d (%s)", ErrNegativeAmount, e.ID, e.Kind)
		}
	}
	if account.Opening.IsNegative() {
		return Statement{}, fmt.Errorf("%w: opening balance of account %d", ErrNegativeAmount, account.ID)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	// Date ascending, ties broken by id, then by kind. Ids alone are not
	// unique across entries: charge documents and payments live in
	// different tables, so a same-day sale 5 and payment 5 must still
	// order the same way on every computation. Charges sort before
	// settlements.
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Kind.Side() != b.Kind.Side() {
			return a.Kind.Side() == SideDebit
		}
		return a.Kind < b.Kind
	})

	running := account.SignedOpening()
	lines := make([]Line, 0, len(sorted)+1)

	// The opening pseudo-entry is always emitted, even at zero, so the
	// rendered history starts from the same row for every account. Its
	// zero date sorts before any real transaction.
	lines = append(lines, Line{
		Entry:          Entry{Kind: EntryOpening, Reference: "Opening balance"},
		RunningBalance: running,
	})

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, e := range sorted {
		switch e.Kind.Side() {
		case SideDebit:
			running = running.Add(e.Amount)
			totalDebits = totalDebits.Add(e.Amount)
		case SideCredit:
			running = running.Sub(e.Amount)
			totalCredits = totalCredits.Add(e.Amount)
		}
		lines = append(lines, Line{Entry: e, RunningBalance: running})
	}

	return Statement{
		Account: account,
		Lines:   lines,
		Totals: Totals{
			TotalDebits:       totalDebits,
			TotalCredits:      totalCredits,
			CalculatedBalance: running,
		},
	}, nil
}
