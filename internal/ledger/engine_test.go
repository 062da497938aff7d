package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func customerAccount(opening string, side BalanceSide) Account {
	return Account{
		ID:          7,
		Kind:        KindCustomer,
		Name:        "Fariq Traders",
		Opening:     dec(opening),
		OpeningSide: side,
	}
}

func TestComputeOpeningOnly(t *testing.T) {
	stmt, err := Compute(customerAccount("1000", SideDebit), nil)
	require.NoError(t, err)

	require.Len(t, stmt.Lines, 1)
	require.Equal(t, EntryOpening, stmt.Lines[0].Kind)
	require.True(t, stmt.Lines[0].RunningBalance.Equal(dec("1000")))
	require.True(t, stmt.Totals.TotalDebits.IsZero())
	require.True(t, stmt.Totals.TotalCredits.IsZero())
	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("1000")))
}

func TestComputeCreditOpeningWithSale(t *testing.T) {
	entries := []Entry{
		{ID: 1, Kind: EntrySale, Date: day(2), Amount: dec("200")},
	}
	stmt, err := Compute(customerAccount("500", SideCredit), entries)
	require.NoError(t, err)

	require.Len(t, stmt.Lines, 2)
	require.True(t, stmt.Lines[0].RunningBalance.Equal(dec("-500")))
	require.True(t, stmt.Lines[1].RunningBalance.Equal(dec("-300")))
	require.True(t, stmt.Totals.TotalDebits.Equal(dec("200")))
	require.True(t, stmt.Totals.TotalCredits.IsZero())
	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("-300")))
}

func TestComputeSaleThenPaymentNetsToZero(t *testing.T) {
	entries := []Entry{
		{ID: 2, Kind: EntryPayment, Date: day(2), Amount: dec("300")},
		{ID: 1, Kind: EntrySale, Date: day(1), Amount: dec("300")},
	}
	stmt, err := Compute(customerAccount("0", SideDebit), entries)
	require.NoError(t, err)

	require.Len(t, stmt.Lines, 3)
	require.Equal(t, EntryOpening, stmt.Lines[0].Kind)
	require.Equal(t, EntrySale, stmt.Lines[1].Kind)
	require.Equal(t, EntryPayment, stmt.Lines[2].Kind)
	require.True(t, stmt.Lines[0].RunningBalance.IsZero())
	require.True(t, stmt.Lines[1].RunningBalance.Equal(dec("300")))
	require.True(t, stmt.Lines[2].RunningBalance.IsZero())
	require.True(t, stmt.Totals.CalculatedBalance.IsZero())
}

func TestComputePaymentDirectionFixedForSuppliers(t *testing.T) {
	account := Account{ID: 3, Kind: KindSupplier, Name: "Mills & Co", Opening: dec("0"), OpeningSide: SideDebit}
	entries := []Entry{
		{ID: 1, Kind: EntryPurchase, Date: day(1), Amount: dec("400")},
		{ID: 2, Kind: EntryPayment, Date: day(3), Amount: dec("150")},
	}
	stmt, err := Compute(account, entries)
	require.NoError(t, err)

	require.True(t, stmt.Totals.TotalDebits.Equal(dec("400")))
	require.True(t, stmt.Totals.TotalCredits.Equal(dec("150")))
	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("250")))
}

func TestComputeTieBreakByID(t *testing.T) {
	entries := []Entry{
		{ID: 9, Kind: EntrySale, Date: day(5), Amount: dec("10")},
		{ID: 4, Kind: EntryPayment, Date: day(5), Amount: dec("5")},
	}
	first, err := Compute(customerAccount("0", SideDebit), entries)
	require.NoError(t, err)
	second, err := Compute(customerAccount("0", SideDebit), entries)
	require.NoError(t, err)

	// Same date, so the lower id applies first on every run.
	require.Equal(t, int64(4), first.Lines[1].ID)
	require.Equal(t, int64(9), first.Lines[2].ID)
	require.Equal(t, first, second)
}

func TestComputeTieBreakAcrossTables(t *testing.T) {
	// Charges and payments come from different tables, so a sale and a
	// payment can share an id and a date. The charge must apply first,
	// whichever way the rows arrive.
	sale := Entry{ID: 5, Kind: EntrySale, Date: day(3), Amount: dec("80")}
	payment := Entry{ID: 5, Kind: EntryPayment, Date: day(3), Amount: dec("80")}

	first, err := Compute(customerAccount("0", SideDebit), []Entry{payment, sale})
	require.NoError(t, err)
	second, err := Compute(customerAccount("0", SideDebit), []Entry{sale, payment})
	require.NoError(t, err)

	require.Equal(t, EntrySale, first.Lines[1].Kind)
	require.Equal(t, EntryPayment, first.Lines[2].Kind)
	require.True(t, first.Lines[1].RunningBalance.Equal(dec("80")))
	require.True(t, first.Lines[2].RunningBalance.IsZero())
	require.Equal(t, first, second)
}

func TestComputeChronologicalOrder(t *testing.T) {
	entries := []Entry{
		{ID: 3, Kind: EntrySale, Date: day(9), Amount: dec("30")},
		{ID: 1, Kind: EntrySale, Date: day(1), Amount: dec("10")},
		{ID: 2, Kind: EntryPayment, Date: day(4), Amount: dec("15")},
	}
	stmt, err := Compute(customerAccount("100", SideDebit), entries)
	require.NoError(t, err)

	for i := 2; i < len(stmt.Lines); i++ {
		require.False(t, stmt.Lines[i].Date.Before(stmt.Lines[i-1].Date))
	}
}

func TestComputeZeroAmountEntriesIncluded(t *testing.T) {
	entries := []Entry{
		{ID: 1, Kind: EntrySale, Date: day(1), Amount: dec("0")},
		{ID: 2, Kind: EntryPayment, Date: day(2), Amount: dec("0")},
	}
	stmt, err := Compute(customerAccount("50", SideDebit), entries)
	require.NoError(t, err)

	require.Len(t, stmt.Lines, 3)
	require.True(t, stmt.Totals.TotalDebits.IsZero())
	require.True(t, stmt.Totals.TotalCredits.IsZero())
	require.True(t, stmt.Totals.CalculatedBalance.Equal(dec("50")))
}

func TestComputeRejectsNegativeAmount(t *testing.T) {
	entries := []Entry{
		{ID: 1, Kind: EntrySale, Date: day(1), Amount: dec("-20")},
	}
	_, err := Compute(customerAccount("0", SideDebit), entries)
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComputeRejectsNegativeOpening(t *testing.T) {
	_, err := Compute(customerAccount("-1", SideDebit), nil)
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComputeBalanceIdentity(t *testing.T) {
	entries := []Entry{
		{ID: 1, Kind: EntrySale, Date: day(1), Amount: dec("120.50")},
		{ID: 2, Kind: EntrySale, Date: day(2), Amount: dec("79.50")},
		{ID: 3, Kind: EntryPayment, Date: day(3), Amount: dec("100")},
		{ID: 4, Kind: EntrySale, Date: day(4), Amount: dec("0.01")},
		{ID: 5, Kind: EntryPayment, Date: day(6), Amount: dec("50.01")},
	}
	account := customerAccount("250", SideCredit)
	stmt, err := Compute(account, entries)
	require.NoError(t, err)

	identity := account.SignedOpening().
		Add(stmt.Totals.TotalDebits).
		Sub(stmt.Totals.TotalCredits)
	require.True(t, stmt.Totals.CalculatedBalance.Equal(identity))
}
