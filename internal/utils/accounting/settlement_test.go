package accounting

import (
	"testing"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func outstanding(id, expenseID string, remaining string, at time.Time, seq int64) domain.ExpenseSplit {
	return domain.ExpenseSplit{
		SplitID:         id,
		ExpenseID:       expenseID,
		UserID:          "debtor",
		TotalAmount:     d(remaining),
		RemainingAmount: d(remaining),
		CreatedAt:       at,
		Seq:             seq,
	}
}

func TestAllocatePayment_PartialPaysOldestFirst(t *testing.T) {
	candidates := []domain.ExpenseSplit{
		outstanding("older", "e1", "30.00", t0, 1),
		outstanding("newer", "e2", "30.00", t0.Add(time.Hour), 2),
	}

	res := AllocatePayment(d("45.00"), candidates)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, "older", res.Lines[0].SplitID)
	assert.True(t, d("30.00").Equal(res.Lines[0].AmountApplied))
	assert.True(t, res.Lines[0].IsPaid)
	assert.Equal(t, "newer", res.Lines[1].SplitID)
	assert.True(t, d("15.00").Equal(res.Lines[1].AmountApplied))
	assert.True(t, d("15.00").Equal(res.Lines[1].RemainingAmount))
	assert.False(t, res.Lines[1].IsPaid)

	assert.True(t, d("45.00").Equal(res.Applied))
	assert.True(t, res.Leftover.IsZero())
	assert.True(t, d("30.00").Equal(res.PerExpense["e1"]))
	assert.True(t, d("15.00").Equal(res.PerExpense["e2"]))

	// input untouched
	assert.True(t, d("30.00").Equal(candidates[0].RemainingAmount))
	assert.False(t, candidates[0].IsPaid)
}

func TestAllocatePayment_OverpaymentReportsLeftover(t *testing.T) {
	candidates := []domain.ExpenseSplit{
		outstanding("a", "e1", "30.00", t0, 1),
		outstanding("b", "e1", "30.00", t0, 2),
	}

	res := AllocatePayment(d("100.00"), candidates)

	require.Len(t, res.Splits, 2)
	for _, s := range res.Splits {
		assert.True(t, s.IsPaid)
		assert.True(t, s.RemainingAmount.IsZero())
	}
	assert.True(t, d("60.00").Equal(res.Applied))
	assert.True(t, d("40.00").Equal(res.Leftover))
	assert.True(t, d("60.00").Equal(res.PerExpense["e1"]))
}

func TestAllocatePayment_StopsWhenAmountUsedUp(t *testing.T) {
	candidates := []domain.ExpenseSplit{
		outstanding("a", "e1", "10.00", t0, 1),
		outstanding("b", "e2", "10.00", t0, 2),
		outstanding("c", "e3", "10.00", t0, 3),
	}

	res := AllocatePayment(d("10.00"), candidates)

	require.Len(t, res.Lines, 1)
	assert.Equal(t, "a", res.Lines[0].SplitID)
	assert.NotContains(t, res.PerExpense, "e2")
}

func TestAllocatePayment_SkipsSettledSplits(t *testing.T) {
	paid := outstanding("paid", "e1", "0", t0, 1)
	paid.TotalAmount = d("20.00")
	paid.IsPaid = true
	candidates := []domain.ExpenseSplit{paid, outstanding("open", "e2", "5.00", t0, 2)}

	res := AllocatePayment(d("5.00"), candidates)

	require.Len(t, res.Lines, 1)
	assert.Equal(t, "open", res.Lines[0].SplitID)
}

func TestAllocatePayment_IsDeterministicAndMonotonic(t *testing.T) {
	candidates := []domain.ExpenseSplit{
		outstanding("a", "e1", "12.34", t0, 1),
		outstanding("b", "e2", "0.66", t0.Add(time.Minute), 2),
		outstanding("c", "e3", "7.00", t0.Add(2*time.Minute), 3),
	}

	first := AllocatePayment(d("13.50"), candidates)
	second := AllocatePayment(d("13.50"), candidates)
	assert.Equal(t, first.Lines, second.Lines)
	assert.True(t, first.Leftover.Equal(second.Leftover))

	// Pay in small instalments and check balances only move down.
	state := append([]domain.ExpenseSplit(nil), candidates...)
	for i := 0; i < 20; i++ {
		res := AllocatePayment(d("1.11"), state)
		byID := make(map[string]domain.ExpenseSplit)
		for _, s := range res.Splits {
			byID[s.SplitID] = s
		}
		for j, prev := range state {
			next, ok := byID[prev.SplitID]
			if !ok {
				continue
			}
			assert.True(t, next.RemainingAmount.LessThanOrEqual(prev.RemainingAmount))
			if prev.IsPaid {
				assert.True(t, next.IsPaid)
			}
			assert.Equal(t, next.RemainingAmount.IsZero(), next.IsPaid)
			state[j] = next
		}
	}
	for _, s := range state {
		assert.True(t, s.IsPaid, "split %s should be settled", s.SplitID)
	}
}

func TestSortFIFO(t *testing.T) {
	splits := []domain.ExpenseSplit{
		outstanding("late", "e1", "1.00", t0.Add(time.Hour), 1),
		outstanding("tie-b", "e2", "1.00", t0, 7),
		outstanding("tie-a", "e3", "1.00", t0, 3),
		outstanding("same-seq-z", "e4", "1.00", t0, 9),
		outstanding("same-seq-y", "e5", "1.00", t0, 9),
	}

	SortFIFO(splits)

	ids := make([]string, len(splits))
	for i, s := range splits {
		ids[i] = s.SplitID
	}
	assert.Equal(t, []string{"tie-a", "tie-b", "same-seq-y", "same-seq-z", "late"}, ids)
}

func TestBuildSettlementSheet(t *testing.T) {
	group := "g1"
	groupName := "Flat"
	rows := []domain.DebtRow{
		{SplitID: "s3", ExpenseID: "e3", CreditorID: "u-bob", CreditorName: "bob", Description: "taxi", RemainingAmount: d("12.50"), ExpenseTotal: d("25.00"), CreatedAt: t0.Add(2 * time.Hour), SplitSeq: 3},
		{SplitID: "s1", ExpenseID: "e1", CreditorID: "u-bob", CreditorName: "bob", Description: "dinner", RemainingAmount: d("30.00"), ExpenseTotal: d("90.00"), CreatedAt: t0, SplitSeq: 1, GroupID: &group, GroupName: &groupName},
		{SplitID: "s2", ExpenseID: "e2", CreditorID: "u-alice", CreditorName: "alice", Description: "tickets", RemainingAmount: d("15.00"), ExpenseTotal: d("30.00"), CreatedAt: t0.Add(time.Hour), SplitSeq: 2},
	}

	sheet := BuildSettlementSheet("u-me", rows)

	assert.Equal(t, "u-me", sheet.UserID)
	require.Len(t, sheet.Entries, 2)

	assert.Equal(t, "u-alice", sheet.Entries[0].CreditorID)
	assert.True(t, d("15.00").Equal(sheet.Entries[0].TotalOwed))

	bob := sheet.Entries[1]
	assert.Equal(t, "u-bob", bob.CreditorID)
	assert.Equal(t, "bob", bob.CreditorName)
	assert.True(t, d("42.50").Equal(bob.TotalOwed))
	require.Len(t, bob.Expenses, 2)
	assert.Equal(t, "e1", bob.Expenses[0].ExpenseID)
	assert.Equal(t, &groupName, bob.Expenses[0].GroupName)
	assert.Equal(t, "e3", bob.Expenses[1].ExpenseID)

	assert.True(t, d("57.50").Equal(sheet.TotalToPay))
}

func TestBuildSettlementSheet_IgnoresSelfAndSettledRows(t *testing.T) {
	rows := []domain.DebtRow{
		{SplitID: "s1", ExpenseID: "e1", CreditorID: "u-me", RemainingAmount: d("10.00"), CreatedAt: t0},
		{SplitID: "s2", ExpenseID: "e2", CreditorID: "u-bob", RemainingAmount: decimal.Zero, CreatedAt: t0},
	}

	sheet := BuildSettlementSheet("u-me", rows)

	assert.Empty(t, sheet.Entries)
	assert.True(t, sheet.TotalToPay.IsZero())
}
