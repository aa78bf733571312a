package accounting

import (
	"sort"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Allocation is the result of applying one payment to a set of splits.
type Allocation struct {
	// Splits holds the updated copies of the splits that received money, in
	// the order they were paid.
	Splits []domain.ExpenseSplit
	Lines  []domain.SplitAllocation
	// PerExpense is the total applied to each parent expense.
	PerExpense map[string]decimal.Decimal
	Applied    decimal.Decimal
	Leftover   decimal.Decimal
}

// SortFIFO orders splits oldest first; Seq and then SplitID break ties.
func SortFIFO(splits []domain.ExpenseSplit) {
	sort.SliceStable(splits, func(i, j int) bool {
		a, b := splits[i], splits[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.SplitID < b.SplitID
	})
}

// AllocatePayment applies amount to candidates in the order given. Each split
// takes min(remaining, amount left); the walk stops once the amount is used up.
// Paid splits in candidates are skipped. The input slice is not modified.
func AllocatePayment(amount decimal.Decimal, candidates []domain.ExpenseSplit) Allocation {
	res := Allocation{
		PerExpense: make(map[string]decimal.Decimal),
		Applied:    decimal.Zero,
	}
	left := amount

	for _, split := range candidates {
		if !left.IsPositive() {
			break
		}
		if split.IsPaid || !split.RemainingAmount.IsPositive() {
			continue
		}

		applied := Min(split.RemainingAmount, left)
		split.RemainingAmount = split.RemainingAmount.Sub(applied)
		split.IsPaid = split.RemainingAmount.IsZero()
		left = left.Sub(applied)

		res.Splits = append(res.Splits, split)
		res.Lines = append(res.Lines, domain.SplitAllocation{
			SplitID:         split.SplitID,
			ExpenseID:       split.ExpenseID,
			AmountApplied:   applied,
			RemainingAmount: split.RemainingAmount,
			IsPaid:          split.IsPaid,
		})
		res.PerExpense[split.ExpenseID] = res.PerExpense[split.ExpenseID].Add(applied)
		res.Applied = res.Applied.Add(applied)
	}

	res.Leftover = left
	return res
}

// BuildSettlementSheet groups a user's unpaid debt rows by creditor. Entries
// are ordered by creditor id and expenses inside an entry oldest first.
func BuildSettlementSheet(userID string, rows []domain.DebtRow) domain.SettlementSheet {
	sorted := make([]domain.DebtRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.CreditorID != b.CreditorID {
			return a.CreditorID < b.CreditorID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.SplitSeq < b.SplitSeq
	})

	sheet := domain.SettlementSheet{
		UserID:     userID,
		Entries:    []domain.SettlementEntry{},
		TotalToPay: decimal.Zero,
	}
	for _, row := range sorted {
		if row.CreditorID == userID || !row.RemainingAmount.IsPositive() {
			continue
		}
		n := len(sheet.Entries)
		if n == 0 || sheet.Entries[n-1].CreditorID != row.CreditorID {
			sheet.Entries = append(sheet.Entries, domain.SettlementEntry{
				CreditorID:   row.CreditorID,
				CreditorName: row.CreditorName,
				TotalOwed:    decimal.Zero,
			})
			n++
		}
		entry := &sheet.Entries[n-1]
		entry.TotalOwed = entry.TotalOwed.Add(row.RemainingAmount)
		entry.Expenses = append(entry.Expenses, domain.SettlementExpense{
			ExpenseID:    row.ExpenseID,
			Description:  row.Description,
			Amount:       row.RemainingAmount,
			ExpenseTotal: row.ExpenseTotal,
			CreatedAt:    row.CreatedAt,
			Deadline:     row.Deadline,
			GroupID:      row.GroupID,
			GroupName:    row.GroupName,
		})
		sheet.TotalToPay = sheet.TotalToPay.Add(row.RemainingAmount)
	}
	return sheet
}
