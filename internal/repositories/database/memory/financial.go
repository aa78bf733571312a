package memory

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumOwedByUser adds up the unpaid splits userID owes on other users' expenses.
func (s *Store) SumOwedByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	s.read(func(st *state) {
		for id, e := range st.expenses {
			if e.PaidBy == userID {
				continue
			}
			for _, sp := range st.splits[id] {
				if sp.UserID == userID && !sp.IsPaid {
					sum = sum.Add(sp.RemainingAmount)
				}
			}
		}
	})
	return sum, nil
}

// SumOwedToUser adds up what other users still owe on userID's expenses.
func (s *Store) SumOwedToUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	s.read(func(st *state) {
		for id, e := range st.expenses {
			if e.PaidBy != userID {
				continue
			}
			for _, sp := range st.splits[id] {
				if sp.UserID != userID && !sp.IsPaid {
					sum = sum.Add(sp.RemainingAmount)
				}
			}
		}
	})
	return sum, nil
}

// ListDebtRows lists the unpaid splits userID owes, joined with the expense,
// the creditor and the group.
func (s *Store) ListDebtRows(ctx context.Context, userID string) ([]domain.DebtRow, error) {
	var rows []domain.DebtRow
	s.read(func(st *state) {
		for id, e := range st.expenses {
			if e.PaidBy == userID {
				continue
			}
			for _, sp := range st.splits[id] {
				if sp.UserID != userID || sp.IsPaid {
					continue
				}
				row := domain.DebtRow{
					SplitID:         sp.SplitID,
					ExpenseID:       e.ExpenseID,
					CreditorID:      e.PaidBy,
					CreditorName:    st.users[e.PaidBy].Name,
					Description:     e.Description,
					RemainingAmount: sp.RemainingAmount,
					ExpenseTotal:    e.TotalAmount,
					Deadline:        e.Deadline,
					CreatedAt:       e.CreatedAt,
					SplitSeq:        sp.Seq,
				}
				if g, ok := e.Scope.(domain.ScopeGroup); ok {
					groupID := g.GroupID
					row.GroupID = &groupID
					if group, ok := st.groups[groupID]; ok {
						name := group.Name
						row.GroupName = &name
					}
				}
				rows = append(rows, row)
			}
		}
	})
	return rows, nil
}
