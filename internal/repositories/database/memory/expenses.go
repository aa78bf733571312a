package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/utils/accounting"
	"github.com/cliquepay/cliquepay_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (st *state) expenseWithSplits(id string) (*domain.ExpenseWithSplits, bool) {
	e, ok := st.expenses[id]
	if !ok {
		return nil, false
	}
	return &domain.ExpenseWithSplits{
		Expense: e,
		Splits:  append([]domain.ExpenseSplit(nil), st.splits[id]...),
	}, true
}

// FindExpenseByID retrieves a committed expense with its splits.
func (s *Store) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseWithSplits, error) {
	var (
		e  *domain.ExpenseWithSplits
		ok bool
	)
	s.read(func(st *state) { e, ok = st.expenseWithSplits(expenseID) })
	if !ok {
		return nil, apperrors.NewNotFoundError("expense")
	}
	return e, nil
}

// ListExpensesForUser pages through the expenses a user takes part in,
// newest first.
func (s *Store) ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExpenseWithSplits, *string, error) {
	var (
		cursorAt  time.Time
		cursorID  string
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID, hasCursor = at, id, true
	}

	var all []domain.ExpenseWithSplits
	s.read(func(st *state) {
		for id := range st.expenses {
			e, _ := st.expenseWithSplits(id)
			if e.IsParticipant(userID) {
				all = append(all, *e)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool {
		return pagination.After(all[j].CreatedAt, all[j].ExpenseID, all[i].CreatedAt, all[i].ExpenseID)
	})

	page := make([]domain.ExpenseWithSplits, 0, limit)
	for _, e := range all {
		if hasCursor && !pagination.After(e.CreatedAt, e.ExpenseID, cursorAt, cursorID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
			return page, &token, nil
		}
		page = append(page, e)
	}
	return page, nil, nil
}

// SaveExpenseInTx inserts an expense and its splits. Splits get increasing
// sequence numbers in the order given.
func (s *Store) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, splits []domain.ExpenseSplit) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	if _, exists := st.expenses[expense.ExpenseID]; exists {
		return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, expense.ExpenseID)
	}
	stored := make([]domain.ExpenseSplit, len(splits))
	for i, sp := range splits {
		st.seq++
		sp.Seq = st.seq
		stored[i] = sp
	}
	st.expenses[expense.ExpenseID] = expense
	st.splits[expense.ExpenseID] = stored
	return nil
}

// UpdateExpenseInTx writes the mutable fields of an expense if its stored
// version is still expectedVersion.
func (s *Store) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, expectedVersion int64) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	current, ok := st.expenses[expense.ExpenseID]
	if !ok {
		return apperrors.NewNotFoundError("expense")
	}
	if current.Version != expectedVersion {
		return apperrors.NewConflictError(fmt.Sprintf("expense %s was modified concurrently", expense.ExpenseID))
	}
	expense.CreatedAt = current.CreatedAt
	expense.Scope = current.Scope
	expense.PaidBy = current.PaidBy
	st.expenses[expense.ExpenseID] = expense
	return nil
}

// UpdateSplitsInTx writes total, remaining and paid state by split id.
func (s *Store) UpdateSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.ExpenseSplit) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	for _, upd := range splits {
		rows := st.splits[upd.ExpenseID]
		found := false
		for i := range rows {
			if rows[i].SplitID != upd.SplitID {
				continue
			}
			rows[i].TotalAmount = upd.TotalAmount
			rows[i].RemainingAmount = upd.RemainingAmount
			rows[i].IsPaid = upd.IsPaid
			found = true
			break
		}
		if !found {
			return apperrors.NewNotFoundError("expense split")
		}
	}
	return nil
}

// DeleteExpenseInTx removes an expense and its splits.
func (s *Store) DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	if _, ok := st.expenses[expenseID]; !ok {
		return apperrors.NewNotFoundError("expense")
	}
	delete(st.expenses, expenseID)
	delete(st.splits, expenseID)
	return nil
}

// FindExpenseForUpdateInTx reads an expense inside tx. The store-wide writer
// lock already serialises it against other transactions.
func (s *Store) FindExpenseForUpdateInTx(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.ExpenseWithSplits, error) {
	st, err := s.work(tx)
	if err != nil {
		return nil, err
	}
	e, ok := st.expenseWithSplits(expenseID)
	if !ok {
		return nil, apperrors.NewNotFoundError("expense")
	}
	return e, nil
}

// FindOutstandingSplitsForUpdateInTx returns the debtor's unpaid splits that
// match target, oldest first.
func (s *Store) FindOutstandingSplitsForUpdateInTx(ctx context.Context, tx pgx.Tx, debtorID string, target domain.PaymentTarget) ([]domain.ExpenseSplit, error) {
	st, err := s.work(tx)
	if err != nil {
		return nil, err
	}
	var out []domain.ExpenseSplit
	for id, e := range st.expenses {
		if e.PaidBy == debtorID || !matchesTarget(e, target) {
			continue
		}
		for _, sp := range st.splits[id] {
			if sp.UserID == debtorID && !sp.IsPaid && sp.RemainingAmount.IsPositive() {
				out = append(out, sp)
			}
		}
	}
	accounting.SortFIFO(out)
	return out, nil
}

func matchesTarget(e domain.Expense, target domain.PaymentTarget) bool {
	switch t := target.(type) {
	case domain.TargetCounterparty:
		return e.PaidBy == t.UserID
	case domain.TargetGroup:
		g, ok := e.Scope.(domain.ScopeGroup)
		return ok && g.GroupID == t.GroupID
	}
	return false
}

// DecrementExpenseRemainingInTx lowers an expense's remaining amount and
// bumps its version.
func (s *Store) DecrementExpenseRemainingInTx(ctx context.Context, tx pgx.Tx, expenseID string, amount decimal.Decimal) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	e, ok := st.expenses[expenseID]
	if !ok {
		return apperrors.NewNotFoundError("expense")
	}
	next := e.RemainingAmount.Sub(amount)
	if next.IsNegative() {
		return fmt.Errorf("%w: remaining amount of expense %s would go negative", apperrors.ErrInternal, expenseID)
	}
	e.RemainingAmount = next
	e.Version++
	e.LastUpdatedAt = nowUTC()
	st.expenses[expenseID] = e
	return nil
}
