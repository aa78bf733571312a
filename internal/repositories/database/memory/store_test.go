package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seeded() *Store {
	s := NewStore()
	s.AddUser(domain.User{UserID: "alice", ExternalID: "ext-alice", Name: "alice"})
	s.AddUser(domain.User{UserID: "bob", ExternalID: "ext-bob", Name: "bob"})
	s.AddGroup(domain.Group{GroupID: "flat", Name: "Flat"}, "alice", "bob")
	return s
}

func saveExpense(t *testing.T, s *Store, id, paidBy string, scope domain.ExpenseScope, at time.Time, shares map[string]string) {
	t.Helper()
	ctx := context.Background()
	total := decimal.Zero
	var splits []domain.ExpenseSplit
	for _, user := range []string{"alice", "bob"} {
		amt, ok := shares[user]
		if !ok {
			continue
		}
		sp := domain.ExpenseSplit{SplitID: id + "-" + user, ExpenseID: id, UserID: user, TotalAmount: d(amt), RemainingAmount: d(amt), CreatedAt: at}
		if user == paidBy {
			sp.RemainingAmount, sp.IsPaid = decimal.Zero, true
		}
		total = total.Add(d(amt))
		splits = append(splits, sp)
	}
	e := domain.Expense{ExpenseID: id, Scope: scope, PaidBy: paidBy, TotalAmount: total, RemainingAmount: total, Version: 1,
		AuditFields: domain.AuditFields{CreatedAt: at, LastUpdatedAt: at}}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveExpenseInTx(ctx, tx, e, splits))
	require.NoError(t, s.Commit(ctx, tx))
}

func TestStore_UserAndGroupLookups(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	u, err := s.FindUserByExternalID(ctx, "ext-bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.UserID)

	_, err = s.FindUserByID(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	members, err := s.ListGroupMemberIDs(ctx, "flat")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, members)

	_, err = s.FindGroupByID(ctx, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_RollbackDiscardsWork(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveExpenseInTx(ctx, tx, domain.Expense{ExpenseID: "e1", PaidBy: "alice"}, nil))

	// uncommitted writes are invisible to readers
	_, err = s.FindExpenseByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.Rollback(ctx, tx))
	require.NoError(t, s.Rollback(ctx, tx))
	assert.Error(t, s.Commit(ctx, tx))

	_, err = s.FindExpenseByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_SaveAssignsSequenceAndRejectsDuplicates(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e1", "alice", domain.ScopeGroup{GroupID: "flat"}, t0, map[string]string{"alice": "5.00", "bob": "5.00"})

	e, err := s.FindExpenseByID(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, e.Splits, 2)
	assert.Less(t, e.Splits[0].Seq, e.Splits[1].Seq)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	err = s.SaveExpenseInTx(ctx, tx, e.Expense, nil)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	require.NoError(t, s.Rollback(ctx, tx))
}

func TestStore_UpdateExpenseChecksVersion(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e1", "alice", domain.ScopeCounterparty{UserID: "bob"}, t0, map[string]string{"alice": "5.00", "bob": "5.00"})

	e, err := s.FindExpenseByID(ctx, "e1")
	require.NoError(t, err)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	stale := e.Expense
	stale.Description = "stale"
	err = s.UpdateExpenseInTx(ctx, tx, stale, 7)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	fresh := e.Expense
	fresh.Description = "fresh"
	fresh.Version = 2
	fresh.CreatedAt = t0.Add(time.Hour)
	require.NoError(t, s.UpdateExpenseInTx(ctx, tx, fresh, 1))
	require.NoError(t, s.Commit(ctx, tx))

	got, err := s.FindExpenseByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Description)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, t0, got.CreatedAt)
}

func TestStore_OutstandingSplitsByTarget(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e-group", "alice", domain.ScopeGroup{GroupID: "flat"}, t0.Add(time.Hour), map[string]string{"alice": "10.00", "bob": "10.00"})
	saveExpense(t, s, "e-friend", "alice", domain.ScopeCounterparty{UserID: "bob"}, t0, map[string]string{"alice": "3.00", "bob": "3.00"})
	saveExpense(t, s, "e-bob", "bob", domain.ScopeCounterparty{UserID: "alice"}, t0, map[string]string{"alice": "4.00", "bob": "4.00"})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer s.Rollback(ctx, tx)

	toAlice, err := s.FindOutstandingSplitsForUpdateInTx(ctx, tx, "bob", domain.TargetCounterparty{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, toAlice, 2)
	assert.Equal(t, "e-friend", toAlice[0].ExpenseID)
	assert.Equal(t, "e-group", toAlice[1].ExpenseID)

	inFlat, err := s.FindOutstandingSplitsForUpdateInTx(ctx, tx, "bob", domain.TargetGroup{GroupID: "flat"})
	require.NoError(t, err)
	require.Len(t, inFlat, 1)
	assert.Equal(t, "e-group", inFlat[0].ExpenseID)
}

func TestStore_DecrementRejectsNegativeRemaining(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e1", "alice", domain.ScopeCounterparty{UserID: "bob"}, t0, map[string]string{"alice": "5.00", "bob": "5.00"})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.DecrementExpenseRemainingInTx(ctx, tx, "e1", d("5.00")))
	err = s.DecrementExpenseRemainingInTx(ctx, tx, "e1", d("5.01"))
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	require.NoError(t, s.Commit(ctx, tx))

	e, err := s.FindExpenseByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, d("5.00").Equal(e.RemainingAmount))
	assert.Equal(t, int64(2), e.Version)
}

func TestStore_ListExpensesForUserPages(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	for i, id := range []string{"e1", "e2", "e3"} {
		saveExpense(t, s, id, "alice", domain.ScopeCounterparty{UserID: "bob"}, t0.Add(time.Duration(i)*time.Minute), map[string]string{"alice": "1.00", "bob": "1.00"})
	}

	page, next, err := s.ListExpensesForUser(ctx, "bob", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e3", page[0].ExpenseID)
	assert.Equal(t, "e2", page[1].ExpenseID)
	require.NotNil(t, next)

	page, next, err = s.ListExpensesForUser(ctx, "bob", 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e1", page[0].ExpenseID)
	assert.Nil(t, next)

	bad := "%%%"
	_, _, err = s.ListExpensesForUser(ctx, "bob", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStore_FinancialQueries(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e1", "alice", domain.ScopeGroup{GroupID: "flat"}, t0, map[string]string{"alice": "10.00", "bob": "10.00"})
	saveExpense(t, s, "e2", "bob", domain.ScopeCounterparty{UserID: "alice"}, t0, map[string]string{"alice": "2.50", "bob": "2.50"})

	owed, err := s.SumOwedByUser(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, d("10.00").Equal(owed))

	owedTo, err := s.SumOwedToUser(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, d("2.50").Equal(owedTo))

	rows, err := s.ListDebtRows(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].CreditorName)
	require.NotNil(t, rows[0].GroupName)
	assert.Equal(t, "Flat", *rows[0].GroupName)
}

func TestStore_TransactionsSerialise(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	saveExpense(t, s, "e1", "alice", domain.ScopeCounterparty{UserID: "bob"}, t0, map[string]string{"alice": "50.00", "bob": "50.00"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, s.DecrementExpenseRemainingInTx(ctx, tx, "e1", d("1.00")))
			assert.NoError(t, s.Commit(ctx, tx))
		}()
	}
	wg.Wait()

	e, err := s.FindExpenseByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, d("50.00").Equal(e.RemainingAmount))
	assert.Equal(t, int64(51), e.Version)
}

func TestStore_BeginHonoursContextWhileWriterBusy(t *testing.T) {
	s := seeded()
	held, err := s.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Begin(ctx)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, s.Rollback(context.Background(), held))
	next, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Rollback(context.Background(), next))
}
