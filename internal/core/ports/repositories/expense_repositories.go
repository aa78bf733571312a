package repositories

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its splits.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseWithSplits, error)

	// ListExpensesForUser returns expenses the user paid for or owes a split
	// of, newest first. It returns the page and a token for the next page.
	ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExpenseWithSplits, *string, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpenseInTx inserts an expense together with its splits.
	SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, splits []domain.ExpenseSplit) error

	// UpdateExpenseInTx writes the mutable expense fields. It fails with
	// apperrors.ErrConflict when the stored version is not expectedVersion.
	UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, expectedVersion int64) error

	// UpdateSplitsInTx writes total, remaining and paid state of the splits.
	UpdateSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.ExpenseSplit) error

	// DeleteExpenseInTx removes an expense and all of its splits.
	DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error
}

// ExpenseLocker reads expense rows under a row lock held until the tx ends.
type ExpenseLocker interface {
	// FindExpenseForUpdateInTx locks and returns an expense with its splits.
	FindExpenseForUpdateInTx(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.ExpenseWithSplits, error)
}

// SettlementWriter defines the operations a payment needs.
type SettlementWriter interface {
	// FindOutstandingSplitsForUpdateInTx locks and returns the unpaid splits
	// owed by debtorID that match target, oldest first.
	FindOutstandingSplitsForUpdateInTx(ctx context.Context, tx pgx.Tx, debtorID string, target domain.PaymentTarget) ([]domain.ExpenseSplit, error)

	// DecrementExpenseRemainingInTx lowers an expense's remaining amount.
	DecrementExpenseRemainingInTx(ctx context.Context, tx pgx.Tx, expenseID string, amount decimal.Decimal) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	ExpenseLocker
	SettlementWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
