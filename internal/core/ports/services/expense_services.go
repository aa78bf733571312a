package services

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data
type ExpenseReaderSvc interface {
	// GetExpense returns an expense and its splits. Users that neither paid
	// nor owe a split get apperrors.ErrNotFound.
	GetExpense(ctx context.Context, expenseID string, requestingUserID string) (*domain.ExpenseWithSplits, error)

	// ListExpenses returns the expenses a user paid for or takes part in.
	ListExpenses(ctx context.Context, userID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations for expense data
type ExpenseWriterSvc interface {
	// CreateExpense persists an expense with its computed splits.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, payerID string) (*domain.ExpenseWithSplits, error)

	// UpdateExpense patches an expense, rescaling its splits when the total changes.
	// Only the payer may update.
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.ExpenseWithSplits, error)

	// DeleteExpense removes an expense and its splits. Only the payer may delete.
	DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
