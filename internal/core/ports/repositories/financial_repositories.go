package repositories

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FinancialReader defines the aggregate queries over unpaid splits.
type FinancialReader interface {
	// SumOwedByUser is the unpaid remaining the user owes to other payers.
	SumOwedByUser(ctx context.Context, userID string) (decimal.Decimal, error)

	// SumOwedToUser is the unpaid remaining other users owe on the user's expenses.
	SumOwedToUser(ctx context.Context, userID string) (decimal.Decimal, error)

	// ListDebtRows returns the unpaid splits the user owes to other payers.
	ListDebtRows(ctx context.Context, userID string) ([]domain.DebtRow, error)
}
