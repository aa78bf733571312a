package services

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
)

// FinancialSvcFacade defines the read-only balance queries.
type FinancialSvcFacade interface {
	// GetFinancialSummary returns what the user owes and is owed.
	GetFinancialSummary(ctx context.Context, userID string) (*domain.FinancialSummary, error)

	// GetSettlementSheet breaks the user's debts down per creditor.
	GetSettlementSheet(ctx context.Context, userID string) (*domain.SettlementSheet, error)
}
