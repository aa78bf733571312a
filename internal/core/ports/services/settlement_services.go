package services

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
)

// SettlementSvcFacade defines payment recording and history.
type SettlementSvcFacade interface {
	// RecordPayment applies a payment against the payer's outstanding splits,
	// oldest first, and reports what was applied and what was left over.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, payerID string) (*domain.Payment, error)

	// ListPayments returns the payments a user has recorded, newest first.
	ListPayments(ctx context.Context, userID string, params dto.ListPaymentsParams) ([]domain.Payment, error)
}
