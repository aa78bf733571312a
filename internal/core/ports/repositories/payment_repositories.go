package repositories

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payment history
type PaymentReader interface {
	// ListPaymentsByPayer returns a user's payments, newest first.
	ListPaymentsByPayer(ctx context.Context, payerID string, limit int) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment history
type PaymentWriter interface {
	// SavePaymentInTx inserts a payment and its allocation lines.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
