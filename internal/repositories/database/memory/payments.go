package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SavePaymentInTx appends a payment to the history.
func (s *Store) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	st, err := s.work(tx)
	if err != nil {
		return err
	}
	for _, p := range st.payments {
		if p.PaymentID == payment.PaymentID {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
		}
	}
	payment.Allocations = append([]domain.SplitAllocation(nil), payment.Allocations...)
	st.payments = append(st.payments, payment)
	return nil
}

// ListPaymentsByPayer returns a user's payments, newest first.
func (s *Store) ListPaymentsByPayer(ctx context.Context, payerID string, limit int) ([]domain.Payment, error) {
	var out []domain.Payment
	s.read(func(st *state) {
		// walk backwards so equal timestamps keep newest-committed first
		for i := len(st.payments) - 1; i >= 0; i-- {
			if st.payments[i].PayerID == payerID {
				out = append(out, st.payments[i])
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
