package pgsql

import (
	"context"
	"fmt"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/cliquepay/cliquepay_backend/internal/models"
	"github.com/cliquepay/cliquepay_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// SavePaymentInTx inserts the payment row and its allocation lines.
func (r *PgxPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m, lines := mapping.ToModelPayment(payment)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO payments (
			payment_id, payer_id, target_kind, target_id, amount, amount_applied,
			amount_leftover, description, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.PaymentID,
		m.PayerID,
		m.TargetKind,
		m.TargetID,
		m.Amount,
		m.AmountApplied,
		m.AmountLeftover,
		m.Description,
		m.CreatedAt,
	)
	for i, l := range lines {
		batch.Queue(`
			INSERT INTO payment_allocations (payment_id, line_no, split_id, expense_id, amount_applied, remaining_amount, is_paid)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			l.PaymentID,
			i,
			l.SplitID,
			l.ExpenseID,
			l.AmountApplied,
			l.RemainingAmount,
			l.IsPaid,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, m.PaymentID)
		}
		return apperrors.NewPersistenceError("failed to insert payment "+m.PaymentID, err)
	}
	return nil
}

// ListPaymentsByPayer returns the newest payments first with their lines.
func (r *PgxPaymentRepository) ListPaymentsByPayer(ctx context.Context, payerID string, limit int) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, payer_id, target_kind, target_id, amount, amount_applied,
		       amount_leftover, description, created_at
		FROM payments
		WHERE payer_id = $1
		ORDER BY created_at DESC, payment_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, payerID, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list payments", err)
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		var m models.Payment
		err := row.Scan(
			&m.PaymentID,
			&m.PayerID,
			&m.TargetKind,
			&m.TargetID,
			&m.Amount,
			&m.AmountApplied,
			&m.AmountLeftover,
			&m.Description,
			&m.CreatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan payments", err)
	}
	if len(payments) == 0 {
		return []domain.Payment{}, nil
	}

	ids := make([]string, len(payments))
	for i, p := range payments {
		ids[i] = p.PaymentID
	}
	lineRows, err := r.Pool.Query(ctx, `
		SELECT payment_id, split_id, expense_id, amount_applied, remaining_amount, is_paid
		FROM payment_allocations
		WHERE payment_id = ANY($1)
		ORDER BY payment_id, line_no;`, ids)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query payment allocations", err)
	}
	lines, err := pgx.CollectRows(lineRows, func(row pgx.CollectableRow) (models.PaymentAllocation, error) {
		var l models.PaymentAllocation
		err := row.Scan(&l.PaymentID, &l.SplitID, &l.ExpenseID, &l.AmountApplied, &l.RemainingAmount, &l.IsPaid)
		return l, err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan payment allocations", err)
	}
	byPayment := make(map[string][]models.PaymentAllocation, len(payments))
	for _, l := range lines {
		byPayment[l.PaymentID] = append(byPayment[l.PaymentID], l)
	}

	out := make([]domain.Payment, len(payments))
	for i, p := range payments {
		out[i] = mapping.ToDomainPayment(p, byPayment[p.PaymentID])
	}
	return out, nil
}
