package pgsql

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFinancialRepository struct {
	BaseRepository
}

func newPgxFinancialRepository(pool *pgxpool.Pool) portsrepo.FinancialReader {
	return &PgxFinancialRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FinancialReader = (*PgxFinancialRepository)(nil)

func (r *PgxFinancialRepository) sum(ctx context.Context, query, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewPersistenceError("failed to sum outstanding splits", err)
	}
	return total, nil
}

func (r *PgxFinancialRepository) SumOwedByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM(s.remaining_amount), 0)
		FROM expense_splits s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE s.user_id = $1 AND e.paid_by <> $1 AND NOT s.is_paid;`, userID)
}

func (r *PgxFinancialRepository) SumOwedToUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM(s.remaining_amount), 0)
		FROM expense_splits s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE e.paid_by = $1 AND s.user_id <> $1 AND NOT s.is_paid;`, userID)
}

func (r *PgxFinancialRepository) ListDebtRows(ctx context.Context, userID string) ([]domain.DebtRow, error) {
	query := `
		SELECT s.split_id, e.expense_id, e.paid_by, u.name, e.description, s.remaining_amount,
		       e.total_amount, e.group_id, g.name, e.deadline, e.created_at, s.seq
		FROM expense_splits s
		JOIN expenses e ON e.expense_id = s.expense_id
		JOIN users u ON u.user_id = e.paid_by
		LEFT JOIN groups g ON g.group_id = e.group_id
		WHERE s.user_id = $1 AND e.paid_by <> $1 AND NOT s.is_paid
		ORDER BY e.paid_by, e.created_at, s.seq;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query debt rows", err)
	}
	debts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DebtRow, error) {
		var d domain.DebtRow
		err := row.Scan(
			&d.SplitID,
			&d.ExpenseID,
			&d.CreditorID,
			&d.CreditorName,
			&d.Description,
			&d.RemainingAmount,
			&d.ExpenseTotal,
			&d.GroupID,
			&d.GroupName,
			&d.Deadline,
			&d.CreatedAt,
			&d.SplitSeq,
		)
		return d, err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan debt rows", err)
	}
	return debts, nil
}
