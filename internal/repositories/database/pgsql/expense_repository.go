package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/cliquepay/cliquepay_backend/internal/models"
	"github.com/cliquepay/cliquepay_backend/internal/utils/mapping"
	"github.com/cliquepay/cliquepay_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	expenseColumns = `e.expense_id, e.group_id, e.friend_id, e.paid_by, e.total_amount, e.remaining_amount,
		e.description, e.deadline, e.receipt_url, e.version, e.created_at, e.last_updated_at`
	splitColumns = `s.split_id, s.expense_id, s.user_id, s.total_amount, s.remaining_amount, s.is_paid, s.created_at, s.seq`
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses and their splits.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryWithTx
var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.GroupID,
		&m.FriendID,
		&m.PaidBy,
		&m.TotalAmount,
		&m.RemainingAmount,
		&m.Description,
		&m.Deadline,
		&m.ReceiptURL,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return domain.Expense{}, err
	}
	return mapping.ToDomainExpense(m), nil
}

func scanSplits(rows pgx.Rows) ([]domain.ExpenseSplit, error) {
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExpenseSplit, error) {
		var m models.ExpenseSplit
		err := row.Scan(
			&m.SplitID,
			&m.ExpenseID,
			&m.UserID,
			&m.TotalAmount,
			&m.RemainingAmount,
			&m.IsPaid,
			&m.CreatedAt,
			&m.Seq,
		)
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenseSplitSlice(ms), nil
}

// findExpense loads an expense and its splits through q. With lock set the
// expense row is locked before its splits.
func findExpense(ctx context.Context, q querier, expenseID string, lock bool) (*domain.ExpenseWithSplits, error) {
	suffix := ""
	if lock {
		suffix = " FOR UPDATE"
	}

	expense, err := scanExpense(q.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses e WHERE e.expense_id = $1`+suffix, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("expense")
		}
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to find expense %s", expenseID), err)
	}

	rows, err := q.Query(ctx,
		`SELECT `+splitColumns+` FROM expense_splits s WHERE s.expense_id = $1 ORDER BY s.seq`+suffix, expenseID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to query splits of expense %s", expenseID), err)
	}
	splits, err := scanSplits(rows)
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to scan splits of expense %s", expenseID), err)
	}
	return &domain.ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// FindExpenseByID retrieves an expense with its splits.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseWithSplits, error) {
	return findExpense(ctx, r.Pool, expenseID, false)
}

// FindExpenseForUpdateInTx locks an expense and its splits until tx ends.
func (r *PgxExpenseRepository) FindExpenseForUpdateInTx(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.ExpenseWithSplits, error) {
	return findExpense(ctx, tx, expenseID, true)
}

// ListExpensesForUser pages with a (created_at, expense_id) keyset cursor.
func (r *PgxExpenseRepository) ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExpenseWithSplits, *string, error) {
	var (
		cursorAt *time.Time
		cursorID *string
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID = &at, &id
	}

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		WHERE (e.paid_by = $1 OR EXISTS (
				SELECT 1 FROM expense_splits s WHERE s.expense_id = e.expense_id AND s.user_id = $1))
		  AND ($2::timestamptz IS NULL OR (e.created_at, e.expense_id) < ($2, $3))
		ORDER BY e.created_at DESC, e.expense_id DESC
		LIMIT $4;
	`
	// one extra row tells us whether another page exists
	rows, err := r.Pool.Query(ctx, query, userID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("failed to list expenses", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("failed to scan expenses", err)
	}

	var token *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
		token = &t
	}
	if len(expenses) == 0 {
		return []domain.ExpenseWithSplits{}, nil, nil
	}

	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ExpenseID
	}
	splitRows, err := r.Pool.Query(ctx,
		`SELECT `+splitColumns+` FROM expense_splits s WHERE s.expense_id = ANY($1) ORDER BY s.seq`, ids)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("failed to query expense splits", err)
	}
	splits, err := scanSplits(splitRows)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("failed to scan expense splits", err)
	}
	byExpense := make(map[string][]domain.ExpenseSplit, len(expenses))
	for _, s := range splits {
		byExpense[s.ExpenseID] = append(byExpense[s.ExpenseID], s)
	}

	out := make([]domain.ExpenseWithSplits, len(expenses))
	for i, e := range expenses {
		out[i] = domain.ExpenseWithSplits{Expense: e, Splits: byExpense[e.ExpenseID]}
	}
	return out, token, nil
}

// SaveExpenseInTx inserts an expense and its splits. Splits are inserted in
// order so the identity column gives them increasing seq values.
func (r *PgxExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, splits []domain.ExpenseSplit) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (
			expense_id, group_id, friend_id, paid_by, total_amount, remaining_amount,
			description, deadline, receipt_url, version, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.GroupID,
		m.FriendID,
		m.PaidBy,
		m.TotalAmount,
		m.RemainingAmount,
		m.Description,
		m.Deadline,
		m.ReceiptURL,
		m.Version,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, m.ExpenseID)
		}
		return apperrors.NewPersistenceError("failed to insert expense "+m.ExpenseID, err)
	}

	batch := &pgx.Batch{}
	splitQuery := `
		INSERT INTO expense_splits (split_id, expense_id, user_id, total_amount, remaining_amount, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, s := range splits {
		ms := mapping.ToModelExpenseSplit(s)
		batch.Queue(splitQuery,
			ms.SplitID,
			ms.ExpenseID,
			ms.UserID,
			ms.TotalAmount,
			ms.RemainingAmount,
			ms.IsPaid,
			ms.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewPersistenceError("failed to insert splits for expense "+m.ExpenseID, err)
	}
	return nil
}

// UpdateExpenseInTx writes the mutable columns guarded by the version.
func (r *PgxExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, expectedVersion int64) error {
	m := mapping.ToModelExpense(expense)
	query := `
		UPDATE expenses
		SET description = $2, deadline = $3, receipt_url = $4, total_amount = $5,
		    remaining_amount = $6, version = $7, last_updated_at = $8
		WHERE expense_id = $1 AND version = $9;
	`
	tag, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.Description,
		m.Deadline,
		m.ReceiptURL,
		m.TotalAmount,
		m.RemainingAmount,
		m.Version,
		m.LastUpdatedAt,
		expectedVersion,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to update expense "+m.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, tx, m.ExpenseID)
	}
	return nil
}

func (r *PgxExpenseRepository) missingOrConflict(ctx context.Context, tx pgx.Tx, expenseID string) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM expenses WHERE expense_id = $1)`, expenseID).Scan(&exists)
	if err != nil {
		return apperrors.NewPersistenceError("failed to check expense "+expenseID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("expense")
	}
	return apperrors.NewConflictError(fmt.Sprintf("expense %s was modified concurrently", expenseID))
}

// UpdateSplitsInTx writes the amounts and paid flag of each split.
func (r *PgxExpenseRepository) UpdateSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.ExpenseSplit) error {
	if len(splits) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		UPDATE expense_splits
		SET total_amount = $2, remaining_amount = $3, is_paid = $4
		WHERE split_id = $1;
	`
	for _, s := range splits {
		batch.Queue(query, s.SplitID, s.TotalAmount, s.RemainingAmount, s.IsPaid)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, s := range splits {
		tag, err := br.Exec()
		if err != nil {
			return apperrors.NewPersistenceError("failed to update split "+s.SplitID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("expense split")
		}
	}
	return br.Close()
}

// DeleteExpenseInTx removes an expense; its splits go with it via ON DELETE CASCADE.
func (r *PgxExpenseRepository) DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return apperrors.NewPersistenceError("failed to delete expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense")
	}
	return nil
}

// FindOutstandingSplitsForUpdateInTx locks the matching expense rows in id
// order, then the debtor's unpaid splits, and returns the splits oldest first.
func (r *PgxExpenseRepository) FindOutstandingSplitsForUpdateInTx(ctx context.Context, tx pgx.Tx, debtorID string, target domain.PaymentTarget) ([]domain.ExpenseSplit, error) {
	var targetCond string
	switch target.(type) {
	case domain.TargetCounterparty:
		targetCond = `e.paid_by = $2`
	case domain.TargetGroup:
		targetCond = `e.group_id = $2`
	default:
		return nil, fmt.Errorf("%w: unknown payment target", apperrors.ErrValidation)
	}

	lockQuery := `
		SELECT e.expense_id
		FROM expenses e
		WHERE e.paid_by <> $1 AND ` + targetCond + `
		  AND EXISTS (
			SELECT 1 FROM expense_splits s
			WHERE s.expense_id = e.expense_id AND s.user_id = $1 AND NOT s.is_paid)
		ORDER BY e.expense_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, debtorID, target.ID())
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to lock expenses for settlement", err)
	}
	expenseIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan locked expenses", err)
	}
	if len(expenseIDs) == 0 {
		return nil, nil
	}

	splitQuery := `
		SELECT ` + splitColumns + `
		FROM expense_splits s
		WHERE s.expense_id = ANY($1) AND s.user_id = $2 AND NOT s.is_paid AND s.remaining_amount > 0
		ORDER BY s.created_at, s.seq, s.split_id
		FOR UPDATE;
	`
	splitRows, err := tx.Query(ctx, splitQuery, expenseIDs, debtorID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to lock outstanding splits", err)
	}
	splits, err := scanSplits(splitRows)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan outstanding splits", err)
	}
	return splits, nil
}

// DecrementExpenseRemainingInTx lowers remaining_amount, refusing to go below zero.
func (r *PgxExpenseRepository) DecrementExpenseRemainingInTx(ctx context.Context, tx pgx.Tx, expenseID string, amount decimal.Decimal) error {
	query := `
		UPDATE expenses
		SET remaining_amount = remaining_amount - $2, version = version + 1, last_updated_at = $3
		WHERE expense_id = $1 AND remaining_amount >= $2;
	`
	tag, err := tx.Exec(ctx, query, expenseID, amount, time.Now().UTC())
	if err != nil {
		return apperrors.NewPersistenceError("failed to decrement expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		if err := r.missingOrConflict(ctx, tx, expenseID); errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: remaining amount of expense %s would go negative", apperrors.ErrInternal, expenseID)
	}
	return nil
}
