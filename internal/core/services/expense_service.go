package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	defaultListLimit     = 20
	maxListLimit         = 100
)

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryWithTx
	userRepo    portsrepo.UserReader
	groupRepo   portsrepo.GroupReader
	now         func() time.Time
	newID       func() string
}

// NewExpenseService creates a new expense service with the provided options
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryWithTx, userRepo portsrepo.UserReader, groupRepo portsrepo.GroupReader, options ...ServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		BaseService: newBaseService(),
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, payerID string) (*domain.ExpenseWithSplits, error) {
	scope, err := scopeFromRequest(req.GroupID, req.FriendID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount("totalAmount", req.TotalAmount); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByID(ctx, payerID); err != nil {
		s.LogError(ctx, err, "Payer lookup failed", slog.String("payer_id", payerID))
		return nil, fmt.Errorf("failed to resolve payer: %w", err)
	}

	participants, err := s.participants(ctx, scope, payerID)
	if err != nil {
		return nil, err
	}

	shares, err := accounting.SplitEvenly(req.TotalAmount, len(participants))
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:       s.newID(),
		Scope:           scope,
		PaidBy:          payerID,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.TotalAmount,
		Description:     req.Description,
		Deadline:        req.Deadline,
		ReceiptURL:      req.ReceiptURL,
		Version:         1,
		AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	splits := make([]domain.ExpenseSplit, len(participants))
	for i, userID := range participants {
		split := domain.ExpenseSplit{
			SplitID:         s.newID(),
			ExpenseID:       expense.ExpenseID,
			UserID:          userID,
			TotalAmount:     shares[i],
			RemainingAmount: shares[i],
			CreatedAt:       now,
		}
		// The payer's own share is settled from the start.
		if userID == payerID {
			split.RemainingAmount = decimal.Zero
			split.IsPaid = true
		}
		splits[i] = split
	}

	err = s.runInTx(ctx, s.expenseRepo, func(tx pgx.Tx) error {
		return s.expenseRepo.SaveExpenseInTx(ctx, tx, expense, splits)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	result := &domain.ExpenseWithSplits{Expense: expense, Splits: splits}
	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("scope", scope.Kind()),
		slog.Int("splits", len(splits)))
	s.metrics.ExpenseCreated(scope.Kind())
	s.publish(ctx, portssvc.EventExpenseCreated, expense.ExpenseID, domain.NewExpenseEvent(*result, now))
	return result, nil
}

// participants lists who shares an expense, in split order.
func (s *expenseService) participants(ctx context.Context, scope domain.ExpenseScope, payerID string) ([]string, error) {
	switch sc := scope.(type) {
	case domain.ScopeGroup:
		if _, err := s.groupRepo.FindGroupByID(ctx, sc.GroupID); err != nil {
			return nil, fmt.Errorf("failed to resolve group: %w", err)
		}
		members, err := s.groupRepo.ListGroupMemberIDs(ctx, sc.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group members: %w", err)
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: group %s has no members", apperrors.ErrEmptyGroup, sc.GroupID)
		}
		return members, nil
	case domain.ScopeCounterparty:
		if sc.UserID == payerID {
			return []string{payerID}, nil
		}
		if _, err := s.userRepo.FindUserByID(ctx, sc.UserID); err != nil {
			return nil, fmt.Errorf("failed to resolve counterparty: %w", err)
		}
		// The counterparty comes first so an odd cent lands on the debtor.
		return []string{sc.UserID, payerID}, nil
	}
	return nil, fmt.Errorf("%w: unknown expense scope", apperrors.ErrValidation)
}

func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.ExpenseWithSplits, error) {
	if req.TotalAmount != nil {
		if err := accounting.ValidateAmount("totalAmount", *req.TotalAmount); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	var result *domain.ExpenseWithSplits
	err := s.runInTx(ctx, s.expenseRepo, func(tx pgx.Tx) error {
		current, err := s.expenseRepo.FindExpenseForUpdateInTx(ctx, tx, expenseID)
		if err != nil {
			return err
		}
		if current.PaidBy != requestingUserID {
			return fmt.Errorf("%w: only the payer can update expense %s", apperrors.ErrForbidden, expenseID)
		}
		if req.Version != nil && *req.Version != current.Version {
			return fmt.Errorf("%w: expense %s is at version %d, not %d", apperrors.ErrConflict, expenseID, current.Version, *req.Version)
		}

		updated := current.Expense
		splits := append([]domain.ExpenseSplit(nil), current.Splits...)

		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.ClearDeadline {
			updated.Deadline = nil
		} else if req.Deadline != nil {
			updated.Deadline = req.Deadline
		}
		if req.ReceiptURL != nil {
			updated.ReceiptURL = req.ReceiptURL
		}

		if req.TotalAmount != nil && !req.TotalAmount.Equal(current.TotalAmount) {
			if err := rescaleSplits(splits, current.TotalAmount, *req.TotalAmount); err != nil {
				return err
			}
			updated.TotalAmount = *req.TotalAmount
			updated.RemainingAmount = domain.ExpectedRemaining(updated.PaidBy, splits)
			if err := s.expenseRepo.UpdateSplitsInTx(ctx, tx, splits); err != nil {
				return err
			}
		}

		updated.Version = current.Version + 1
		updated.LastUpdatedAt = s.now()
		if err := s.expenseRepo.UpdateExpenseInTx(ctx, tx, updated, current.Version); err != nil {
			return err
		}
		result = &domain.ExpenseWithSplits{Expense: updated, Splits: splits}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", expenseID), slog.Int64("version", result.Version))
	s.publish(ctx, portssvc.EventExpenseUpdated, expenseID, domain.NewExpenseEvent(*result, result.LastUpdatedAt))
	return result, nil
}

// rescaleSplits rescales the splits in place from oldTotal to newTotal.
func rescaleSplits(splits []domain.ExpenseSplit, oldTotal, newTotal decimal.Decimal) error {
	shares := make([]accounting.Share, len(splits))
	for i, sp := range splits {
		shares[i] = accounting.Share{Total: sp.TotalAmount, Remaining: sp.RemainingAmount}
	}
	rescaled, err := accounting.RescaleShares(shares, oldTotal, newTotal)
	if err != nil {
		return err
	}
	for i := range splits {
		splits[i].TotalAmount = rescaled[i].Total
		splits[i].RemainingAmount = rescaled[i].Remaining
	}
	return nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error {
	var deleted *domain.ExpenseWithSplits
	err := s.runInTx(ctx, s.expenseRepo, func(tx pgx.Tx) error {
		current, err := s.expenseRepo.FindExpenseForUpdateInTx(ctx, tx, expenseID)
		if err != nil {
			return err
		}
		if current.PaidBy != requestingUserID {
			return fmt.Errorf("%w: only the payer can delete expense %s", apperrors.ErrForbidden, expenseID)
		}
		deleted = current
		return s.expenseRepo.DeleteExpenseInTx(ctx, tx, expenseID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.LogInfo(ctx, "Expense deleted", slog.String("expense_id", expenseID))
	s.publish(ctx, portssvc.EventExpenseDeleted, expenseID, domain.NewExpenseEvent(*deleted, s.now()))
	return nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID string, requestingUserID string) (*domain.ExpenseWithSplits, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsParticipant(requestingUserID) {
		s.LogDebug(ctx, "Expense hidden from non-participant",
			slog.String("expense_id", expenseID),
			slog.String("user_id", requestingUserID))
		return nil, apperrors.NewNotFoundError("expense")
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	expenses, nextToken, err := s.expenseRepo.ListExpensesForUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &dto.ListExpensesResponse{
		Expenses:  dto.ToExpenseResponses(expenses),
		NextToken: nextToken,
	}, nil
}

// scopeFromRequest requires exactly one of groupID and friendID.
func scopeFromRequest(groupID, friendID *string) (domain.ExpenseScope, error) {
	scope := domain.ScopeFromIDs(groupID, friendID)
	if scope == nil {
		return nil, fmt.Errorf("%w: exactly one of groupID and friendID is required", apperrors.ErrValidation)
	}
	return scope, nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, maxDescriptionLength)
	}
	return nil
}
