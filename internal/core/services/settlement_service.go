package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultPaymentListLimit = 50
	maxPaymentListLimit     = 200
)

// settlementService implements the SettlementSvcFacade interface
type settlementService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryWithTx
	paymentRepo portsrepo.PaymentRepositoryFacade
	now         func() time.Time
	newID       func() string
}

// NewSettlementService creates a new settlement service with the provided options
func NewSettlementService(expenseRepo portsrepo.ExpenseRepositoryWithTx, paymentRepo portsrepo.PaymentRepositoryFacade, options ...ServiceOption) portssvc.SettlementSvcFacade {
	svc := &settlementService{
		BaseService: newBaseService(),
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

// Ensure settlementService implements the SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, payerID string) (*domain.Payment, error) {
	target, err := targetFromRequest(req, payerID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	logger := s.GetLogger(ctx).With(
		slog.String("payer_id", payerID),
		slog.String("target_kind", target.Kind()),
		slog.String("target_id", target.ID()))

	var payment domain.Payment
	err = s.runInTx(ctx, s.expenseRepo, func(tx pgx.Tx) error {
		candidates, err := s.expenseRepo.FindOutstandingSplitsForUpdateInTx(ctx, tx, payerID, target)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return fmt.Errorf("%w: nothing is owed to %s %s", apperrors.ErrNotFound, target.Kind(), target.ID())
		}
		accounting.SortFIFO(candidates)

		alloc := accounting.AllocatePayment(req.Amount, candidates)
		if err := s.expenseRepo.UpdateSplitsInTx(ctx, tx, alloc.Splits); err != nil {
			return err
		}

		expenseIDs := make([]string, 0, len(alloc.PerExpense))
		for id := range alloc.PerExpense {
			expenseIDs = append(expenseIDs, id)
		}
		sort.Strings(expenseIDs)
		for _, id := range expenseIDs {
			if err := s.expenseRepo.DecrementExpenseRemainingInTx(ctx, tx, id, alloc.PerExpense[id]); err != nil {
				return err
			}
		}

		payment = domain.Payment{
			PaymentID:      s.newID(),
			PayerID:        payerID,
			Target:         target,
			Amount:         req.Amount,
			AmountApplied:  alloc.Applied,
			AmountLeftover: alloc.Leftover,
			Description:    req.Description,
			Allocations:    alloc.Lines,
			CreatedAt:      s.now(),
		}
		return s.paymentRepo.SavePaymentInTx(ctx, tx, payment)
	})
	if err != nil {
		logger.Error("Failed to record payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("applied", payment.AmountApplied.StringFixed(domain.MoneyPlaces)),
		slog.String("leftover", payment.AmountLeftover.StringFixed(domain.MoneyPlaces)),
		slog.Int("splits_affected", len(payment.Allocations)))
	s.metrics.PaymentRecorded(payment.AmountApplied, payment.AmountLeftover)
	s.publish(ctx, portssvc.EventPaymentRecorded, payment.PaymentID, domain.NewPaymentEvent(payment))
	return &payment, nil
}

func (s *settlementService) ListPayments(ctx context.Context, userID string, params dto.ListPaymentsParams) ([]domain.Payment, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPaymentListLimit
	}
	if limit > maxPaymentListLimit {
		limit = maxPaymentListLimit
	}

	payments, err := s.paymentRepo.ListPaymentsByPayer(ctx, userID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// targetFromRequest requires exactly one target that is not the payer.
func targetFromRequest(req dto.RecordPaymentRequest, payerID string) (domain.PaymentTarget, error) {
	hasUser := req.UserID != nil && *req.UserID != ""
	hasGroup := req.GroupID != nil && *req.GroupID != ""
	switch {
	case hasUser && hasGroup, !hasUser && !hasGroup:
		return nil, fmt.Errorf("%w: exactly one of userID and groupID is required", apperrors.ErrValidation)
	case hasUser:
		if *req.UserID == payerID {
			return nil, fmt.Errorf("%w: cannot record a payment to yourself", apperrors.ErrValidation)
		}
		return domain.TargetCounterparty{UserID: *req.UserID}, nil
	default:
		return domain.TargetGroup{GroupID: *req.GroupID}, nil
	}
}
