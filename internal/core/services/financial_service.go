package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/utils/accounting"
)

// financialService implements the FinancialSvcFacade interface
type financialService struct {
	BaseService
	financialRepo portsrepo.FinancialReader
	userRepo      portsrepo.UserReader
}

// NewFinancialService creates a new financial aggregator service
func NewFinancialService(financialRepo portsrepo.FinancialReader, userRepo portsrepo.UserReader) portssvc.FinancialSvcFacade {
	return &financialService{
		BaseService:   newBaseService(),
		financialRepo: financialRepo,
		userRepo:      userRepo,
	}
}

var _ portssvc.FinancialSvcFacade = (*financialService)(nil)

func (s *financialService) GetFinancialSummary(ctx context.Context, userID string) (*domain.FinancialSummary, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	youOwe, err := s.financialRepo.SumOwedByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum amounts owed by user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	theyOwe, err := s.financialRepo.SumOwedToUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum amounts owed to user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	return &domain.FinancialSummary{
		UserID:    userID,
		YouOwe:    youOwe,
		TheyOwe:   theyOwe,
		TotalBill: youOwe.Add(theyOwe),
	}, nil
}

func (s *financialService) GetSettlementSheet(ctx context.Context, userID string) (*domain.SettlementSheet, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	rows, err := s.financialRepo.ListDebtRows(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debt rows", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to compute settlement sheet: %w", err)
	}

	sheet := accounting.BuildSettlementSheet(userID, rows)
	s.LogDebug(ctx, "Settlement sheet built",
		slog.Int("creditors", len(sheet.Entries)),
		slog.String("total_to_pay", sheet.TotalToPay.StringFixed(domain.MoneyPlaces)))
	return &sheet, nil
}
