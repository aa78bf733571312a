package dto

import (
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FinancialSummaryResponse is the dashboard balance view.
type FinancialSummaryResponse struct {
	YouOwe    decimal.Decimal `json:"youOwe" swaggertype:"string"`
	TheyOwe   decimal.Decimal `json:"theyOwe" swaggertype:"string"`
	TotalBill decimal.Decimal `json:"totalBill" swaggertype:"string"`
}

// SettlementExpenseResponse is an expense contributing to a settlement entry.
type SettlementExpenseResponse struct {
	ExpenseID    string          `json:"expenseID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal" swaggertype:"string"`
	CreatedAt    time.Time       `json:"createdAt"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	GroupID      *string         `json:"groupID,omitempty"`
	GroupName    *string         `json:"groupName,omitempty"`
}

// SettlementEntryResponse is everything owed to one creditor.
type SettlementEntryResponse struct {
	CreditorID   string                      `json:"id"`
	CreditorName string                      `json:"name"`
	Amount       decimal.Decimal             `json:"amount" swaggertype:"string"`
	Expenses     []SettlementExpenseResponse `json:"expenses"`
}

// SettlementSheetResponse is the per-creditor debt breakdown.
type SettlementSheetResponse struct {
	Settlements []SettlementEntryResponse `json:"settlements"`
	TotalToPay  decimal.Decimal           `json:"totalToPay" swaggertype:"string"`
}

// ToFinancialSummaryResponse converts a domain.FinancialSummary to its DTO
func ToFinancialSummaryResponse(s *domain.FinancialSummary) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		YouOwe:    s.YouOwe,
		TheyOwe:   s.TheyOwe,
		TotalBill: s.TotalBill,
	}
}

// ToSettlementSheetResponse converts a domain.SettlementSheet to its DTO
func ToSettlementSheetResponse(s *domain.SettlementSheet) SettlementSheetResponse {
	entries := make([]SettlementEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		expenses := make([]SettlementExpenseResponse, len(e.Expenses))
		for j, x := range e.Expenses {
			expenses[j] = SettlementExpenseResponse(x)
		}
		entries[i] = SettlementEntryResponse{
			CreditorID:   e.CreditorID,
			CreditorName: e.CreditorName,
			Amount:       e.TotalOwed,
			Expenses:     expenses,
		}
	}
	return SettlementSheetResponse{
		Settlements: entries,
		TotalToPay:  s.TotalToPay,
	}
}
