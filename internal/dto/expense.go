package dto

import (
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to create a new expense.
// Exactly one of GroupID and FriendID must be set.
type CreateExpenseRequest struct {
	GroupID     *string         `json:"groupID"`
	FriendID    *string         `json:"friendID"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required,money" swaggertype:"string" example:"90.00"`
	Description string          `json:"description" binding:"max=500"`
	Deadline    *time.Time      `json:"deadline"`
	ReceiptURL  *string         `json:"receiptURL" binding:"omitempty,url"`
}

// UpdateExpenseRequest defines the data allowed for updating an expense.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateExpenseRequest struct {
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	Deadline      *time.Time       `json:"deadline"`
	ClearDeadline bool             `json:"clearDeadline"`
	ReceiptURL    *string          `json:"receiptURL" binding:"omitempty,url"`
	TotalAmount   *decimal.Decimal `json:"totalAmount" binding:"omitempty,money" swaggertype:"string" example:"120.00"`
	// Version, when set, must match the stored version or the update fails with a conflict.
	Version *int64 `json:"version"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// SplitResponse is one participant's share of an expense.
type SplitResponse struct {
	SplitID         string          `json:"splitID"`
	UserID          string          `json:"userID"`
	TotalAmount     decimal.Decimal `json:"totalAmount" swaggertype:"string"`
	RemainingAmount decimal.Decimal `json:"remainingAmount" swaggertype:"string"`
	IsPaid          bool            `json:"isPaid"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID       string          `json:"expenseID"`
	Scope           string          `json:"scope"`
	GroupID         *string         `json:"groupID,omitempty"`
	FriendID        *string         `json:"friendID,omitempty"`
	PaidBy          string          `json:"paidBy"`
	TotalAmount     decimal.Decimal `json:"totalAmount" swaggertype:"string"`
	RemainingAmount decimal.Decimal `json:"remainingAmount" swaggertype:"string"`
	Description     string          `json:"description"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	ReceiptURL      *string         `json:"receiptURL,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
	Splits          []SplitResponse `json:"splits"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.ExpenseWithSplits to ExpenseResponse DTO
func ToExpenseResponse(e *domain.ExpenseWithSplits) ExpenseResponse {
	groupID, friendID := domain.ScopeIDs(e.Scope)
	scope := ""
	if e.Scope != nil {
		scope = e.Scope.Kind()
	}
	splits := make([]SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = SplitResponse{
			SplitID:         s.SplitID,
			UserID:          s.UserID,
			TotalAmount:     s.TotalAmount,
			RemainingAmount: s.RemainingAmount,
			IsPaid:          s.IsPaid,
			CreatedAt:       s.CreatedAt,
		}
	}
	return ExpenseResponse{
		ExpenseID:       e.ExpenseID,
		Scope:           scope,
		GroupID:         groupID,
		FriendID:        friendID,
		PaidBy:          e.PaidBy,
		TotalAmount:     e.TotalAmount,
		RemainingAmount: e.RemainingAmount,
		Description:     e.Description,
		Deadline:        e.Deadline,
		ReceiptURL:      e.ReceiptURL,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		LastUpdatedAt:   e.LastUpdatedAt,
		Splits:          splits,
	}
}

// ToExpenseResponses converts a slice of expenses to []ExpenseResponse.
func ToExpenseResponses(es []domain.ExpenseWithSplits) []ExpenseResponse {
	out := make([]ExpenseResponse, len(es))
	for i := range es {
		out[i] = ToExpenseResponse(&es[i])
	}
	return out
}
