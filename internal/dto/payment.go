package dto

import (
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest pays down what the caller owes to one user (UserID)
// or within one group (GroupID). Exactly one target must be set.
type RecordPaymentRequest struct {
	UserID      *string         `json:"userID"`
	GroupID     *string         `json:"groupID"`
	Amount      decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"45.00"`
	Description string          `json:"description" binding:"max=500"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=200"`
}

// SplitAllocationResponse is what a payment did to one split.
type SplitAllocationResponse struct {
	SplitID         string          `json:"splitID"`
	ExpenseID       string          `json:"expenseID"`
	AmountApplied   decimal.Decimal `json:"amountApplied" swaggertype:"string"`
	RemainingAmount decimal.Decimal `json:"remainingAmount" swaggertype:"string"`
	IsPaid          bool            `json:"isPaid"`
}

// PaymentResponse defines the data returned for a recorded payment.
type PaymentResponse struct {
	PaymentID      string                    `json:"paymentID"`
	TargetKind     string                    `json:"targetKind"`
	TargetID       string                    `json:"targetID"`
	Amount         decimal.Decimal           `json:"amount" swaggertype:"string"`
	AmountApplied  decimal.Decimal           `json:"amountApplied" swaggertype:"string"`
	AmountLeftover decimal.Decimal           `json:"amountLeftover" swaggertype:"string"`
	Description    string                    `json:"description"`
	CreatedAt      time.Time                 `json:"createdAt"`
	SplitsAffected []SplitAllocationResponse `json:"splitsAffected"`
}

// ListPaymentsResponse wraps the caller's payment history.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	lines := make([]SplitAllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		lines[i] = SplitAllocationResponse{
			SplitID:         a.SplitID,
			ExpenseID:       a.ExpenseID,
			AmountApplied:   a.AmountApplied,
			RemainingAmount: a.RemainingAmount,
			IsPaid:          a.IsPaid,
		}
	}
	resp := PaymentResponse{
		PaymentID:      p.PaymentID,
		Amount:         p.Amount,
		AmountApplied:  p.AmountApplied,
		AmountLeftover: p.AmountLeftover,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		SplitsAffected: lines,
	}
	if p.Target != nil {
		resp.TargetKind = p.Target.Kind()
		resp.TargetID = p.Target.ID()
	}
	return resp
}

// ToListPaymentsResponse converts a slice of domain.Payment to ListPaymentsResponse DTO
func ToListPaymentsResponse(ps []domain.Payment) ListPaymentsResponse {
	out := make([]PaymentResponse, len(ps))
	for i := range ps {
		out[i] = ToPaymentResponse(&ps[i])
	}
	return ListPaymentsResponse{Payments: out}
}
