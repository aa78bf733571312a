package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseEvent is published when an expense is created, updated or deleted.
type ExpenseEvent struct {
	ExpenseID       string          `json:"expenseID"`
	PaidBy          string          `json:"paidBy"`
	Scope           string          `json:"scope"`
	ScopeID         string          `json:"scopeID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Participants    int             `json:"participants"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// PaymentEvent is published when a payment is recorded.
type PaymentEvent struct {
	PaymentID      string          `json:"paymentID"`
	PayerID        string          `json:"payerID"`
	TargetKind     string          `json:"targetKind"`
	TargetID       string          `json:"targetID"`
	Amount         decimal.Decimal `json:"amount"`
	AmountApplied  decimal.Decimal `json:"amountApplied"`
	AmountLeftover decimal.Decimal `json:"amountLeftover"`
	SplitIDs       []string        `json:"splitIDs"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// NewExpenseEvent builds the event payload for an expense.
func NewExpenseEvent(e ExpenseWithSplits, at time.Time) ExpenseEvent {
	ev := ExpenseEvent{
		ExpenseID:       e.ExpenseID,
		PaidBy:          e.PaidBy,
		TotalAmount:     e.TotalAmount,
		RemainingAmount: e.RemainingAmount,
		Participants:    len(e.Splits),
		OccurredAt:      at,
	}
	switch s := e.Scope.(type) {
	case ScopeGroup:
		ev.Scope, ev.ScopeID = s.Kind(), s.GroupID
	case ScopeCounterparty:
		ev.Scope, ev.ScopeID = s.Kind(), s.UserID
	}
	return ev
}

// NewPaymentEvent builds the event payload for a payment.
func NewPaymentEvent(p Payment) PaymentEvent {
	ids := make([]string, len(p.Allocations))
	for i, a := range p.Allocations {
		ids[i] = a.SplitID
	}
	return PaymentEvent{
		PaymentID:      p.PaymentID,
		PayerID:        p.PayerID,
		TargetKind:     p.Target.Kind(),
		TargetID:       p.Target.ID(),
		Amount:         p.Amount,
		AmountApplied:  p.AmountApplied,
		AmountLeftover: p.AmountLeftover,
		SplitIDs:       ids,
		OccurredAt:     p.CreatedAt,
	}
}
