package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTarget selects which outstanding splits a payment pays down: either
// everything owed to one counterparty or everything owed within one group.
type PaymentTarget interface {
	isPaymentTarget()
	Kind() string
	ID() string
}

// TargetCounterparty pays down splits of expenses paid by UserID.
type TargetCounterparty struct {
	UserID string
}

// TargetGroup pays down splits of expenses scoped to GroupID.
type TargetGroup struct {
	GroupID string
}

func (TargetCounterparty) isPaymentTarget() {}
func (TargetGroup) isPaymentTarget()        {}

func (TargetCounterparty) Kind() string { return "friend" }
func (TargetGroup) Kind() string        { return "group" }

func (t TargetCounterparty) ID() string { return t.UserID }
func (t TargetGroup) ID() string        { return t.GroupID }

// TargetFromKind rebuilds a target from its persisted kind and id.
func TargetFromKind(kind, id string) PaymentTarget {
	if kind == "group" {
		return TargetGroup{GroupID: id}
	}
	return TargetCounterparty{UserID: id}
}

// SplitAllocation is the outcome of a payment against a single split.
type SplitAllocation struct {
	SplitID         string          `json:"splitID"`
	ExpenseID       string          `json:"expenseID"`
	AmountApplied   decimal.Decimal `json:"amountApplied"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	IsPaid          bool            `json:"isPaid"`
}

// Payment is a recorded settlement and how it was allocated.
type Payment struct {
	PaymentID      string            `json:"paymentID"`
	PayerID        string            `json:"payerID"`
	Target         PaymentTarget     `json:"-"`
	Amount         decimal.Decimal   `json:"amount"`
	AmountApplied  decimal.Decimal   `json:"amountApplied"`
	AmountLeftover decimal.Decimal   `json:"amountLeftover"`
	Description    string            `json:"description"`
	Allocations    []SplitAllocation `json:"allocations"`
	CreatedAt      time.Time         `json:"createdAt"`
}
