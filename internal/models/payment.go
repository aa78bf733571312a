package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	PayerID        string          `db:"payer_id"`
	TargetKind     string          `db:"target_kind"`
	TargetID       string          `db:"target_id"`
	Amount         decimal.Decimal `db:"amount"`
	AmountApplied  decimal.Decimal `db:"amount_applied"`
	AmountLeftover decimal.Decimal `db:"amount_leftover"`
	Description    string          `db:"description"`
	CreatedAt      time.Time       `db:"created_at"`
}

// PaymentAllocation is a row of the payment_allocations table.
type PaymentAllocation struct {
	PaymentID       string          `db:"payment_id"`
	SplitID         string          `db:"split_id"`
	ExpenseID       string          `db:"expense_id"`
	AmountApplied   decimal.Decimal `db:"amount_applied"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	IsPaid          bool            `db:"is_paid"`
}
