package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table. Exactly one of GroupID and
// FriendID is set; the table enforces it with a CHECK constraint.
type Expense struct {
	ExpenseID       string          `db:"expense_id"`
	GroupID         *string         `db:"group_id"`
	FriendID        *string         `db:"friend_id"`
	PaidBy          string          `db:"paid_by"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Description     string          `db:"description"`
	Deadline        *time.Time      `db:"deadline"`
	ReceiptURL      *string         `db:"receipt_url"`
	Version         int64           `db:"version"`
	AuditFields
}

// ExpenseSplit is a row of the expense_splits table.
type ExpenseSplit struct {
	SplitID         string          `db:"split_id"`
	ExpenseID       string          `db:"expense_id"`
	UserID          string          `db:"user_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	IsPaid          bool            `db:"is_paid"`
	CreatedAt       time.Time       `db:"created_at"`
	Seq             int64           `db:"seq"`
}
