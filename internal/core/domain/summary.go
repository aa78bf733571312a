package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary aggregates a user's outstanding balances.
type FinancialSummary struct {
	UserID    string          `json:"userID"`
	YouOwe    decimal.Decimal `json:"youOwe"`
	TheyOwe   decimal.Decimal `json:"theyOwe"`
	TotalBill decimal.Decimal `json:"totalBill"`
}

// DebtRow is one unpaid split the user owes, joined with its expense.
type DebtRow struct {
	SplitID         string
	ExpenseID       string
	CreditorID      string
	CreditorName    string
	Description     string
	RemainingAmount decimal.Decimal
	ExpenseTotal    decimal.Decimal
	GroupID         *string
	GroupName       *string
	Deadline        *time.Time
	CreatedAt       time.Time
	SplitSeq        int64
}

// SettlementExpense is a contributing expense within a settlement entry.
type SettlementExpense struct {
	ExpenseID    string          `json:"expenseID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	CreatedAt    time.Time       `json:"createdAt"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	GroupID      *string         `json:"groupID,omitempty"`
	GroupName    *string         `json:"groupName,omitempty"`
}

// SettlementEntry is everything the user owes one creditor.
type SettlementEntry struct {
	CreditorID   string              `json:"creditorID"`
	CreditorName string              `json:"creditorName"`
	TotalOwed    decimal.Decimal     `json:"totalOwed"`
	Expenses     []SettlementExpense `json:"expenses"`
}

// SettlementSheet is the per-creditor breakdown of a user's debts.
type SettlementSheet struct {
	UserID     string            `json:"userID"`
	Entries    []SettlementEntry `json:"entries"`
	TotalToPay decimal.Decimal   `json:"totalToPay"`
}
