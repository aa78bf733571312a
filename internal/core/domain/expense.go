package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseScope says who an expense is shared with. It is either a ScopeGroup
// or a ScopeCounterparty, never both.
type ExpenseScope interface {
	isExpenseScope()
	// Kind returns "group" or "friend".
	Kind() string
}

// ScopeGroup shares an expense across the current members of a group.
type ScopeGroup struct {
	GroupID string
}

// ScopeCounterparty shares an expense with a single other user.
type ScopeCounterparty struct {
	UserID string
}

func (ScopeGroup) isExpenseScope()        {}
func (ScopeCounterparty) isExpenseScope() {}

func (ScopeGroup) Kind() string        { return "group" }
func (ScopeCounterparty) Kind() string { return "friend" }

// ScopeIDs flattens a scope into its nullable column form.
func ScopeIDs(s ExpenseScope) (groupID *string, friendID *string) {
	switch v := s.(type) {
	case ScopeGroup:
		id := v.GroupID
		return &id, nil
	case ScopeCounterparty:
		id := v.UserID
		return nil, &id
	}
	return nil, nil
}

// ScopeFromIDs rebuilds a scope from its nullable column form. It returns nil
// unless exactly one id is set.
func ScopeFromIDs(groupID *string, friendID *string) ExpenseScope {
	hasGroup := groupID != nil && *groupID != ""
	hasFriend := friendID != nil && *friendID != ""
	switch {
	case hasGroup && !hasFriend:
		return ScopeGroup{GroupID: *groupID}
	case hasFriend && !hasGroup:
		return ScopeCounterparty{UserID: *friendID}
	}
	return nil
}

// Expense is a single payment made by one user and owed back by others.
type Expense struct {
	ExpenseID       string          `json:"expenseID"`
	Scope           ExpenseScope    `json:"-"`
	PaidBy          string          `json:"paidBy"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Description     string          `json:"description"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	ReceiptURL      *string         `json:"receiptURL,omitempty"`
	Version         int64           `json:"version"`
	AuditFields
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	SplitID         string          `json:"splitID"`
	ExpenseID       string          `json:"expenseID"`
	UserID          string          `json:"userID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	IsPaid          bool            `json:"isPaid"`
	CreatedAt       time.Time       `json:"createdAt"`
	// Seq orders splits created at the same instant.
	Seq int64 `json:"-"`
}

// ExpenseWithSplits is the projection returned by the expense engine.
type ExpenseWithSplits struct {
	Expense
	Splits []ExpenseSplit `json:"splits"`
}

// IsParticipant reports whether userID is the payer or owes a split.
func (e ExpenseWithSplits) IsParticipant(userID string) bool {
	if e.PaidBy == userID {
		return true
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// SumSplitTotals returns the sum of the splits' total amounts.
func SumSplitTotals(splits []ExpenseSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.TotalAmount)
	}
	return sum
}

// ExpectedRemaining recomputes an expense's remaining amount from its splits:
// outstanding balances of the debtors plus the payer's own share.
func ExpectedRemaining(paidBy string, splits []ExpenseSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		if s.UserID == paidBy {
			sum = sum.Add(s.TotalAmount)
			continue
		}
		sum = sum.Add(s.RemainingAmount)
	}
	return sum
}
