package mapping

import (
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/models"
)

// ToModelExpense flattens the expense scope into its nullable columns.
func ToModelExpense(d domain.Expense) models.Expense {
	groupID, friendID := domain.ScopeIDs(d.Scope)
	return models.Expense{
		ExpenseID:       d.ExpenseID,
		GroupID:         groupID,
		FriendID:        friendID,
		PaidBy:          d.PaidBy,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		Description:     d.Description,
		Deadline:        d.Deadline,
		ReceiptURL:      d.ReceiptURL,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:       m.ExpenseID,
		Scope:           domain.ScopeFromIDs(m.GroupID, m.FriendID),
		PaidBy:          m.PaidBy,
		TotalAmount:     m.TotalAmount,
		RemainingAmount: m.RemainingAmount,
		Description:     m.Description,
		Deadline:        m.Deadline,
		ReceiptURL:      m.ReceiptURL,
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpenseSplit converts a domain ExpenseSplit to a model ExpenseSplit
func ToModelExpenseSplit(d domain.ExpenseSplit) models.ExpenseSplit {
	return models.ExpenseSplit{
		SplitID:         d.SplitID,
		ExpenseID:       d.ExpenseID,
		UserID:          d.UserID,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		IsPaid:          d.IsPaid,
		CreatedAt:       d.CreatedAt,
		Seq:             d.Seq,
	}
}

// ToDomainExpenseSplit converts a model ExpenseSplit to a domain ExpenseSplit
func ToDomainExpenseSplit(m models.ExpenseSplit) domain.ExpenseSplit {
	return domain.ExpenseSplit{
		SplitID:         m.SplitID,
		ExpenseID:       m.ExpenseID,
		UserID:          m.UserID,
		TotalAmount:     m.TotalAmount,
		RemainingAmount: m.RemainingAmount,
		IsPaid:          m.IsPaid,
		CreatedAt:       m.CreatedAt,
		Seq:             m.Seq,
	}
}

// ToDomainExpenseSplitSlice converts a slice of model splits to domain splits
func ToDomainExpenseSplitSlice(ms []models.ExpenseSplit) []domain.ExpenseSplit {
	ds := make([]domain.ExpenseSplit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpenseSplit(m)
	}
	return ds
}
