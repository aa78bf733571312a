package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestScopeFromIDs(t *testing.T) {
	tests := []struct {
		name     string
		groupID  *string
		friendID *string
		want     ExpenseScope
	}{
		{"group only", strPtr("g1"), nil, ScopeGroup{GroupID: "g1"}},
		{"friend only", nil, strPtr("u1"), ScopeCounterparty{UserID: "u1"}},
		{"both", strPtr("g1"), strPtr("u1"), nil},
		{"neither", nil, nil, nil},
		{"empty strings count as unset", strPtr(""), strPtr("u1"), ScopeCounterparty{UserID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeFromIDs(tt.groupID, tt.friendID))
		})
	}
}

func TestScopeIDs(t *testing.T) {
	g, f := ScopeIDs(ScopeGroup{GroupID: "g1"})
	assert.Equal(t, "g1", *g)
	assert.Nil(t, f)

	g, f = ScopeIDs(ScopeCounterparty{UserID: "u1"})
	assert.Nil(t, g)
	assert.Equal(t, "u1", *f)
}

func TestExpectedRemaining(t *testing.T) {
	splits := []ExpenseSplit{
		{UserID: "payer", TotalAmount: decimal.NewFromInt(30), RemainingAmount: decimal.Zero, IsPaid: true},
		{UserID: "a", TotalAmount: decimal.NewFromInt(30), RemainingAmount: decimal.NewFromInt(10)},
		{UserID: "b", TotalAmount: decimal.NewFromInt(30), RemainingAmount: decimal.NewFromInt(30)},
	}

	assert.True(t, decimal.NewFromInt(70).Equal(ExpectedRemaining("payer", splits)))
	assert.True(t, decimal.NewFromInt(90).Equal(SumSplitTotals(splits)))

	e := ExpenseWithSplits{Expense: Expense{PaidBy: "payer"}, Splits: splits}
	assert.True(t, e.IsParticipant("payer"))
	assert.True(t, e.IsParticipant("b"))
	assert.False(t, e.IsParticipant("stranger"))
}
