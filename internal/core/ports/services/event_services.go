package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// Domain event names. Publishers may prefix them to build a topic.
const (
	EventExpenseCreated  = "expense.created"
	EventExpenseUpdated  = "expense.updated"
	EventExpenseDeleted  = "expense.deleted"
	EventPaymentRecorded = "payment.recorded"
)

// EventPublisher delivers domain events after the change that raised them
// has committed.
type EventPublisher interface {
	Publish(ctx context.Context, event string, key string, payload any) error
}

// MetricsRecorder receives domain counters.
type MetricsRecorder interface {
	ExpenseCreated(scope string)
	PaymentRecorded(applied, leftover decimal.Decimal)
}
