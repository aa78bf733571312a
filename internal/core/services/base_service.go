package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct {
	events  portssvc.EventPublisher
	metrics portssvc.MetricsRecorder
}

func newBaseService() BaseService {
	return BaseService{events: noopPublisher{}, metrics: noopMetrics{}}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// runInTx runs fn inside one transaction. The transaction is committed when
// fn returns nil and rolled back otherwise, including when fn panics.
func (s *BaseService) runInTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction")
		return err
	}
	committing := false
	defer func() {
		if committing {
			return
		}
		if rbErr := tm.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	committing = true
	if err := tm.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction")
		return err
	}
	return nil
}

// publish sends a domain event. Delivery failures are logged, never returned:
// the change has already committed.
func (s *BaseService) publish(ctx context.Context, event, key string, payload any) {
	if err := s.events.Publish(ctx, event, key, payload); err != nil {
		s.GetLogger(ctx).Warn("Failed to publish event",
			slog.String("event", event),
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

type noopMetrics struct{}

func (noopMetrics) ExpenseCreated(string)                           {}
func (noopMetrics) PaymentRecorded(decimal.Decimal, decimal.Decimal) {}

// ServiceOption configures the cross-cutting dependencies shared by every service.
type ServiceOption func(*BaseService)

// WithEventPublisher sets the publisher used for domain events.
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		if p != nil {
			s.events = p
		}
	}
}

// WithMetricsRecorder sets the recorder used for domain counters.
func WithMetricsRecorder(m portssvc.MetricsRecorder) ServiceOption {
	return func(s *BaseService) {
		if m != nil {
			s.metrics = m
		}
	}
}
