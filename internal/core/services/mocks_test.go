package services_test

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryWithTx = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockExpenseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockExpenseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseWithSplits, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseWithSplits), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExpenseWithSplits, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.ExpenseWithSplits), returnedNextToken, args.Error(2)
}

func (m *MockExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, splits []domain.ExpenseSplit) error {
	return m.Called(ctx, tx, expense, splits).Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, expectedVersion int64) error {
	return m.Called(ctx, tx, expense, expectedVersion).Error(0)
}

func (m *MockExpenseRepository) UpdateSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.ExpenseSplit) error {
	return m.Called(ctx, tx, splits).Error(0)
}

func (m *MockExpenseRepository) DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error {
	return m.Called(ctx, tx, expenseID).Error(0)
}

func (m *MockExpenseRepository) FindExpenseForUpdateInTx(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.ExpenseWithSplits, error) {
	args := m.Called(ctx, tx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseWithSplits), args.Error(1)
}

func (m *MockExpenseRepository) FindOutstandingSplitsForUpdateInTx(ctx context.Context, tx pgx.Tx, debtorID string, target domain.PaymentTarget) ([]domain.ExpenseSplit, error) {
	args := m.Called(ctx, tx, debtorID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseSplit), args.Error(1)
}

func (m *MockExpenseRepository) DecrementExpenseRemainingInTx(ctx context.Context, tx pgx.Tx, expenseID string, amount decimal.Decimal) error {
	return m.Called(ctx, tx, expenseID, amount).Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	return m.Called(ctx, tx, payment).Error(0)
}

func (m *MockPaymentRepository) ListPaymentsByPayer(ctx context.Context, payerID string, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, payerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock GroupRepository ---
type MockGroupRepository struct {
	mock.Mock
}

var _ portsrepo.GroupReader = (*MockGroupRepository)(nil)

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListGroupMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, event, key string, payload any) error {
	return m.Called(ctx, event, key, payload).Error(0)
}

// --- Mock MetricsRecorder ---
type MockMetricsRecorder struct {
	mock.Mock
}

var _ portssvc.MetricsRecorder = (*MockMetricsRecorder)(nil)

func (m *MockMetricsRecorder) ExpenseCreated(scope string) {
	m.Called(scope)
}

func (m *MockMetricsRecorder) PaymentRecorded(applied, leftover decimal.Decimal) {
	m.Called(applied, leftover)
}
