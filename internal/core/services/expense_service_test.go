package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/core/services"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	expenseRepo *MockExpenseRepository
	userRepo    *MockUserRepository
	groupRepo   *MockGroupRepository
	events      *MockEventPublisher
	metrics     *MockMetricsRecorder
	service     portssvc.ExpenseSvcFacade
	ctx         context.Context
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.expenseRepo = new(MockExpenseRepository)
	s.userRepo = new(MockUserRepository)
	s.groupRepo = new(MockGroupRepository)
	s.events = new(MockEventPublisher)
	s.metrics = new(MockMetricsRecorder)
	s.service = services.NewExpenseService(s.expenseRepo, s.userRepo, s.groupRepo,
		services.WithEventPublisher(s.events),
		services.WithMetricsRecorder(s.metrics))
	s.ctx = context.Background()
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_CommitsThenPublishes() {
	s.userRepo.On("FindUserByID", s.ctx, "alice").Return(&domain.User{UserID: "alice"}, nil)
	s.userRepo.On("FindUserByID", s.ctx, "bob").Return(&domain.User{UserID: "bob"}, nil)
	s.expenseRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.expenseRepo.On("SaveExpenseInTx", s.ctx, mock.Anything, mock.AnythingOfType("domain.Expense"), mock.MatchedBy(func(splits []domain.ExpenseSplit) bool {
		return len(splits) == 2 && splits[0].UserID == "bob" && splits[1].UserID == "alice" && splits[1].IsPaid
	})).Return(nil).Once()
	s.expenseRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.metrics.On("ExpenseCreated", "friend").Once()
	// a failed publish must not fail the request
	s.events.On("Publish", s.ctx, portssvc.EventExpenseCreated, mock.AnythingOfType("string"), mock.AnythingOfType("domain.ExpenseEvent")).
		Return(errors.New("broker down")).Once()

	e, err := s.service.CreateExpense(s.ctx, dto.CreateExpenseRequest{FriendID: ptr("bob"), TotalAmount: dec("50.00")}, "alice")

	s.Require().NoError(err)
	s.True(dec("50.00").Equal(e.RemainingAmount))
	s.expenseRepo.AssertNotCalled(s.T(), "Rollback", mock.Anything, mock.Anything)
	s.expenseRepo.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
	s.metrics.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_RollsBackOnSaveFailure() {
	s.userRepo.On("FindUserByID", s.ctx, "alice").Return(&domain.User{UserID: "alice"}, nil)
	s.groupRepo.On("FindGroupByID", s.ctx, "flat").Return(&domain.Group{GroupID: "flat"}, nil)
	s.groupRepo.On("ListGroupMemberIDs", s.ctx, "flat").Return([]string{"alice", "bob", "carol"}, nil)
	s.expenseRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.expenseRepo.On("SaveExpenseInTx", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewPersistenceError("failed to insert expense", errors.New("connection reset"))).Once()
	s.expenseRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.CreateExpense(s.ctx, dto.CreateExpenseRequest{GroupID: ptr("flat"), TotalAmount: dec("90.00")}, "alice")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.expenseRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.events.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.metrics.AssertNotCalled(s.T(), "ExpenseCreated", mock.Anything)
	s.expenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_RollsBackWhenSavePanics() {
	s.userRepo.On("FindUserByID", s.ctx, "alice").Return(&domain.User{UserID: "alice"}, nil)
	s.userRepo.On("FindUserByID", s.ctx, "bob").Return(&domain.User{UserID: "bob"}, nil)
	s.expenseRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.expenseRepo.On("SaveExpenseInTx", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("split writer exploded") }).Once()
	s.expenseRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	s.PanicsWithValue("split writer exploded", func() {
		_, _ = s.service.CreateExpense(s.ctx, dto.CreateExpenseRequest{FriendID: ptr("bob"), TotalAmount: dec("20.00")}, "alice")
	})

	s.expenseRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.expenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_ValidationBeforeAnyIO() {
	_, err := s.service.CreateExpense(s.ctx, dto.CreateExpenseRequest{GroupID: ptr("flat"), FriendID: ptr("bob"), TotalAmount: dec("10.00")}, "alice")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.expenseRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
	s.userRepo.AssertNotCalled(s.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_EmptyGroupPersistsNothing() {
	s.userRepo.On("FindUserByID", s.ctx, "alice").Return(&domain.User{UserID: "alice"}, nil)
	s.groupRepo.On("FindGroupByID", s.ctx, "g").Return(&domain.Group{GroupID: "g"}, nil)
	s.groupRepo.On("ListGroupMemberIDs", s.ctx, "g").Return([]string{}, nil)

	_, err := s.service.CreateExpense(s.ctx, dto.CreateExpenseRequest{GroupID: ptr("g"), TotalAmount: dec("10.00")}, "alice")

	s.ErrorIs(err, apperrors.ErrEmptyGroup)
	s.expenseRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestUpdateExpense_ForbiddenRollsBack() {
	current := &domain.ExpenseWithSplits{Expense: domain.Expense{ExpenseID: "e1", PaidBy: "alice", Version: 1}}
	s.expenseRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.expenseRepo.On("FindExpenseForUpdateInTx", s.ctx, mock.Anything, "e1").Return(current, nil).Once()
	s.expenseRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.UpdateExpense(s.ctx, "e1", dto.UpdateExpenseRequest{Description: ptr("x")}, "bob")

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.expenseRepo.AssertNotCalled(s.T(), "UpdateExpenseInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.expenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestUpdateExpense_DescriptionOnlyKeepsSplits() {
	current := &domain.ExpenseWithSplits{
		Expense: domain.Expense{ExpenseID: "e1", PaidBy: "alice", TotalAmount: dec("10.00"), RemainingAmount: dec("10.00"), Version: 3},
		Splits: []domain.ExpenseSplit{
			{SplitID: "s1", UserID: "bob", TotalAmount: dec("5.00"), RemainingAmount: dec("5.00")},
			{SplitID: "s2", UserID: "alice", TotalAmount: dec("5.00"), IsPaid: true},
		},
	}
	s.expenseRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.expenseRepo.On("FindExpenseForUpdateInTx", s.ctx, mock.Anything, "e1").Return(current, nil).Once()
	s.expenseRepo.On("UpdateExpenseInTx", s.ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Description == "taxi" && e.Version == 4
	}), int64(3)).Return(nil).Once()
	s.expenseRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.events.On("Publish", s.ctx, portssvc.EventExpenseUpdated, "e1", mock.Anything).Return(nil).Once()

	updated, err := s.service.UpdateExpense(s.ctx, "e1", dto.UpdateExpenseRequest{Description: ptr("taxi")}, "alice")

	s.Require().NoError(err)
	s.Equal("taxi", updated.Description)
	s.expenseRepo.AssertNotCalled(s.T(), "UpdateSplitsInTx", mock.Anything, mock.Anything, mock.Anything)
	s.expenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestListExpenses_ClampsLimit() {
	s.expenseRepo.On("ListExpensesForUser", s.ctx, "alice", 100, (*string)(nil)).Return([]domain.ExpenseWithSplits{}, nil, nil).Once()

	resp, err := s.service.ListExpenses(s.ctx, "alice", dto.ListExpensesParams{Limit: 1000})

	s.Require().NoError(err)
	s.Empty(resp.Expenses)
	s.Nil(resp.NextToken)
	s.expenseRepo.AssertExpectations(s.T())
}
