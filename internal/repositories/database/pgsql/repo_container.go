package pgsql

import (
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ExpenseRepo:   newPgxExpenseRepository(dbPool),
		PaymentRepo:   newPgxPaymentRepository(dbPool),
		FinancialRepo: newPgxFinancialRepository(dbPool),
		UserRepo:      userRepo,
		GroupRepo:     userRepo,
	}
}
