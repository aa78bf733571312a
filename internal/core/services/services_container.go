package services

import (
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Expense:    NewExpenseService(repos.ExpenseRepo, repos.UserRepo, repos.GroupRepo, options...),
		Settlement: NewSettlementService(repos.ExpenseRepo, repos.PaymentRepo, options...),
		Financial:  NewFinancialService(repos.FinancialRepo, repos.UserRepo),
		User:       NewUserService(repos.UserRepo),
		Identity:   NewJWTIdentityResolver(cfg.JWTSecret, cfg.JWTIssuer, repos.UserRepo),
	}
}
