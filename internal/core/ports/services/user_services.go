package services

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
)

// UserSvcFacade defines read operations for user data
type UserSvcFacade interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// IdentityResolver maps an opaque caller credential to an internal user id.
// Credentials it cannot verify fail with apperrors.ErrUnauthorized.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (string, error)
}
