package repositories

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByExternalID retrieves a user by the identity provider's subject.
	FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
}

// GroupReader defines the group lookups the expense engine needs.
type GroupReader interface {
	// FindGroupByID retrieves a group by its ID.
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroupMemberIDs returns the current members of a group ordered by
	// join time, then user id.
	ListGroupMemberIDs(ctx context.Context, groupID string) ([]string, error)
}
