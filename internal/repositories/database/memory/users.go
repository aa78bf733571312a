package memory

import (
	"context"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
)

// FindUserByID retrieves a user by internal id.
func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var (
		user domain.User
		ok   bool
	)
	s.read(func(st *state) { user, ok = st.users[userID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	return &user, nil
}

// FindUserByExternalID retrieves a user by the identity provider's subject.
func (s *Store) FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var (
		user domain.User
		ok   bool
	)
	s.read(func(st *state) {
		var id string
		if id, ok = st.external[externalID]; ok {
			user, ok = st.users[id]
		}
	})
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	return &user, nil
}

// FindGroupByID retrieves a group by id.
func (s *Store) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	var (
		group domain.Group
		ok    bool
	)
	s.read(func(st *state) { group, ok = st.groups[groupID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("group")
	}
	return &group, nil
}

// ListGroupMemberIDs returns a group's members in join order.
func (s *Store) ListGroupMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	var members []string
	s.read(func(st *state) { members = append([]string(nil), st.members[groupID]...) })
	return members, nil
}
