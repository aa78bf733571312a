package mapping

import (
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:      d.UserID,
		ExternalID:  d.ExternalID,
		Name:        d.Name,
		FullName:    d.FullName,
		Email:       d.Email,
		AvatarURL:   d.AvatarURL,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		ExternalID:  m.ExternalID,
		Name:        m.Name,
		FullName:    m.FullName,
		Email:       m.Email,
		AvatarURL:   m.AvatarURL,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainGroup converts a model Group to a domain Group
func ToDomainGroup(m models.Group) domain.Group {
	return domain.Group{
		GroupID:     m.GroupID,
		Name:        m.Name,
		CreatedBy:   m.CreatedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
