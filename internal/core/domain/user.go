package domain

// User is the internal projection of an account held by the external
// identity provider. ExternalID is the provider's subject.
type User struct {
	UserID     string `json:"userID"`
	ExternalID string `json:"-"`
	Name       string `json:"name"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatarURL"`
	AuditFields
}

// Group is a non-owning reference target for group-scoped expenses.
type Group struct {
	GroupID   string `json:"groupID"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
	AuditFields
}
