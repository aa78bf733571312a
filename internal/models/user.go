package models

// User is a row of the users table. ExternalID is the identity provider's subject.
type User struct {
	UserID     string `db:"user_id"`
	ExternalID string `db:"external_id"`
	Name       string `db:"name"`
	FullName   string `db:"full_name"`
	Email      string `db:"email"`
	AvatarURL  string `db:"avatar_url"`
	AuditFields
}

// Group is a row of the groups table.
type Group struct {
	GroupID   string `db:"group_id"`
	Name      string `db:"name"`
	CreatedBy string `db:"created_by"`
	AuditFields
}
