package domain

// Marketplace roles carried in the access token.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// IsStaff reports whether role may perform moderation actions.
func IsStaff(role string) bool {
	return role == RoleModerator || role == RoleAdmin
}
