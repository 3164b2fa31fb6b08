package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin may manage reference data and delete any recipe.
	RoleAdmin Role = "admin"
	// RoleMember is a regular registered user.
	RoleMember Role = "member"
)

// User is a registered account. Email is the login identity.
type User struct {
	Entity
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
