package domain

// Principal is the identity performing a request.
// The zero value is the anonymous principal.
type Principal struct {
	UserID string
	Role   Role
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// PrincipalOf returns the principal acting as the given user.
func PrincipalOf(u *User) Principal {
	if u == nil {
		return Anonymous
	}
	return Principal{UserID: u.ID, Role: u.Role}
}

// IsAnonymous reports whether no user is attached.
func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}

// IsAdmin reports whether the principal is an authenticated admin.
func (p Principal) IsAdmin() bool {
	return !p.IsAnonymous() && p.Role == RoleAdmin
}

// Is reports whether the principal acts as the given user.
func (p Principal) Is(userID string) bool {
	return !p.IsAnonymous() && p.UserID == userID
}
