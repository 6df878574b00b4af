package identity

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated principal carried by a session.
// Exactly two of these exist, both sourced from configuration.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// KnownRole reports whether role is one of the two roles the system
// understands. Everything else is treated as no session at all.
func KnownRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
