package domain

// Role names as stored in the roles table. READER is the lowest tier
// and is blanket-denied on write intents regardless of ownership.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleReader  = "READER"
)

// User is a row from the users table joined with its role.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	Role     string `json:"role"`
}

// Actor is the authenticated identity a request acts as. The admin flag
// and the role are orthogonal: IsAdmin overrides every project-level
// rule, Role governs fine-grained behavior for non-admins.
type Actor struct {
	ID      int64
	IsAdmin bool
	Role    string
}

// Actor projects the user into its request identity.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, IsAdmin: u.IsAdmin, Role: u.Role}
}
