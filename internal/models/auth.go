package models

// Roles assigned to panel accounts
const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleSpecialist = "specialist"
)

// AuthUser represents a panel account. Passwords are stored as entered.
type AuthUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// Public returns a copy safe to hand to external sinks (no password)
func (u AuthUser) Public() AuthUser {
	u.Password = ""
	return u
}
