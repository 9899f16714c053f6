package domain

import "time"

// Roles that authenticate with phone + password.
const (
	RoleReceptionist = "receptionist"
	RoleSecurity     = "security"
	RolePrincipal    = "principal"
)

func ValidRole(r string) bool {
	switch r {
	case RoleReceptionist, RoleSecurity, RolePrincipal:
		return true
	default:
		return false
	}
}

// Account is a role login row (receptionist, security or principal).
type Account struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone_number"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	IsLoggedIn   bool       `json:"is_logged_in"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type LoginReq struct {
	Phone    string `json:"phoneNumber"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type LoginRes struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

type LogoutReq struct {
	Phone    string `json:"phoneNumber"`
	UserType string `json:"userType"`
}
