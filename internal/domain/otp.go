package domain

import "time"

// User types an OTP can be issued for.
const (
	UserTypeVisitor      = "visitor"
	UserTypeStaff        = "staff"
	UserTypeReceptionist = "receptionist"
	UserTypeSecurity     = "security"
	UserTypePrincipal    = "principal"
)

func ValidUserType(t string) bool {
	switch t {
	case UserTypeVisitor, UserTypeStaff, UserTypeReceptionist, UserTypeSecurity, UserTypePrincipal:
		return true
	default:
		return false
	}
}

// OTP is a short-lived one-time code bound to a phone number and user
// type. Several codes may be outstanding for the same phone; any
// unverified, unexpired one matching the submitted code verifies.
type OTP struct {
	ID         int64
	Phone      string
	Code       string
	UserType   string
	ExpiresAt  time.Time
	IsVerified bool
	CreatedAt  time.Time
}

type SendOTPReq struct {
	Phone    string `json:"phoneNumber"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}
