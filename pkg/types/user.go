package types

import "time"

// Role names as issued by the backend staff administration module. Role
// comparison everywhere in the client is exact-string and case-sensitive;
// RoleAdmin passes every role check.
const (
	RoleAdmin        = "Admin"
	RoleDoctor       = "Doctor"
	RolePA           = "PA"
	RoleNurse        = "Nurse"
	RoleRecords      = "Records"
	RoleBilling      = "Billing"
	RolePharmacy     = "Pharmacy"
	RolePharmacyHead = "Pharmacy Head"
	RoleLab          = "Lab"
	RoleScan         = "Scan"
	RoleXray         = "Xray"
	RoleClaims       = "Claims"
)

// User represents the authenticated staff profile returned by /auth/me.
// The profile is owned by the session store and replaced wholesale on
// each fetch; fields beyond role and names are opaque to the session core.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// DisplayName returns the name shown in the UI shell, preferring the
// full name over the login username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Credentials represents user login credentials
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthToken represents the authentication token response from
// /auth/login and /auth/refresh.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// ChangePasswordRequest represents the /auth/change-password payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ApplicationDate is the server-configured reference date used instead
// of the workstation clock when the deployment pins a reference date.
type ApplicationDate struct {
	ApplicationDatetime time.Time `json:"application_datetime"`
}
