package models

import "time"

// AdminUser manages the catalog and console. Roles: admin, superadmin.
type AdminUser struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AdminRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminAuthResponse is returned on admin login. When 2FA is enabled,
// Requires2FA is set and TempToken must be exchanged on the TOTP step.
type AdminAuthResponse struct {
	Success     bool       `json:"success"`
	Token       string     `json:"token,omitempty"`
	Requires2FA bool       `json:"requires_2fa,omitempty"`
	TempToken   string     `json:"temp_token,omitempty"`
	Admin       *AdminUser `json:"admin,omitempty"`
}

type TOTPLoginRequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

type TOTPVerifyRequest struct {
	Code string `json:"code"`
}
