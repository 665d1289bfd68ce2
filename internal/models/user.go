package models

import "time"

// User is a devotee account created on first OTP verification.
type User struct {
	ID           int       `json:"id"`
	UserCode     string    `json:"userid"`
	Phone        string    `json:"phonenumber"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	OTPVerified  bool      `json:"otp_verified"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RequestOTPRequest starts phone registration
type RequestOTPRequest struct {
	Phone string `json:"phonenumber"`
}

// VerifyOTPRequest completes phone registration
type VerifyOTPRequest struct {
	Phone string `json:"phonenumber"`
	OTP   string `json:"otp"`
}

// UserAuthResponse is returned after OTP verification or login
type UserAuthResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userid"`
	Token   string `json:"token"`
	User    *User  `json:"user,omitempty"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Phone           string `json:"phonenumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserLoginRequest struct {
	Phone    string `json:"phonenumber"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
