package models

import "time"

// Agent is a partner account with a wallet for commissions.
type Agent struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Wallet struct {
	ID        int       `json:"id"`
	AgentID   int       `json:"agent_id"`
	Balance   float64   `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

type WithdrawalRequest struct {
	ID        int       `json:"id"`
	AgentID   int       `json:"agent_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AgentRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AgentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AgentAuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Agent   *Agent `json:"agent"`
}

type CreateWithdrawalRequest struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes"`
}

type ResolveWithdrawalRequest struct {
	Status string `json:"status"` // approved or rejected
	Notes  string `json:"notes"`
}
