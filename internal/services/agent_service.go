package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"puja-backend/internal/auth"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
)

var (
	ErrAgentNotFound       = errors.New("agent not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidResolution   = errors.New("status must be approved or rejected")
)

type AgentService struct {
	agentRepo *repositories.AgentRepository
	jwt       *auth.JWTManager
}

func NewAgentService(agentRepo *repositories.AgentRepository, jwt *auth.JWTManager) *AgentService {
	return &AgentService{agentRepo: agentRepo, jwt: jwt}
}

func (s *AgentService) Register(ctx context.Context, req *models.AgentRegisterRequest) (*models.Agent, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	agent := &models.Agent{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) Login(ctx context.Context, req *models.AgentLoginRequest) (*models.AgentAuthResponse, error) {
	agent, err := s.agentRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(agent.PasswordHash, req.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.jwt.GenerateAgentToken(agent)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AgentAuthResponse{Success: true, Token: token, Agent: agent}, nil
}

func (s *AgentService) GetWallet(ctx context.Context, agentID int) (*models.Wallet, error) {
	return s.agentRepo.GetWallet(ctx, agentID)
}

// RequestWithdrawal validates the amount against the live balance
// before queueing. The balance is debited only on approval.
func (s *AgentService) RequestWithdrawal(ctx context.Context, agentID int, req *models.CreateWithdrawalRequest) (*models.WithdrawalRequest, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.agentRepo.GetWallet(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < req.Amount {
		return nil, ErrInsufficientBalance
	}

	wr := &models.WithdrawalRequest{
		AgentID: agentID,
		Amount:  req.Amount,
		Status:  models.WithdrawalStatusPending,
		Notes:   req.Notes,
	}
	if err := s.agentRepo.CreateWithdrawal(ctx, wr); err != nil {
		return nil, err
	}
	return wr, nil
}

func (s *AgentService) ListWithdrawals(ctx context.Context, agentID int) ([]*models.WithdrawalRequest, error) {
	return s.agentRepo.ListWithdrawals(ctx, agentID)
}

func (s *AgentService) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	return s.agentRepo.ListPendingWithdrawals(ctx)
}

// ResolveWithdrawal approves or rejects a pending request. Approval
// debits the wallet atomically; a request already resolved or a wallet
// short on funds surfaces as an error from the repository.
func (s *AgentService) ResolveWithdrawal(ctx context.Context, id int, req *models.ResolveWithdrawalRequest) (*models.WithdrawalRequest, error) {
	if req.Status != models.WithdrawalStatusApproved && req.Status != models.WithdrawalStatusRejected {
		return nil, ErrInvalidResolution
	}
	return s.agentRepo.ResolveWithdrawal(ctx, id, req.Status, req.Notes)
}
