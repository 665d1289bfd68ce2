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
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrNoPasswordSet   = errors.New("no password set for this account, login with otp")
	ErrPasswordsDiffer = errors.New("passwords do not match")
	ErrNotVerified     = errors.New("phone number not verified")
	ErrAccountInactive = errors.New("account inactive, please contact support")
)

type UserService struct {
	userRepo *repositories.UserRepository
	jwt      *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{userRepo: userRepo, jwt: jwt}
}

// SetPassword sets the password on an authenticated, OTP-verified
// account.
func (s *UserService) SetPassword(ctx context.Context, userID int, password string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return err
	}
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !user.OTPVerified {
		return ErrNotVerified
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// ResetPassword replaces the password by phone number. The account must
// exist and have completed OTP verification.
func (s *UserService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordsDiffer
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}

	normalized, err := NormalizePhone(req.Phone)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.OTPVerified {
		return ErrNotVerified
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// Login authenticates by phone and password. Unknown number and wrong
// password return distinct errors so the frontend can route the user
// to registration or to the reset flow.
func (s *UserService) Login(ctx context.Context, req *models.UserLoginRequest) (*models.UserAuthResponse, error) {
	normalized, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.OTPVerified {
		return nil, ErrNotVerified
	}
	if user.Status != models.StatusActive {
		return nil, ErrAccountInactive
	}
	if user.PasswordHash == "" {
		return nil, ErrNoPasswordSet
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrWrongPassword
	}

	token, err := s.jwt.GenerateUserToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.UserAuthResponse{
		Success: true,
		UserID:  user.UserCode,
		Token:   token,
		User:    user,
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Name, req.Email); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}
