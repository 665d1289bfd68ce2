package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp/totp"
	"puja-backend/internal/auth"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
)

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrInvalidTOTP     = errors.New("invalid authenticator code")
	ErrTOTPNotEnrolled = errors.New("two-factor setup not started")
)

type AdminService struct {
	adminRepo *repositories.AdminRepository
	jwt       *auth.JWTManager
}

func NewAdminService(adminRepo *repositories.AdminRepository, jwt *auth.JWTManager) *AdminService {
	return &AdminService{adminRepo: adminRepo, jwt: jwt}
}

func (s *AdminService) Register(ctx context.Context, req *models.AdminRegisterRequest) (*models.AdminUser, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := &models.AdminUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login checks the password. Accounts with 2FA enabled get a short
// lived temp token instead of a session; the TOTP step exchanges it.
func (s *AdminService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminAuthResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(admin.PasswordHash, req.Password) {
		return nil, ErrBadCredentials
	}

	if admin.TOTPEnabled {
		tempToken, err := s.jwt.GenerateTempToken(admin)
		if err != nil {
			return nil, fmt.Errorf("issue temp token: %w", err)
		}
		return &models.AdminAuthResponse{
			Success:     true,
			Requires2FA: true,
			TempToken:   tempToken,
		}, nil
	}

	token, err := s.jwt.GenerateAdminToken(admin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AdminAuthResponse{Success: true, Token: token, Admin: admin}, nil
}

// CompleteTOTPLogin exchanges a valid temp token plus authenticator
// code for a full session token.
func (s *AdminService) CompleteTOTPLogin(ctx context.Context, req *models.TOTPLoginRequest) (*models.AdminAuthResponse, error) {
	claims, err := s.jwt.ValidateTempToken(req.TempToken)
	if err != nil {
		return nil, err
	}
	admin, err := s.adminRepo.Get(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if admin.TOTPSecret == "" {
		return nil, ErrTOTPNotEnrolled
	}
	if !totp.Validate(req.Code, admin.TOTPSecret) {
		return nil, ErrInvalidTOTP
	}

	token, err := s.jwt.GenerateAdminToken(admin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AdminAuthResponse{Success: true, Token: token, Admin: admin}, nil
}

// SetupTOTP generates a fresh secret for the authenticated admin and
// returns the otpauth:// provisioning URL. 2FA stays off until the
// first code is confirmed.
func (s *AdminService) SetupTOTP(ctx context.Context, adminID int) (string, error) {
	admin, err := s.adminRepo.Get(ctx, adminID)
	if err != nil {
		return "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "puja-backend",
		AccountName: admin.Email,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	if err := s.adminRepo.SetTOTPSecret(ctx, adminID, key.Secret()); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// ConfirmTOTP verifies the first code against the pending secret and
// turns 2FA on.
func (s *AdminService) ConfirmTOTP(ctx context.Context, adminID int, code string) error {
	admin, err := s.adminRepo.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.TOTPSecret == "" {
		return ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, admin.TOTPSecret) {
		return ErrInvalidTOTP
	}
	return s.adminRepo.EnableTOTP(ctx, adminID)
}
