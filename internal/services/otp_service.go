package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"puja-backend/internal/auth"
	"puja-backend/internal/cache"
	"puja-backend/internal/models"
	"puja-backend/internal/sms"
)

const otpTTL = time.Hour

var (
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrOTPExpired        = errors.New("otp expired or not requested")
	ErrOTPMismatch       = errors.New("incorrect otp")
	ErrAlreadyRegistered = errors.New("phone number already registered, please login")

	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// UserStore is what the OTP flow needs from persistence.
// *repositories.UserRepository satisfies it.
type UserStore interface {
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	MarkOTPVerified(ctx context.Context, id int) error
}

type OTPService struct {
	store    cache.OTPStore
	sms      sms.Provider
	userRepo UserStore
	jwt      *auth.JWTManager
}

func NewOTPService(store cache.OTPStore, smsProvider sms.Provider, userRepo UserStore, jwt *auth.JWTManager) *OTPService {
	return &OTPService{store: store, sms: smsProvider, userRepo: userRepo, jwt: jwt}
}

// NormalizePhone strips spaces and a leading +91/91/0 and validates the
// remaining 10-digit Indian mobile number.
func NormalizePhone(phone string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.TrimPrefix(p, "+91")
	if len(p) == 12 && strings.HasPrefix(p, "91") {
		p = p[2:]
	}
	p = strings.TrimPrefix(p, "0")
	if !phonePattern.MatchString(p) {
		return "", ErrInvalidPhone
	}
	return p, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestOTP generates a 6-digit code, stores it for an hour and sends
// it over SMS. Requesting again replaces the previous code. A phone
// that already completed verification must use the login flow instead.
func (s *OTPService) RequestOTP(ctx context.Context, phone string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	if existing, err := s.userRepo.GetByPhone(ctx, normalized); err == nil && existing.OTPVerified {
		return ErrAlreadyRegistered
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.store.Put(ctx, normalized, otp, otpTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.sms.SendOTP(normalized, otp); err != nil {
		return fmt.Errorf("send otp sms: %w", err)
	}

	log.Printf("[OTP] sent to %sXXX", normalized[:3])
	return nil
}

// VerifyOTP checks the submitted code against the stored one. The code
// is consumed only on a match, so a typo does not force a re-request.
// On first verification the user account is created; the response
// always carries a fresh session token.
func (s *OTPService) VerifyOTP(ctx context.Context, phone, otp string) (*models.UserAuthResponse, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Peek(ctx, normalized)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrOTPExpired
		}
		return nil, err
	}
	if stored != otp {
		return nil, ErrOTPMismatch
	}
	// Consume only after the match so a concurrent wrong guess cannot
	// invalidate the real code.
	if _, err := s.store.GetAndClear(ctx, normalized); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return nil, err
	}

	user, err := s.userRepo.GetByPhone(ctx, normalized)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user = &models.User{Phone: normalized, OTPVerified: true, Status: models.StatusActive}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else if !user.OTPVerified {
		if err := s.userRepo.MarkOTPVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.OTPVerified = true
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
