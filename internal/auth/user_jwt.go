package auth

import (
	"errors"
	"time"

	"puja-backend/internal/models"
	"puja-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims represents JWT claims for devotee (end user) authentication
type UserClaims struct {
	UserID   int    `json:"user_id"`
	UserCode string `json:"userid"`
	Phone    string `json:"phonenumber"`
	IsUser   bool   `json:"is_user"`
	jwt.RegisteredClaims
}

// GenerateUserToken creates a new JWT token for an end user (24 hours)
func (j *JWTManager) GenerateUserToken(user *models.User) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(24 * time.Hour)

	claims := &UserClaims{
		UserID:   user.ID,
		UserCode: user.UserCode,
		Phone:    user.Phone,
		IsUser:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateUserToken verifies a user JWT token and returns the claims
func (j *JWTManager) ValidateUserToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	// Security check: ensure this is a user token
	if !claims.IsUser {
		return nil, errors.New("not a user token")
	}

	return claims, nil
}
