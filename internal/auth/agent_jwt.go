package auth

import (
	"errors"
	"time"

	"puja-backend/internal/models"
	"puja-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// AgentClaims represents JWT claims for agent authentication
type AgentClaims struct {
	AgentID int    `json:"agent_id"`
	Email   string `json:"email"`
	IsAgent bool   `json:"is_agent"`
	jwt.RegisteredClaims
}

// GenerateAgentToken creates a new JWT token for an agent (24 hours)
func (j *JWTManager) GenerateAgentToken(agent *models.Agent) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(24 * time.Hour)

	claims := &AgentClaims{
		AgentID: agent.ID,
		Email:   agent.Email,
		IsAgent: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateAgentToken verifies an agent JWT token and returns the claims
func (j *JWTManager) ValidateAgentToken(tokenString string) (*AgentClaims, error) {
	claims := &AgentClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
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

	if !claims.IsAgent {
		return nil, errors.New("not an agent token")
	}

	return claims, nil
}
