package auth

import (
	"testing"

	"puja-backend/internal/config"
	"puja-backend/internal/models"
)

func newTestManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "puja-backend-test"
	return NewJWTManager(cfg)
}

func TestUserTokenRoundtrip(t *testing.T) {
	m := newTestManager("test-secret")
	user := &models.User{ID: 7, UserCode: "KSB1007", Phone: "9876543210"}

	token, err := m.GenerateUserToken(user)
	if err != nil {
		t.Fatalf("GenerateUserToken error: %v", err)
	}

	claims, err := m.ValidateUserToken(token)
	if err != nil {
		t.Fatalf("ValidateUserToken error: %v", err)
	}
	if claims.UserID != 7 || claims.UserCode != "KSB1007" || claims.Phone != "9876543210" {
		t.Errorf("claims = %+v, want user 7/KSB1007/9876543210", claims)
	}
}

func TestAdminTokenRoundtrip(t *testing.T) {
	m := newTestManager("test-secret")
	admin := &models.AdminUser{ID: 3, Email: "admin@example.com", Role: "admin"}

	token, err := m.GenerateAdminToken(admin)
	if err != nil {
		t.Fatalf("GenerateAdminToken error: %v", err)
	}

	claims, err := m.ValidateAdminToken(token)
	if err != nil {
		t.Fatalf("ValidateAdminToken error: %v", err)
	}
	if claims.AdminID != 3 || claims.Role != "admin" {
		t.Errorf("claims = %+v, want admin 3", claims)
	}
}

func TestAgentTokenRoundtrip(t *testing.T) {
	m := newTestManager("test-secret")
	agent := &models.Agent{ID: 5, Email: "agent@example.com"}

	token, err := m.GenerateAgentToken(agent)
	if err != nil {
		t.Fatalf("GenerateAgentToken error: %v", err)
	}

	claims, err := m.ValidateAgentToken(token)
	if err != nil {
		t.Fatalf("ValidateAgentToken error: %v", err)
	}
	if claims.AgentID != 5 {
		t.Errorf("claims = %+v, want agent 5", claims)
	}
}

func TestCrossPrincipalRejection(t *testing.T) {
	m := newTestManager("test-secret")

	adminToken, err := m.GenerateAdminToken(&models.AdminUser{ID: 3, Email: "admin@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateAdminToken error: %v", err)
	}
	userToken, err := m.GenerateUserToken(&models.User{ID: 7, UserCode: "KSB1007", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("GenerateUserToken error: %v", err)
	}

	if _, err := m.ValidateUserToken(adminToken); err == nil {
		t.Error("admin token accepted as user token")
	}
	if _, err := m.ValidateAdminToken(userToken); err == nil {
		t.Error("user token accepted as admin token")
	}
	if _, err := m.ValidateAgentToken(userToken); err == nil {
		t.Error("user token accepted as agent token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := newTestManager("secret-a").GenerateUserToken(&models.User{ID: 7})
	if err != nil {
		t.Fatalf("GenerateUserToken error: %v", err)
	}
	if _, err := newTestManager("secret-b").ValidateUserToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestTempTokenFlowsOnlyThroughTempValidation(t *testing.T) {
	m := newTestManager("test-secret")
	admin := &models.AdminUser{ID: 3, Email: "admin@example.com", Role: "admin"}

	tempToken, err := m.GenerateTempToken(admin)
	if err != nil {
		t.Fatalf("GenerateTempToken error: %v", err)
	}

	claims, err := m.ValidateTempToken(tempToken)
	if err != nil {
		t.Fatalf("ValidateTempToken error: %v", err)
	}
	if claims.AdminID != 3 || claims.Type != "2fa_pending" {
		t.Errorf("claims = %+v, want pending 2fa for admin 3", claims)
	}

	// A full admin token must not pass the temp check
	fullToken, err := m.GenerateAdminToken(admin)
	if err != nil {
		t.Fatalf("GenerateAdminToken error: %v", err)
	}
	if _, err := m.ValidateTempToken(fullToken); err == nil {
		t.Error("full admin token accepted as a 2FA temp token")
	}
}
