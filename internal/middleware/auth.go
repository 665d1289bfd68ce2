package middleware

import (
	"context"
	"net/http"
	"strings"

	"puja-backend/internal/auth"
	"puja-backend/internal/repositories"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserCodeKey  contextKey = "user_code"
	UserPhoneKey contextKey = "user_phone"
	AdminIDKey   contextKey = "admin_id"
	AdminRoleKey contextKey = "admin_role"
	AgentIDKey   contextKey = "agent_id"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	userRepo   *repositories.UserRepository
	adminRepo  *repositories.AdminRepository
	agentRepo  *repositories.AgentRepository
}

func NewAuthMiddleware(
	jwtManager *auth.JWTManager,
	userRepo *repositories.UserRepository,
	adminRepo *repositories.AdminRepository,
	agentRepo *repositories.AgentRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		agentRepo:  agentRepo,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthenticateUser validates devotee tokens and attaches the principal
// to the request context.
func (m *AuthMiddleware) AuthenticateUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateUserToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Check the database for live status, not the token snapshot
		user, err := m.userRepo.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}
		if user.Status != "active" {
			http.Error(w, "Account inactive. Please contact support.", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UserCodeKey, user.UserCode)
		ctx = context.WithValue(ctx, UserPhoneKey, user.Phone)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateAdmin validates admin tokens.
func (m *AuthMiddleware) AuthenticateAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateAdminToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		admin, err := m.adminRepo.Get(r.Context(), claims.AdminID)
		if err != nil {
			http.Error(w, "Admin not found", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, admin.ID)
		ctx = context.WithValue(ctx, AdminRoleKey, admin.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSuperAdmin restricts a route to superadmins. Must be nested
// inside AuthenticateAdmin.
func (m *AuthMiddleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetAdminRoleFromContext(r.Context())
		if !ok || role != "superadmin" {
			http.Error(w, "Superadmin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthenticateAgent validates agent tokens.
func (m *AuthMiddleware) AuthenticateAgent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateAgentToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		agent, err := m.agentRepo.Get(r.Context(), claims.AgentID)
		if err != nil {
			http.Error(w, "Agent not found", http.StatusForbidden)
			return
		}
		if agent.Status != "active" {
			http.Error(w, "Account inactive. Please contact support.", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AgentIDKey, agent.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the devotee id from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

func GetUserPhoneFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(UserPhoneKey).(string)
	return phone, ok
}

func GetAdminIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(AdminIDKey).(int)
	return id, ok
}

func GetAdminRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(AdminRoleKey).(string)
	return role, ok
}

func GetAgentIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(AgentIDKey).(int)
	return id, ok
}
