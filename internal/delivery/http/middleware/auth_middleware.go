package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/jwt"
	"therapist-crm/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	TokenIDKey   contextKey = "token_id"
	RoleKey      contextKey = "role"
)

type AuthMiddleware struct {
	log        *logrus.Logger
	jwtService *jwt.JWTService
	tokenStore usecase.TokenStore
}

func NewAuthMiddleware(log *logrus.Logger, jwtService *jwt.JWTService, tokenStore usecase.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		log:        log,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// resolve validates the bearer token. status is 0 when no header was sent.
func (m *AuthMiddleware) resolve(r *http.Request) (*jwt.Claims, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, 0, ""
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization header format"
	}

	claims, err := m.jwtService.Parse(parts[1], jwt.AccessToken)
	if errors.Is(err, jwt.ErrWrongTokenType) {
		return nil, http.StatusUnauthorized, "Invalid token type"
	}
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	// Check if token exists in Redis (not revoked)
	exists, err := m.tokenStore.Exists(r.Context(), string(jwt.AccessToken), claims.UserID.String(), claims.TokenID)
	if err != nil {
		m.log.Warnf("Failed to validate token: %+v", err)
		return nil, http.StatusInternalServerError, "Failed to validate token"
	}
	if !exists {
		return nil, http.StatusUnauthorized, "Token has been revoked"
	}
	return claims, http.StatusOK, ""
}

func withClaims(r *http.Request, claims *jwt.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid access token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, status, message := m.resolve(r)
		switch status {
		case http.StatusOK:
			next.ServeHTTP(w, withClaims(r, claims))
		case 0:
			response.Unauthorized(w, "Authorization header is required")
		case http.StatusInternalServerError:
			response.InternalServerError(w, message)
		default:
			response.Unauthorized(w, message)
		}
	})
}

// Optional attaches the caller when a valid token is present and otherwise
// continues anonymously.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, status, _ := m.resolve(r); status == http.StatusOK {
			r = withClaims(r, claims)
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleFromContext is set by RequireAccess once the role has been resolved.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *usecase.Identity {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	email, _ := GetUserEmailFromContext(ctx)
	return &usecase.Identity{UserID: userID, Email: email}
}
