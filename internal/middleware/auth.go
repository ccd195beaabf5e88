// Package middleware provides HTTP middleware for the storefront API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/patitas/storefront/internal/app/services/accounts"
	"github.com/patitas/storefront/pkg/logger"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "email"
	roleKey   contextKey = "role"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*accounts.Claims, error)
}

// AuthMiddleware authenticates requests with a bearer token and places the
// caller's identity in the request context.
type AuthMiddleware struct {
	verifier TokenVerifier
	log      *logger.Logger
	public   func(r *http.Request) bool
}

// NewAuthMiddleware builds the middleware. Requests matched by public may
// proceed without credentials; a bearer token is still parsed when one is
// sent, so handlers behind a public route see the caller's identity.
func NewAuthMiddleware(verifier TokenVerifier, log *logger.Logger, public func(r *http.Request) bool) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &AuthMiddleware{verifier: verifier, log: log, public: public}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.public != nil && m.public(r) {
				next.ServeHTTP(w, r)
				return
			}
			writeAuthError(w, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeAuthError(w, "invalid Authorization header format")
			return
		}

		claims, err := m.verifier.VerifyToken(parts[1])
		if err != nil {
			m.log.WithError(err).WithField("path", r.URL.Path).Warn("token validation failed")
			writeAuthError(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserID extracts the authenticated user's id from the context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// GetEmail extracts the authenticated user's email from the context.
func GetEmail(ctx context.Context) string {
	if v, ok := ctx.Value(emailKey).(string); ok {
		return v
	}
	return ""
}

// GetUserRole extracts the authenticated user's role from the context.
func GetUserRole(ctx context.Context) string {
	if v, ok := ctx.Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// RequireRole rejects requests whose authenticated role differs from role.
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserRole(r.Context()) != role {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "insufficient permissions"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
