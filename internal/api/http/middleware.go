package http

import (
	"context"
	"net/http"
	"strings"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// AuthMiddleware validates the bearer token and stores the caller's claims
// on the request context.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED", Message: "missing bearer token"})
			return
		}

		claims, err := m.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED", Message: err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the administrator role.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || !claims.IsAdmin() {
			writeError(w, domain.NewForbidden("administrator role required"))
			return
		}
		next(w, r)
	}
}

// ClaimsFromContext returns the authenticated caller's claims, or nil when
// the request skipped the auth middleware.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}
