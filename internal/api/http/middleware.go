package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/pkg/httpx"
)

// RequireAuth gates protected routes. An absent credential is 401; a
// credential that is present but fails signature, expiry, or session
// verification is 403. The distinction is part of the API contract.
func RequireAuth(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			ident, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, ident.UserID)
			ctx = context.WithValue(ctx, httpx.CtxKeyUsername, ident.Username)
			ctx = context.WithValue(ctx, httpx.CtxKeyRole, ident.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is missing, malformed, or empty.
func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}
