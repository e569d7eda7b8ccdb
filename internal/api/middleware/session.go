package middleware

import (
	"context"
	"net/http"

	"github.com/strideworks/server/internal/api/problem"
	"github.com/strideworks/server/internal/auth"
)

type contextKeySession struct{}

// RequireSession verifies the session cookie before any handler runs.
// A missing or invalid credential short-circuits with 401; handlers behind
// this middleware can rely on SessionClaims being set.
func RequireSession(manager *auth.SessionManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthenticated, "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			token, err := auth.TokenFromRequest(r)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthenticated, "Missing session credential", err, env)
				return
			}

			claims, err := manager.Verify(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthenticated, "Invalid session credential", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeySession{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionClaims returns the verified identity attached by RequireSession,
// or nil when the request never passed the guard.
func SessionClaims(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(contextKeySession{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}
