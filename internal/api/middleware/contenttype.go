package middleware

import (
	"errors"
	"mime"
	"net/http"

	"github.com/strideworks/server/internal/api/problem"
)

// RequireJSONBody rejects mutating requests whose body is not declared as
// application/json. Session auth rides on a cookie that production sends
// with SameSite=None, so a cross-site form could otherwise replay the
// cookie against mutating endpoints; browsers cannot send an
// application/json body cross-site without a CORS preflight.
func RequireJSONBody(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}

			ct := r.Header.Get("Content-Type")
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				problem.Write(w, r, http.StatusUnsupportedMediaType,
					problem.TypeUnsupportedMedia, "Content-Type must be application/json",
					errors.New("unsupported content type: "+ct), env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
