package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/strideworks/server/internal/config"
)

// CORS handles cross-origin requests from the browser SPA. Session auth
// rides on cookies, so Access-Control-Allow-Credentials is always set for
// allowed origins and the wildcard origin is never used.
//
// Development allows any localhost origin; production requires the
// explicit CORS_ALLOWED_ORIGINS allowlist.
func CORS(cfg config.CORSConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Same-origin requests carry no Origin header.
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := false
			if cfg.AllowAllOrigins {
				allowed = isLocalOrigin(origin) || isOriginAllowed(origin, cfg.AllowedOrigins)
			} else {
				allowed = isOriginAllowed(origin, cfg.AllowedOrigins)
			}

			if !allowed {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("CORS request rejected: origin not in allowlist")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isOriginAllowed(origin string, allowlist []string) bool {
	for _, allowed := range allowlist {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:") ||
		origin == "http://localhost" ||
		origin == "http://127.0.0.1"
}
