package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/strideworks/server/internal/api/handlers"
	"github.com/strideworks/server/internal/api/middleware"
	"github.com/strideworks/server/internal/auth"
	"github.com/strideworks/server/internal/config"
	"github.com/strideworks/server/internal/domain/events"
	"github.com/strideworks/server/internal/domain/registrations"
	"github.com/strideworks/server/internal/metrics"
	"github.com/strideworks/server/internal/storage/postgres"
)

// NewRouter wires the HTTP surface. The pool is owned by the caller: it is
// injected here and closed by whoever built it.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, version string) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	eventsService := events.NewService(repo.Events(), events.ServiceOptions{
		UpdateUpsert: cfg.Events.UpdateUpsert,
	})
	ledger := registrations.NewLedger(repo.Registrations(), repo.Events(), registrations.LedgerOptions{
		UpdateUpsert: cfg.Registrations.UpdateUpsert,
	})

	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.Issuer)

	sessionHandler := handlers.NewSessionHandler(sessions, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	registrationsHandler := handlers.NewRegistrationsHandler(ledger, cfg.Environment)
	healthHandler := handlers.NewHealthHandler(pool, version)

	guard := middleware.RequireSession(sessions, cfg.Environment)
	limit := middleware.RateLimit(cfg.RateLimit, cfg.Environment)
	limitLogin := func(next http.Handler) http.Handler {
		return middleware.WithRateLimitTier(middleware.TierLogin)(limit(next))
	}

	mux := http.NewServeMux()

	mux.Handle("/healthz", http.HandlerFunc(healthHandler.Healthz))
	mux.Handle("/readyz", http.HandlerFunc(healthHandler.Readyz))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/session", limitLogin(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(sessionHandler.Issue),
	})))
	mux.Handle("/session/logout", limit(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(sessionHandler.Logout),
	})))

	mux.Handle("/events", limit(methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: http.HandlerFunc(eventsHandler.Create),
	})))
	mux.Handle("/events/{id}", limit(guard(methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPut:    http.HandlerFunc(eventsHandler.Update),
		http.MethodDelete: http.HandlerFunc(eventsHandler.Delete),
	}))))
	mux.Handle("/events/mine/{email}", limit(guard(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Mine),
	}))))

	mux.Handle("/registrations", limit(guard(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(registrationsHandler.Create),
	}))))
	mux.Handle("/registrations/{id}", limit(guard(methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(registrationsHandler.Get),
		http.MethodPut:    http.HandlerFunc(registrationsHandler.Update),
		http.MethodDelete: http.HandlerFunc(registrationsHandler.Delete),
	}))))
	mux.Handle("/registrations/mine/{email}", limit(guard(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(registrationsHandler.Mine),
	}))))
	mux.Handle("/registrations/organizer/{email}", limit(guard(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(registrationsHandler.Organizer),
	}))))

	var handler http.Handler = mux
	handler = middleware.RequireJSONBody(cfg.Environment)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
