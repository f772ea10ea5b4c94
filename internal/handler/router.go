package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/suar-net/relay/internal/ratelimit"
	"github.com/suar-net/relay/internal/service"
	"github.com/suar-net/relay/internal/ws"
)

// SetupRouter wires the handlers into the main Chi router.
func SetupRouter(
	relayService service.IRelayService,
	authService service.IAuthService,
	db *sql.DB,
	pacer *ratelimit.Pacer,
	hub *ws.Hub,
	logger zerolog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	relayHandler := NewRelayHandler(relayService, logger)
	authHandler := NewAuthHandler(authService, logger)
	healthHandler := NewHealthHandler(db, pacer, logger)
	authMiddleware := NewAuthMiddleware(authService, logger)

	r.Get("/healthz", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/ws", hub.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/relay", relayHandler.Relay)
			r.Get("/history", relayHandler.History)
		})
	})

	return r
}

// requestLogger logs one line per served request with method, path, status
// and latency.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
