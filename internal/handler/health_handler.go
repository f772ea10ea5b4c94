package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/suar-net/relay/internal/ratelimit"
)

type HealthHandler struct {
	db     *sql.DB
	pacer  *ratelimit.Pacer
	logger zerolog.Logger
}

func NewHealthHandler(db *sql.DB, pacer *ratelimit.Pacer, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		pacer:  pacer,
		logger: logger,
	}
}

// Check pings the database and reports when the last relay went out.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error().Err(err).Msg("health check: database unreachable")
		respondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}

	data := map[string]string{
		"status": "ok",
	}
	if last, ok := h.pacer.LastExecution(); ok {
		data["last_execution"] = last.Format(time.RFC3339Nano)
	}
	respondWithJson(w, http.StatusOK, data)
}
