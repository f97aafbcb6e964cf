package api

import (
	"net/http"
	"time"

	"github.com/mosaic-folio/backend/database"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		database:    database,
		startupTime: startupTime,
	}
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:        "ok",
			Database:      "ok",
			StartedAt:     h.startupTime.UTC().Format(time.RFC3339),
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		}

		status := http.StatusOK
		if err := h.database.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
			response.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}

		h.responder.WriteJSON(w, status, response)
	}
}
