package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger checks the database connection (pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthResponse is the JSON body for GET /healthz.
type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Games   int    `json:"games"`
}

// HealthHandler reports liveness and the number of running games.
type HealthHandler struct {
	db      Pinger
	running func() int
	log     zerolog.Logger
}

// NewHealthHandler creates a HealthHandler. db is nil for the in-memory roster.
func NewHealthHandler(db Pinger, running func() int, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{db: db, running: running, log: log}
}

// Healthz handles GET /healthz.
//
// @Summary      Health check
// @Description  Liveness/readiness check. No authentication required.
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  healthResponse
// @Router       /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Storage: "memory"}
	if h.running != nil {
		resp.Games = h.running()
	}
	status := http.StatusOK
	if h.db != nil {
		resp.Storage = "postgres"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			requestLogger(h.log, r).Warn().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, r, h.log, status, resp)
}
