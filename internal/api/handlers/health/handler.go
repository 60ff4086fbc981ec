package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

// DefaultPingTimeout ограничение на проверку БД в /ready
const DefaultPingTimeout = 2 * time.Second

const msgDatabaseUnavailable = "database is not reachable"

type StatusResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	db          Pinger
	pingTimeout time.Duration
	logger      Logger
}

func NewHandler(db Pinger, pingTimeout time.Duration, logger Logger) *Handler {
	if pingTimeout <= 0 {
		pingTimeout = DefaultPingTimeout
	}
	return &Handler{
		db:          db,
		pingTimeout: pingTimeout,
		logger:      logger,
	}
}

// HandleHealth GET /health - процесс жив
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleReady GET /ready - хранилище бронирований доступно
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("GET /ready - Database ping failed: %v", err)
		handlers.RespondServiceUnavailable(w, msgDatabaseUnavailable)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}
