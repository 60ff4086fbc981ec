package get_booking_rules

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	provider RulesProvider
	logger   Logger
}

func NewHandler(provider RulesProvider, logger Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger,
	}
}

// Handle GET /api/booking/rules
// Публичный endpoint: рабочие часы, типы событий и их длительности
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	response := FromRules(h.provider.Rules())

	h.logger.Info("GET /api/booking/rules - Rules retrieved: event_types=%d", len(response.EventTypes))
	handlers.RespondJSON(w, http.StatusOK, response)
}
