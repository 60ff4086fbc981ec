package get_availability

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/telemetry"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

const (
	msgValidationPrefix = "Validation failed: "
	msgMalformedBody    = "request body must be valid JSON"
	msgMissingDate      = "date: is required"
	msgInvalidRequest   = "invalid request"

	// нарушения разбора отдельных полей
	msgWholeMinutes = "must be a whole number of minutes"
	msgMustBeString = "must be a string"
)

// Исходы проверки для метрик
const (
	outcomeAvailable   = "available"
	outcomeFullyBooked = "fully_booked"
	outcomeClosed      = "closed"
	outcomeRejected    = "rejected"
	outcomeFailed      = "failed"
)

type Handler struct {
	useCase   GetAvailabilityUseCase
	telemetry TelemetrySink
	metrics   MetricsRecorder
	logger    Logger
}

// NewHandler metrics может быть nil, если метрики выключены
func NewHandler(useCase GetAvailabilityUseCase, telemetry TelemetrySink, metrics MetricsRecorder, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		telemetry: telemetry,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandlePost POST /api/booking/availability
// Body: {"date": "YYYY-MM-DD", "eventType": "estimate", "duration": 60}
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var body AvailabilityRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /api/booking/availability - Invalid request body: %v", err)
		h.reject(r, &getAvailability.Request{}, msgMalformedBody)
		handlers.RespondBadRequest(w, msgValidationPrefix+msgMalformedBody)
		return
	}

	h.serve(w, r, body.ToUseCaseRequest())
}

// HandleGet GET /api/booking/availability
// Query params: date (required), eventType, duration
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	req := QueryToUseCaseRequest(r.URL.Query())

	if req.Date == "" {
		h.logger.Warn("GET /api/booking/availability - Missing date")
		h.reject(r, req, msgMissingDate)
		handlers.RespondBadRequest(w, msgValidationPrefix+msgMissingDate)
		return
	}

	h.serve(w, r, req)
}

// serve общая логика POST и GET
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, req *getAvailability.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			message := validationMessage(err)
			h.logger.Warn("%s /api/booking/availability - Validation failed: date=%q, eventType=%q, error=%v",
				r.Method, req.Date, req.EventType, err)
			h.reject(r, req, message)
			handlers.RespondBadRequest(w, msgValidationPrefix+message)

		default:
			h.logger.Error("%s /api/booking/availability - Failed to compute availability: date=%q, eventType=%q, error=%v",
				r.Method, req.Date, req.EventType, err)
			h.recordOutcome(eventTypeLabel(req.EventType), outcomeFailed)
			h.track(r.Context(), telemetry.Event{
				Name:      telemetry.EventAvailabilityFailed,
				RequestID: middleware.RequestIDFromContext(r.Context()),
				Method:    r.Method,
				Date:      req.Date,
				EventType: req.EventType,
				Error:     err.Error(),
			})
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.recordOutcome(response.EventType, outcome(result))
	h.track(r.Context(), telemetry.Event{
		Name:             telemetry.EventAvailabilityChecked,
		RequestID:        middleware.RequestIDFromContext(r.Context()),
		Method:           r.Method,
		Date:             response.Date,
		EventType:        response.EventType,
		Duration:         response.Duration,
		BusinessDay:      response.BusinessDay,
		AvailableSlots:   len(response.AvailableSlots),
		ExistingBookings: response.ExistingBookings,
	})

	h.logger.Info("%s /api/booking/availability - Availability computed: date=%s, eventType=%s, available=%d/%d",
		r.Method, response.Date, response.EventType, len(response.AvailableSlots), response.TotalSlots)
	handlers.RespondJSON(w, http.StatusOK, response)
}

// reject учитывает отклоненный запрос в метриках и телеметрии
func (h *Handler) reject(r *http.Request, req *getAvailability.Request, message string) {
	// тип из отклоненного запроса не проверен, в лейбл метрики его не пишем
	h.recordOutcome("", outcomeRejected)
	h.track(r.Context(), telemetry.Event{
		Name:      telemetry.EventAvailabilityRejected,
		RequestID: middleware.RequestIDFromContext(r.Context()),
		Method:    r.Method,
		Date:      req.Date,
		EventType: req.EventType,
		Error:     message,
	})
}

func (h *Handler) track(ctx context.Context, event telemetry.Event) {
	if h.telemetry == nil {
		return
	}
	h.telemetry.Track(ctx, event)
}

func (h *Handler) recordOutcome(eventType, outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordAvailabilityCheck(eventType, outcome)
}

func outcome(resp *getAvailability.Response) string {
	switch {
	case !resp.BusinessDay:
		return outcomeClosed
	case len(resp.AvailableSlots) == 0:
		return outcomeFullyBooked
	default:
		return outcomeAvailable
	}
}

func eventTypeLabel(eventType string) string {
	if eventType == "" {
		return string(domain.DefaultEventType)
	}
	return eventType
}

// validationMessage перечисляет нарушения по полям
func validationMessage(err error) string {
	var violations getAvailability.ValidationErrors
	if errors.As(err, &violations) {
		return violations.Error()
	}
	return msgInvalidRequest
}
