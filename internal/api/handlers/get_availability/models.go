package get_availability

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// AvailabilityRequest тело POST запроса
// Поля разбираются вручную, чтобы значение неверного типа стало нарушением по полю
type AvailabilityRequest struct {
	Date      json.RawMessage `json:"date"`
	EventType json.RawMessage `json:"eventType"`
	Duration  json.RawMessage `json:"duration"`
}

// AvailabilityResponse данные успешного ответа
type AvailabilityResponse struct {
	Date             string        `json:"date"`
	EventType        string        `json:"eventType"`
	Duration         int           `json:"duration"`
	BusinessDay      bool          `json:"businessDay"`
	AvailableSlots   []string      `json:"availableSlots"`
	TotalSlots       int           `json:"totalSlots"`
	ExistingBookings int           `json:"existingBookings"`
	Message          string        `json:"message"`
	BusinessHours    BusinessHours `json:"businessHours"`
}

// BusinessHours рабочие часы в ответе
type BusinessHours struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Days  []string `json:"days"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос use case
func (r *AvailabilityRequest) ToUseCaseRequest() *getAvailability.Request {
	req := &getAvailability.Request{}
	req.Date = decodeString(r.Date, "date", req)
	req.EventType = decodeString(r.EventType, "eventType", req)

	if !isAbsent(r.Duration) {
		if duration, err := strconv.Atoi(string(bytes.TrimSpace(r.Duration))); err == nil {
			req.Duration = ptr.Ptr(duration)
		} else {
			req.FieldErrors = append(req.FieldErrors, getAvailability.ValidationError{
				Field:   "duration",
				Message: msgWholeMinutes,
			})
		}
	}

	return req
}

// QueryToUseCaseRequest собирает запрос use case из query параметров GET
func QueryToUseCaseRequest(query url.Values) *getAvailability.Request {
	req := &getAvailability.Request{
		Date:      query.Get("date"),
		EventType: query.Get("eventType"),
	}

	if durationStr := query.Get("duration"); durationStr != "" {
		if duration, err := strconv.Atoi(durationStr); err == nil {
			req.Duration = ptr.Ptr(duration)
		} else {
			req.FieldErrors = append(req.FieldErrors, getAvailability.ValidationError{
				Field:   "duration",
				Message: msgWholeMinutes,
			})
		}
	}

	return req
}

func decodeString(raw json.RawMessage, field string, req *getAvailability.Request) string {
	if isAbsent(raw) {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		req.FieldErrors = append(req.FieldErrors, getAvailability.ValidationError{
			Field:   field,
			Message: msgMustBeString,
		})
		return ""
	}
	return value
}

// isAbsent поле не передано или равно null
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	labels := make([]string, len(resp.AvailableSlots))
	for i, slot := range resp.AvailableSlots {
		labels[i] = slot.Label
	}

	return &AvailabilityResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		EventType:        string(resp.EventType),
		Duration:         resp.DurationMinutes,
		BusinessDay:      resp.BusinessDay,
		AvailableSlots:   labels,
		TotalSlots:       resp.TotalSlots,
		ExistingBookings: resp.ExistingBookings,
		Message:          resp.Message,
		BusinessHours: BusinessHours{
			Start: resp.BusinessHours.StartLabel(),
			End:   resp.BusinessHours.EndLabel(),
			Days:  resp.BusinessHours.DayNames(),
		},
	}
}
