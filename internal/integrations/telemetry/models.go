package telemetry

import "time"

// Названия событий
const (
	EventAvailabilityChecked  = "availability_checked"
	EventAvailabilityRejected = "availability_rejected" // ошибка валидации
	EventAvailabilityFailed   = "availability_failed"   // внутренняя ошибка
)

// Event событие использования API
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"event"`
	OccurredAt       time.Time `json:"occurredAt"`
	RequestID        string    `json:"requestId,omitempty"`
	Method           string    `json:"method,omitempty"`
	Date             string    `json:"date,omitempty"`
	EventType        string    `json:"eventType,omitempty"`
	Duration         int       `json:"duration,omitempty"`
	BusinessDay      bool      `json:"businessDay"`
	AvailableSlots   int       `json:"availableSlots"`
	ExistingBookings int       `json:"existingBookings"`
	Error            string    `json:"error,omitempty"`
}
