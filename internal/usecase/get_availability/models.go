package get_availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса доступности
// Поля хранятся в сыром виде: формат проверяется валидатором usecase
type Request struct {
	Date      string `validate:"required,datetime=2006-01-02"` // YYYY-MM-DD
	EventType string `validate:"omitempty,event_type"`         // по умолчанию estimate
	Duration  *int   `validate:"omitempty,min=30,max=240"`     // минуты, переопределяет справочник

	// FieldErrors поля, которые транспорт не смог разобрать (неверный тип значения)
	// Попадают в общий список нарушений, остальные проверки этих полей пропускаются
	FieldErrors ValidationErrors `validate:"-"`
}

// Response модель ответа
type Response struct {
	Date             time.Time
	EventType        domain.EventType
	DurationMinutes  int
	BusinessDay      bool
	AvailableSlots   []domain.TimeSlot // по возрастанию времени начала
	TotalSlots       int               // сгенерировано слотов до фильтрации по бронированиям
	ExistingBookings int               // учтено бронирований (pending/confirmed)
	Message          string
	BusinessHours    domain.BusinessHours
}

// Rules правила расчета доступности, не меняются во время работы процесса
type Rules struct {
	BusinessHours                 domain.BusinessHours
	EventDurations                domain.EventDurations
	SlotStepMinutes               int
	TravelBufferMinutes           int
	AssumedBookingDurationMinutes int
	Location                      *time.Location
}

// DefaultRules эталонная конфигурация: пн-сб 8-18, шаг 30 минут, буфер на дорогу 30 минут
func DefaultRules() Rules {
	return Rules{
		BusinessHours:                 domain.DefaultBusinessHours(),
		EventDurations:                domain.DefaultEventDurations(),
		SlotStepMinutes:               domain.DefaultSlotStepMinutes,
		TravelBufferMinutes:           domain.DefaultTravelBufferMinutes,
		AssumedBookingDurationMinutes: domain.DefaultAssumedBookingDurationMinutes,
		Location:                      time.UTC,
	}
}

// params провалидированные параметры запроса
type params struct {
	date            time.Time
	eventType       domain.EventType
	durationMinutes int
}
