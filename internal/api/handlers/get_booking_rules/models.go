package get_booking_rules

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

// RulesResponse правила, по которым считаются слоты (для формы записи)
type RulesResponse struct {
	Timezone                      string        `json:"timezone"`
	BusinessHours                 BusinessHours `json:"businessHours"`
	SlotStepMinutes               int           `json:"slotStepMinutes"`
	TravelBufferMinutes           int           `json:"travelBufferMinutes"`
	AssumedBookingDurationMinutes int           `json:"assumedBookingDurationMinutes"`
	DefaultEventType              string        `json:"defaultEventType"`
	EventTypes                    []EventType   `json:"eventTypes"`
	DurationRange                 DurationRange `json:"durationRange"`
}

type BusinessHours struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Days  []string `json:"days"`
}

type EventType struct {
	Type            string `json:"type"`
	DurationMinutes int    `json:"durationMinutes"`
}

// DurationRange допустимое переопределение длительности
type DurationRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FromRules конвертирует правила use case в HTTP response
func FromRules(rules getAvailability.Rules) *RulesResponse {
	types := rules.EventDurations.Types()
	eventTypes := make([]EventType, 0, len(types))
	for _, t := range types {
		minutes, _ := rules.EventDurations.For(domain.EventType(t))
		eventTypes = append(eventTypes, EventType{Type: t, DurationMinutes: minutes})
	}

	return &RulesResponse{
		Timezone: rules.Location.String(),
		BusinessHours: BusinessHours{
			Start: rules.BusinessHours.StartLabel(),
			End:   rules.BusinessHours.EndLabel(),
			Days:  rules.BusinessHours.DayNames(),
		},
		SlotStepMinutes:               rules.SlotStepMinutes,
		TravelBufferMinutes:           rules.TravelBufferMinutes,
		AssumedBookingDurationMinutes: rules.AssumedBookingDurationMinutes,
		DefaultEventType:              string(domain.DefaultEventType),
		EventTypes:                    eventTypes,
		DurationRange: DurationRange{
			Min: domain.MinDurationMinutes,
			Max: domain.MaxDurationMinutes,
		},
	}
}
