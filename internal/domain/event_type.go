package domain

import "sort"

// EventType тип выезда/встречи с клиентом
type EventType string

const (
	EventEstimate    EventType = "estimate"
	EventMeasurement EventType = "measurement"
	EventSiteVisit   EventType = "site_visit"
	EventJunkPickup  EventType = "junk_pickup"
)

// DefaultEventType используется, если тип не передан
const DefaultEventType = EventEstimate

// EventDurations длительность события по умолчанию в минутах
type EventDurations map[EventType]int

// DefaultEventDurations справочник длительностей
func DefaultEventDurations() EventDurations {
	return EventDurations{
		EventEstimate:    60,
		EventMeasurement: 45,
		EventSiteVisit:   90,
		EventJunkPickup:  120,
	}
}

// For возвращает длительность для типа события
func (d EventDurations) For(eventType EventType) (int, bool) {
	minutes, ok := d[eventType]
	return minutes, ok
}

// Types список известных типов в алфавитном порядке
func (d EventDurations) Types() []string {
	types := make([]string, 0, len(d))
	for t := range d {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}
