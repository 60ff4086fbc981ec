package domain

import "time"

// TimeSlot временной слот на запрошенную дату
type TimeSlot struct {
	Start time.Time
	End   time.Time
	Label string // "8:00 AM"
}

// NewTimeSlot создает слот длительностью durationMinutes
func NewTimeSlot(start time.Time, durationMinutes int) TimeSlot {
	return TimeSlot{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
		Label: start.Format(LabelFormat),
	}
}

// Overlaps проверяет пересечение полуоткрытых интервалов [Start, End) и [start, end)
// Слоты, которые только касаются границы, не пересекаются
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
