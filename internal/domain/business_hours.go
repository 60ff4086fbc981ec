package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBusinessHours возвращается при некорректной конфигурации рабочих часов
var ErrInvalidBusinessHours = errors.New("invalid business hours")

// BusinessHours рабочие часы компании
// StartHour - первый возможный час начала слота (включительно)
// EndHour - час закрытия: слот не может начинаться в этот час, но может в нем заканчиваться
type BusinessHours struct {
	StartHour int
	EndHour   int
	Days      []time.Weekday
}

// DefaultBusinessHours понедельник-суббота, 8:00-18:00
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartHour: 8,
		EndHour:   18,
		Days: []time.Weekday{
			time.Monday,
			time.Tuesday,
			time.Wednesday,
			time.Thursday,
			time.Friday,
			time.Saturday,
		},
	}
}

// IsOpenOn returns true if the business works on the given weekday
func (h BusinessHours) IsOpenOn(day time.Weekday) bool {
	for _, d := range h.Days {
		if d == day {
			return true
		}
	}
	return false
}

// DayNames названия рабочих дней ("Monday", ...)
func (h BusinessHours) DayNames() []string {
	names := make([]string, len(h.Days))
	for i, d := range h.Days {
		names[i] = d.String()
	}
	return names
}

// StartLabel время открытия в формате "8:00"
func (h BusinessHours) StartLabel() string {
	return fmt.Sprintf("%d:00", h.StartHour)
}

// EndLabel время закрытия в формате "18:00"
func (h BusinessHours) EndLabel() string {
	return fmt.Sprintf("%d:00", h.EndHour)
}

// Validate проверяет конфигурацию рабочих часов
func (h BusinessHours) Validate() error {
	if h.StartHour < 0 || h.StartHour > 23 {
		return fmt.Errorf("%w: start hour %d out of range", ErrInvalidBusinessHours, h.StartHour)
	}
	if h.EndHour <= h.StartHour || h.EndHour > 24 {
		return fmt.Errorf("%w: end hour %d must be after start hour %d and not later than 24",
			ErrInvalidBusinessHours, h.EndHour, h.StartHour)
	}
	if len(h.Days) == 0 {
		return fmt.Errorf("%w: at least one working day is required", ErrInvalidBusinessHours)
	}
	return nil
}
