package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// interval занятый промежуток времени [start, end)
type interval struct {
	start time.Time
	end   time.Time
}

// ComputeAvailability рассчитывает свободные слоты на дату
// Чистая функция: результат зависит только от аргументов
//
// 1. Нерабочий день - пустой список и BusinessDay=false (это не ошибка)
// 2. Генерация слотов с шагом rules.SlotStepMinutes внутри рабочих часов
// 3. Исключение слотов, пересекающихся с занятыми окнами бронирований
func ComputeAvailability(
	date time.Time,
	eventType domain.EventType,
	durationMinutes int,
	bookings []*domain.ExistingBooking,
	rules Rules,
) *Response {
	resp := &Response{
		Date:            date,
		EventType:       eventType,
		DurationMinutes: durationMinutes,
		AvailableSlots:  []domain.TimeSlot{},
		BusinessHours:   rules.BusinessHours,
	}

	// Шаг 1: проверка рабочего дня
	if !rules.BusinessHours.IsOpenOn(date.Weekday()) {
		resp.Message = closedMessage(date.Weekday())
		return resp
	}
	resp.BusinessDay = true

	// Шаг 2: все возможные слоты
	candidates := generateTimeSlots(date, durationMinutes, rules)

	// Шаг 3: фильтрация по бронированиям с учетом буфера на дорогу
	occupied := occupiedWindows(date, bookings, rules)
	resp.AvailableSlots = filterAvailable(candidates, occupied)

	resp.TotalSlots = len(candidates)
	resp.ExistingBookings = len(occupied)
	resp.Message = availabilityMessage(len(resp.AvailableSlots))

	return resp
}

// generateTimeSlots генерирует слоты для каждого часа [StartHour, EndHour) и каждого смещения кратного шагу
// Слот, который заканчивается позже закрытия, отбрасывается. Окончание ровно в час закрытия допустимо
func generateTimeSlots(date time.Time, durationMinutes int, rules Rules) []domain.TimeSlot {
	hours := rules.BusinessHours
	step := rules.SlotStepMinutes
	if step <= 0 {
		step = domain.DefaultSlotStepMinutes
	}

	y, m, d := date.Date()
	closeAt := time.Date(y, m, d, hours.EndHour, 0, 0, 0, rules.Location)

	slots := make([]domain.TimeSlot, 0)
	for h := hours.StartHour; h < hours.EndHour; h++ {
		for offset := 0; offset < 60; offset += step {
			start := time.Date(y, m, d, h, offset, 0, 0, rules.Location)
			slot := domain.NewTimeSlot(start, durationMinutes)
			if slot.End.After(closeAt) {
				continue
			}
			slots = append(slots, slot)
		}
	}

	return slots
}

// occupiedWindows строит занятые окна для активных бронирований
// Окно: [начало - буфер, начало + предполагаемая длительность + буфер]
// Длительность существующего бронирования не хранится, используется AssumedBookingDurationMinutes
func occupiedWindows(date time.Time, bookings []*domain.ExistingBooking, rules Rules) []interval {
	buffer := time.Duration(rules.TravelBufferMinutes) * time.Minute
	assumed := time.Duration(rules.AssumedBookingDurationMinutes) * time.Minute

	windows := make([]interval, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.IsOccupying() {
			continue
		}

		start, err := booking.SlotTime.On(date, rules.Location)
		if err != nil {
			// Время уже проверено при чтении из БД, сюда попадают только битые записи
			continue
		}

		windows = append(windows, interval{
			start: start.Add(-buffer),
			end:   start.Add(assumed + buffer),
		})
	}

	return windows
}

// filterAvailable оставляет слоты без пересечений, порядок сохраняется
func filterAvailable(slots []domain.TimeSlot, occupied []interval) []domain.TimeSlot {
	available := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !overlapsAny(slot, occupied) {
			available = append(available, slot)
		}
	}
	return available
}

func overlapsAny(slot domain.TimeSlot, occupied []interval) bool {
	for _, w := range occupied {
		if slot.Overlaps(w.start, w.end) {
			return true
		}
	}
	return false
}

func closedMessage(day time.Weekday) string {
	return fmt.Sprintf("We are closed on %ss. Please choose another date.", day)
}

func availabilityMessage(available int) string {
	switch available {
	case 0:
		return "No time slots available on this date. Please choose another date."
	case 1:
		return "1 time slot available"
	default:
		return fmt.Sprintf("%d time slots available", available)
	}
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
