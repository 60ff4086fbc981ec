package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ExistingBooking бронирование из внешнего хранилища
// Хранится только время начала, длительность не сохраняется
type ExistingBooking struct {
	ID       int64
	SlotDate time.Time
	SlotTime types.TimeString
	Status   BookingStatus
}

// IsOccupying returns true if the booking blocks time on the calendar
func (b *ExistingBooking) IsOccupying() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// OccupyingStatuses статусы, которые занимают время в календаре
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
