package domain

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	LabelFormat = "3:04 PM"    // 8:00 AM
)

// Slot rules
const (
	DefaultSlotStepMinutes               = 30
	DefaultTravelBufferMinutes           = 30
	DefaultAssumedBookingDurationMinutes = 60 // у существующих бронирований нет длительности
)

// Business validation constants
const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 240 // 4 hours
)
