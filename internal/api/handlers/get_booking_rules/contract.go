package get_booking_rules

import (
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

// RulesProvider источник действующих правил расчета доступности
type RulesProvider interface {
	Rules() getAvailability.Rules
}

type Logger interface {
	Info(format string, v ...interface{})
}
