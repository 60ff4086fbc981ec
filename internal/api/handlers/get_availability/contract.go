package get_availability

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/telemetry"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

// TelemetrySink приемник событий использования API, ошибок не возвращает
type TelemetrySink interface {
	Track(ctx context.Context, event telemetry.Event)
}

// MetricsRecorder учет исходов проверки доступности
type MetricsRecorder interface {
	RecordAvailabilityCheck(eventType, outcome string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
