package telemetry

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// messageWriter часть *kafka.Writer, которая нужна синку
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink приемник событий использования API
// Track не блокирует и не возвращает ошибок, Close дожидается отправки
type Sink interface {
	Track(ctx context.Context, event Event)
	Close() error
}
