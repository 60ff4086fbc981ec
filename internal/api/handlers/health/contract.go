package health

import "context"

// Pinger проверка доступности зависимости (БД)
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}
