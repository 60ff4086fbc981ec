package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

// Timeout ограничивает время обработки запроса, по истечении отвечает 503
// d <= 0 отключает ограничение
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		timeoutHandler := http.TimeoutHandler(next, d, handlers.TimeoutBody())
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// обработчик перезапишет заголовок, если успеет ответить
			w.Header().Set("Content-Type", "application/json")
			timeoutHandler.ServeHTTP(w, r)
		})
	}
}
