package middleware

import (
	"net/http"
	"time"
)

// Logging логирует каждый запрос: 5xx как ошибку, 4xx как предупреждение
func Logging(log Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			requestID := RequestIDFromContext(r.Context())

			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error("HTTP %s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			case rec.status >= http.StatusBadRequest:
				log.Warn("HTTP %s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			default:
				log.Info("HTTP %s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			}
		})
	}
}
