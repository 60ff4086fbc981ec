package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(log Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("Panic recovered: %v, method=%s, path=%s, request_id=%s\n%s",
						err, r.Method, r.URL.Path, RequestIDFromContext(r.Context()), debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
