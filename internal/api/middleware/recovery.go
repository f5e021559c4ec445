package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
)

const msgInternalError = "внутренняя ошибка сервера"

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered: %v, path=%s, request_id=%s\n%s",
						rec, r.URL.Path, GetRequestID(r.Context()), debug.Stack())
					handlers.RespondError(w, http.StatusInternalServerError, msgInternalError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
