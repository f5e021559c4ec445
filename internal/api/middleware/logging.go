package middleware

import (
	"net/http"
	"time"
)

// responseWriter запоминает статус ответа
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Logging пишет в лог метод, путь, статус и длительность каждого запроса
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			requestID := GetRequestID(r.Context())

			switch {
			case rw.status >= http.StatusInternalServerError:
				logger.Error("HTTP %s %s - status=%d duration=%s request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			case rw.status >= http.StatusBadRequest:
				logger.Warn("HTTP %s %s - status=%d duration=%s request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			default:
				logger.Info("HTTP %s %s - status=%d duration=%s request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			}
		})
	}
}
