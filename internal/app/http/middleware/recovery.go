package middleware

import (
	"net/http"

	"github.com/oxygenesis/arsign/internal/log"
)

var logger = log.NewLoggerIPFS("http")

func Recovery(next http.Handler) http.Handler {
	if next == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic", "recovered", rec, "path", r.URL.Path, "request_id", w.Header().Get(HeaderRequestID))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
