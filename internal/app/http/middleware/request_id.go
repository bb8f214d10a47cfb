package middleware

import (
	"net/http"
	"time"

	"github.com/oxygenesis/arsign/pkg/id"
)

const HeaderRequestID = "X-Request-Id"

// RequestID tags each response with an ID, reusing the caller's if it sent one, and logs the request.
func RequestID(ids id.Generator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" {
			rid = ids.New()
		}
		w.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", rid, "took", time.Since(start))
	})
}
