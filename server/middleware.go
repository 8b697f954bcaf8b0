package server

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"airbnb-dashboard/utils"
)

// RequestLogger writes one access log line per request through logger.
func RequestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Request(r.Method, r.URL.Path, statusOf(ww, r), ww.BytesWritten(),
				time.Since(start), chimw.GetReqID(r.Context()))
		})
	}
}
