package middleware

import (
	"net/http"
	"strconv"
	"time"

	"link_auditor/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// MetricsMiddleware records request counts, latency and error responses per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		code := strconv.Itoa(status)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		if status >= 400 {
			metrics.HTTPRequestErrorsTotal.WithLabelValues(r.Method, route, code).Inc()
		}
	})
}
