package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"link_auditor/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/audit/{view}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	errorsFor := func() float64 {
		var m dto.Metric
		if err := metrics.HTTPRequestErrorsTotal.WithLabelValues(http.MethodGet, "/audit/{view}", "418").Write(&m); err != nil {
			t.Fatal(err)
		}
		return m.GetCounter().GetValue()
	}

	before := errorsFor()
	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/audit/broken", nil))
	}
	after := errorsFor()

	assert.Equal(t, 2.0, after-before)
}

func TestRequestIDLoggerMiddleware(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)

	var seen string
	h := RequestIDLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("x-request-id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/audit", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, RequestID(context.Background()))
}

func TestRequestIDLoggerMiddleware_RecoversPanics(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)

	h := RequestIDLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
