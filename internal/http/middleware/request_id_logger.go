package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = `x-request-id`

type ctxKeyRequestID struct{}

// RequestID returns the id assigned to the request by RequestIDLoggerMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

// RequestIDLoggerMiddleware tags each request with an id (taken from x-request-id when present),
// logs its outcome and turns handler panics into a JSON 500.
func RequestIDLoggerMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(`Access-Control-Allow-Origin`, `*`)
			w.Header().Set(`Access-Control-Allow-Methods`, `POST, GET, OPTIONS`)
			w.Header().Set(`Access-Control-Allow-Headers`, `Content-Type, `+requestIDHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				rec := recover()
				if rec != nil {
					writePanic(ww, reqID)
				}
				logRequest(logger, r, ww.Status(), reqID, time.Since(start), rec)
			}()

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID{}, reqID)))
		})
	}
}

func writePanic(w http.ResponseWriter, reqID string) {
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		`error`:      `internal server error`,
		`request_id`: reqID,
	})
}

func logRequest(logger *log.Logger, r *http.Request, status int, reqID string, elapsed time.Duration, rec any) {
	if status == 0 {
		status = http.StatusOK
	}
	entry := logger.WithFields(log.Fields{
		`method`:     r.Method,
		`path`:       r.URL.Path,
		`status`:     status,
		`request_id`: reqID,
		`duration`:   elapsed.String(),
	})

	switch {
	case rec != nil:
		entry.WithFields(log.Fields{
			`error`: fmt.Sprintf(`%v`, rec),
			`stack`: string(debug.Stack()),
		}).Error(`panic recovered`)
	case status >= 400:
		entry.Error(`request completed with error status`)
	default:
		entry.Debug(`request completed`)
	}
}
