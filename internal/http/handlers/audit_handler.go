package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/domain/models"
	"link_auditor/internal/http/middleware"
	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/report"

	log "github.com/sirupsen/logrus"
)

// AuditHandler serves the most recent audit result and re-runs the audit on request.
type AuditHandler struct {
	runner adaptors.AuditRunner
	log    *log.Logger

	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *models.AuditResult
}

type BrokenLinksResponse struct {
	Count       int                 `json:"count"`
	BrokenLinks []models.BrokenLink `json:"broken_links"`
}

type OrphanRoute struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
}

type OrphanRoutesResponse struct {
	Count        int           `json:"count"`
	OrphanRoutes []OrphanRoute `json:"orphan_routes"`
}

func NewAuditHandler(runner adaptors.AuditRunner, log *log.Logger) *AuditHandler {
	return &AuditHandler{
		runner: runner,
		log:    log,
	}
}

// Latest returns the cached result, running the audit first when none exists.
func (h *AuditHandler) Latest(w http.ResponseWriter, r *http.Request) {
	result, ok := h.current(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, result)
}

// Rerun always runs a fresh audit.
func (h *AuditHandler) Rerun(w http.ResponseWriter, r *http.Request) {
	result, err := h.run(r)
	if err != nil {
		sendError(w, h.log, `failed to run audit`, err, statusFor(err))
		return
	}
	h.writeJSON(w, result)
}

func (h *AuditHandler) Broken(w http.ResponseWriter, r *http.Request) {
	result, ok := h.current(w, r)
	if !ok {
		return
	}
	broken := result.BrokenLinks
	if broken == nil {
		broken = []models.BrokenLink{}
	}
	h.writeJSON(w, BrokenLinksResponse{Count: len(broken), BrokenLinks: broken})
}

func (h *AuditHandler) Orphans(w http.ResponseWriter, r *http.Request) {
	result, ok := h.current(w, r)
	if !ok {
		return
	}
	orphans := make([]OrphanRoute, 0, len(result.OrphanRoutes))
	for _, route := range result.OrphanRoutes {
		orphans = append(orphans, OrphanRoute{Path: route.Path(), Dir: route.Dir})
	}
	h.writeJSON(w, OrphanRoutesResponse{Count: len(orphans), OrphanRoutes: orphans})
}

func (h *AuditHandler) ReportCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.current(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, result); err != nil {
		sendError(w, h.log, `failed to render csv report`, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set(`Content-Type`, `text/csv; charset=utf-8`)
	w.Header().Set(`Content-Disposition`, `attachment; filename="`+report.CSVFileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *AuditHandler) ReportText(sample int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := h.current(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := report.WriteText(&buf, result, sample); err != nil {
			sendError(w, h.log, `failed to render text report`, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set(`Content-Type`, `text/plain; charset=utf-8`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func (h *AuditHandler) current(w http.ResponseWriter, r *http.Request) (*models.AuditResult, bool) {
	h.mu.RLock()
	result := h.latest
	h.mu.RUnlock()
	if result != nil {
		return result, true
	}

	result, err := h.run(r)
	if err != nil {
		sendError(w, h.log, `failed to run audit`, err, statusFor(err))
		return nil, false
	}
	return result, true
}

// run executes one audit at a time and caches its result.
func (h *AuditHandler) run(r *http.Request) (*models.AuditResult, error) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	h.log.WithField(`request_id`, middleware.RequestID(r.Context())).Debug(`audit handler running audit`)
	result, err := h.runner.Run(r.Context())
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.latest = result
	h.mu.Unlock()
	return result, nil
}

func (h *AuditHandler) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sendError(w, h.log, `failed to encode response`, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func statusFor(err error) int {
	if errors.Is(err, errors.ErrRoutingRootUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
