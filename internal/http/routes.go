package http

import (
	"context"

	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/http/handlers"
	"link_auditor/internal/http/middleware"

	"github.com/go-chi/chi/v5"
)

func initRoutes(_ context.Context, r *Router, runner adaptors.AuditRunner, linkSample int) {
	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))

	audit := handlers.NewAuditHandler(runner, r.log)
	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Route("/audit", func(sub chi.Router) {
		sub.Get("/", audit.Latest)
		sub.Post("/", audit.Rerun)
		sub.Get("/broken", audit.Broken)
		sub.Get("/orphans", audit.Orphans)
		sub.Get("/report.csv", audit.ReportCSV)
		sub.Get("/report.txt", audit.ReportText(linkSample))
	})
}
