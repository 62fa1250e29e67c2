package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"link_auditor/internal/application/config"
	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/pkg/errors"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type Router struct {
	httpRouter *chi.Mux
	log        *log.Logger
}

// Init serves the audit API alongside the metrics and pprof servers until
// ctx is done or the process receives SIGINT or SIGTERM.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig, envFile string, runner adaptors.AuditRunner) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	cfg, err := NewHTTPServerConfig(envFile)
	if err != nil {
		return errors.Wrap(err, `failed to load http config`)
	}

	router := &Router{
		httpRouter: chi.NewRouter(),
		log:        log,
	}
	initRoutes(ctx, router, runner, appCfg.LinkSample)

	metricsServer := NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log)
	httpServer := NewHttpServer(ctx, cfg, router.httpRouter, log)
	// pprof handlers live on http.DefaultServeMux
	pprofServer := NewPprofServer(appCfg.PprofHost, cfg.Timeouts.ShutdownWait, log)

	failed := make(chan error, 3)
	for _, start := range []func() error{metricsServer.Start, httpServer.Start, pprofServer.Start} {
		go func(start func() error) {
			if err := start(); err != nil {
				failed <- err
			}
		}(start)
	}

	var runErr error
	select {
	case <-sigs:
	case <-ctx.Done():
	case runErr = <-failed:
		log.WithError(runErr).Error(`server failed`)
	}

	if err := httpServer.Stop(); err != nil {
		return err
	}
	if err := pprofServer.Stop(); err != nil {
		return err
	}
	if err := metricsServer.Stop(); err != nil {
		return err
	}
	return runErr
}
