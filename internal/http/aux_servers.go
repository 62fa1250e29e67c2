package http

import (
	"context"
	"net/http"
	"time"

	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// AuxServer is a side listener next to the audit API: prometheus metrics or pprof.
type AuxServer struct {
	name    string
	timeout time.Duration
	server  *http.Server
	log     *log.Logger
}

func NewMetricsServer(host string, timeout time.Duration, log *log.Logger) *AuxServer {
	reg := metrics.MetricsRegister()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return newAuxServer(`metrics`, host, mux, timeout, log)
}

// NewPprofServer serves http.DefaultServeMux, where net/http/pprof registers itself.
func NewPprofServer(host string, timeout time.Duration, log *log.Logger) *AuxServer {
	return newAuxServer(`pprof`, host, nil, timeout, log)
}

func newAuxServer(name, host string, handler http.Handler, timeout time.Duration, log *log.Logger) *AuxServer {
	return &AuxServer{
		name:    name,
		timeout: timeout,
		server: &http.Server{
			Addr:              host,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func (s *AuxServer) Start() error {
	s.log.WithField(`addr`, s.server.Addr).Infof(`%s server starting`, s.name)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, s.name+` server stopped`)
	}
	return nil
}

func (s *AuxServer) Stop() error {
	if s.server == nil {
		return errors.New(s.name + ` server is not initialized`)
	}
	s.log.Infof(`shutting down %s server...`, s.name)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, `failed to shutdown `+s.name+` server`)
	}

	s.log.Infof(`%s server exiting`, s.name)
	return nil
}
