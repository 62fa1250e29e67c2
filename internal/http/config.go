package http

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Host     string
	Timeouts struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
}

// NewHTTPServerConfig reads the audit API listener settings; unset values fall back to defaults.
func NewHTTPServerConfig(envFile string) (*HTTPServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s file: %w", envFile, err)
		}
	}

	var errs []string
	cfg := &HTTPServerConfig{Host: strings.TrimSpace(os.Getenv("HTTP_SERVER_HOST"))}
	if cfg.Host == "" {
		cfg.Host = ":8080"
	}

	timeouts := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"HTTP_APP_READ_TIMEOUT_DURATION", 5 * time.Second, &cfg.Timeouts.Read},
		{"HTTP_APP_READ_HEADER_TIMEOUT_DURATION", 2 * time.Second, &cfg.Timeouts.ReadHeader},
		{"HTTP_APP_WRITE_TIMEOUT_DURATION", 60 * time.Second, &cfg.Timeouts.Write},
		{"HTTP_APP_IDLE_TIMEOUT_DURATION", 60 * time.Second, &cfg.Timeouts.Idle},
		{"HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", 10 * time.Second, &cfg.Timeouts.ShutdownWait},
	}
	for _, t := range timeouts {
		value := strings.TrimSpace(os.Getenv(t.key))
		if value == "" {
			*t.dst = t.fallback
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid duration format: %v", t.key, err))
			continue
		}
		*t.dst = d
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return cfg, nil
}
