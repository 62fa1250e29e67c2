package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DefaultEnvFile = `config.env`

type AppConfig struct {
	LogLevel    string
	DebugMode   bool
	MetricsHost string
	PprofHost   string

	ProjectRoot     string
	RoutingRoot     string
	ScanRoots       []string
	NavigationFiles []string
	ReportDir       string
	RulesFile       string
	Workers         int
	CacheSize       int
	LinkSample      int
	WatchDebounce   time.Duration
}

// NewAppConfig loads envFile when it exists and reads the environment.
func NewAppConfig(envFile string) (*AppConfig, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	var errMsg []string
	cfg := AppConfig{}
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.DebugMode = os.Getenv("APP_ENABLE_DEBUG") == "true"
	cfg.MetricsHost = getEnv("HTTP_APP_METRICS_HOST", ":9090")
	cfg.PprofHost = getEnv("HTTP_APP_PPROF_HOST", ":6060")

	cfg.ProjectRoot = getEnv("AUDIT_PROJECT_ROOT", ".")
	cfg.RoutingRoot = getEnv("AUDIT_ROUTING_ROOT", "app")
	cfg.ScanRoots = getList("AUDIT_SCAN_ROOTS", []string{"app", "components", "content", "lib", "data"})
	cfg.NavigationFiles = getList("AUDIT_NAVIGATION_FILES", []string{"lib/navigation.ts", "config/site.ts"})
	cfg.ReportDir = getEnv("AUDIT_REPORT_DIR", "reports")
	cfg.RulesFile = os.Getenv("AUDIT_RULES_FILE")

	var err error
	if cfg.Workers, err = getInt("AUDIT_WORKERS", 4); err != nil {
		errMsg = append(errMsg, err.Error())
	}
	if cfg.CacheSize, err = getInt("AUDIT_SCAN_CACHE_SIZE", 4096); err != nil {
		errMsg = append(errMsg, err.Error())
	}
	if cfg.LinkSample, err = getInt("AUDIT_LINK_SAMPLE", 50); err != nil {
		errMsg = append(errMsg, err.Error())
	}
	if cfg.WatchDebounce, err = getDuration("AUDIT_WATCH_DEBOUNCE", 500*time.Millisecond); err != nil {
		errMsg = append(errMsg, err.Error())
	}

	if len(errMsg) != 0 {
		return nil, fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	var errMsg []string
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is invalid`, cfg.LogLevel))
	}

	if cfg.RoutingRoot == "" {
		errMsg = append(errMsg, `routing root is empty`)
	}

	if len(cfg.ScanRoots) == 0 {
		errMsg = append(errMsg, `scan roots are empty`)
	}

	if cfg.Workers < 1 {
		errMsg = append(errMsg, `workers must be at least 1`)
	}

	if cfg.LinkSample < 0 {
		errMsg = append(errMsg, `link sample must not be negative`)
	}

	if len(errMsg) != 0 {
		return fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}
	return nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	err := godotenv.Load(envFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading %s file: %w", envFile, err)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration format: %w", key, err)
	}
	return d, nil
}
