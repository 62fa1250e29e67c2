// Package cmd provides the link_auditor command line.
//
// Configuration is read from the environment, optionally seeded by an env file
// (--config, default config.env). The --root, --out and --rules flags override
// AUDIT_PROJECT_ROOT, AUDIT_REPORT_DIR and AUDIT_RULES_FILE.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"link_auditor/internal/adaptors"
	"link_auditor/internal/application/config"
	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	rulesFile string
	rootDir   string
	outDir    string
)

var rootCmd = &cobra.Command{
	Use:   "link_auditor",
	Short: "Audit internal links against a file-based routing tree",
	Long: `link_auditor builds the route catalog from a Next.js style app directory,
extracts every internal link from the source tree and reports broken links,
orphan routes and the state of the navigation menu.

Commands:
  link_auditor audit     Run once and write link-audit.txt and link-audit.csv
  link_auditor serve     Serve audit results over HTTP
  link_auditor watch     Re-run the audit whenever sources change`,
	SilenceUsage: true,
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultEnvFile, "env file to load; a missing file is ignored")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML rules file overriding the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root containing the routing root and scan roots")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "directory the reports are written to")
}

// app is everything a command needs to run audits.
type app struct {
	cfg     *config.AppConfig
	rules   *models.Rules
	log     *log.Logger
	auditor *service.Auditor
}

func loadApp() (*app, error) {
	cfg, err := config.NewAppConfig(cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, `failed to load config`)
	}
	if rootDir != "" {
		cfg.ProjectRoot = rootDir
	}
	if outDir != "" {
		cfg.ReportDir = outDir
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, errors.Wrap(err, `failed to load rules`)
	}

	fs := adaptors.NewLocalFileSystem(cfg.ProjectRoot, logger)
	auditor, err := service.NewAuditor(logger, fs, rules, service.AuditOptions{
		RoutingRoot:     cfg.RoutingRoot,
		ScanRoots:       cfg.ScanRoots,
		NavigationFiles: cfg.NavigationFiles,
		Workers:         cfg.Workers,
		CacheSize:       cfg.CacheSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, `failed to create auditor`)
	}

	return &app{cfg: cfg, rules: rules, log: logger, auditor: auditor}, nil
}

func newLogger(cfg *config.AppConfig) (*log.Logger, error) {
	logger := log.New()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse log level`)
	}
	if cfg.DebugMode {
		level = log.DebugLevel
	}

	logger.SetFormatter(&log.JSONFormatter{
		TimestampFormat:   time.RFC3339,
		DisableHTMLEscape: true,
	})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return logger, nil
}
