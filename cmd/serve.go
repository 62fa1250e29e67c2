package cmd

import (
	"link_auditor/internal/http"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve audit results over HTTP",
	Long: `Serve the audit API on HTTP_SERVER_HOST together with the prometheus
metrics server and the pprof server.

Endpoints:
  GET  /ready
  GET  /audit               latest result, running the audit if none exists
  POST /audit               re-run the audit
  GET  /audit/broken
  GET  /audit/orphans
  GET  /audit/report.csv
  GET  /audit/report.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return http.Init(cmd.Context(), a.log, a.cfg, cfgFile, a.auditor)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
