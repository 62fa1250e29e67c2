package cmd

import (
	"context"
	"fmt"
	"io"

	"link_auditor/internal/report"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the audit once and write the reports",
	Long: `Run the audit once and write link-audit.txt and link-audit.csv into the
report directory. Broken links and orphan routes are findings, not failures:
the command exits non-zero only when the routing root cannot be read or the
configuration is invalid.

Examples:
  link_auditor audit
  link_auditor audit --root ../site --out ../site/reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return runAudit(cmd.Context(), a, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(ctx context.Context, a *app, out io.Writer) error {
	result, err := a.auditor.Run(ctx)
	if err != nil {
		return err
	}

	paths, err := report.WriteFiles(a.cfg.ReportDir, result, a.cfg.LinkSample)
	if err != nil {
		return err
	}
	a.log.WithFields(log.Fields{`reports`: paths}).Info(`reports written`)

	s := result.Summary
	fmt.Fprintf(out, "%d routes, %d links, %d broken, %d orphan routes, %d warnings\n",
		s.Routes, s.LinksFound, s.LinksBroken, s.OrphanRoutes, s.Warnings)
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}
