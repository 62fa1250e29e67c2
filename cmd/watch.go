package cmd

import (
	"context"
	"io"
	"path/filepath"

	"link_auditor/internal/watcher"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the audit whenever sources change",
	Long: `Run the audit, then watch the routing root, the scan roots and the
navigation files and rewrite the reports after each burst of changes.
AUDIT_WATCH_DEBOUNCE sets how long the tree must be quiet before a re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), a, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, a *app, out io.Writer) error {
	if err := runAudit(ctx, a, out); err != nil {
		return err
	}

	w, err := watcher.NewWatcher(a.cfg.WatchDebounce, a.rules.IsScanSkipped, a.log, watcher.ExtensionFilter(a.rules.Extensions))
	if err != nil {
		return err
	}
	for _, dir := range watchRoots(a) {
		if err := w.AddRecursive(dir); err != nil {
			return err
		}
	}

	a.log.WithField(`debounce`, a.cfg.WatchDebounce.String()).Info(`watching for changes`)
	return w.Run(ctx, func(ctx context.Context, paths []string) error {
		a.log.WithFields(log.Fields{`paths`: paths}).Debug(`re-running audit`)
		// a vanished routing root should not stop the watch
		if err := runAudit(ctx, a, out); err != nil {
			a.log.WithError(err).Error(`audit failed`)
		}
		return nil
	})
}

func watchRoots(a *app) []string {
	seen := map[string]bool{}
	var roots []string
	add := func(rel string) {
		dir := filepath.Join(a.cfg.ProjectRoot, rel)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	add(a.cfg.RoutingRoot)
	for _, r := range a.cfg.ScanRoots {
		add(r)
	}
	for _, f := range a.cfg.NavigationFiles {
		add(filepath.Dir(f))
	}
	return roots
}
