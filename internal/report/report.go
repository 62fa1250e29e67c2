package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"
)

const (
	TextFileName = `link-audit.txt`
	CSVFileName  = `link-audit.csv`
)

// WriteFiles writes the text report and CSV export into dir, returning their paths.
func WriteFiles(dir string, result *models.AuditResult, sample int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, `failed to create report directory`)
	}

	textPath := filepath.Join(dir, TextFileName)
	if err := writeFile(textPath, func(w io.Writer) error { return WriteText(w, result, sample) }); err != nil {
		return nil, err
	}
	csvPath := filepath.Join(dir, CSVFileName)
	if err := writeFile(csvPath, func(w io.Writer) error { return WriteCSV(w, result) }); err != nil {
		return nil, err
	}
	return []string{textPath, csvPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, `failed to create `+path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrap(err, `failed to write `+path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, `failed to close `+path)
	}
	return nil
}

// WriteText renders the human-readable report. At most sample links are listed
// in the discovered-links table; broken links and orphans are always complete.
func WriteText(w io.Writer, result *models.AuditResult, sample int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	s := result.Summary
	p("Internal link audit\n")
	p("===================\n\n")
	p("Routing root:\t%s\n\n", result.RoutingRoot)

	p("Summary\n")
	p("  Routes\t%d (%d static, %d dynamic)\n", s.Routes, s.StaticRoutes, s.DynamicRoutes)
	p("  Reached routes\t%d\n", s.ReachedRoutes)
	p("  Orphan routes\t%d\n", s.OrphanRoutes)
	p("  Files scanned\t%d\n", s.FilesScanned)
	p("  Links found\t%d\n", s.LinksFound)
	p("  Links ok\t%d\n", s.LinksOK)
	p("  Links dynamic\t%d\n", s.LinksDynamic)
	p("  Links broken\t%d\n", s.LinksBroken)
	p("  Links discarded\t%d\n", s.LinksDiscarded)
	p("  Unique targets\t%d\n", s.UniqueTargets)
	p("  Navigation entries\t%d\n", s.NavigationEntries)
	p("  Warnings\t%d\n\n", s.Warnings)

	p("Navigation (%d)\n", len(result.Navigation))
	if len(result.Navigation) > 0 {
		p("  LABEL\tTARGET\tEXISTS\tSTATUS\tSOURCE\n")
		for _, n := range result.Navigation {
			p("  %s\t%s\t%s\t%s\t%s:%d\n", orDash(n.Label), n.Target, yesNo(n.Exists()), n.Status, n.SourceFile, n.Line)
		}
	}
	p("\n")

	shown := len(result.Links)
	if sample >= 0 && sample < shown {
		shown = sample
	}
	p("Links (showing %d of %d)\n", shown, len(result.Links))
	if shown > 0 {
		p("  STATUS\tLINK\tTARGET\tROUTE\tSOURCE\n")
		for _, l := range result.Links[:shown] {
			p("  %s\t%s\t%s\t%s\t%s:%d\n", l.Result.Status, l.Record.RawText, canonicalOf(l), routeOf(l.Result.Route), l.Record.SourceFile, l.Record.Line)
		}
	}
	p("\n")

	p("Broken links (%d)\n", len(result.BrokenLinks))
	if len(result.BrokenLinks) > 0 {
		p("  SOURCE\tLINK\tREASON\n")
		for _, b := range result.BrokenLinks {
			p("  %s:%d\t%s\t%s\n", b.Record.SourceFile, b.Record.Line, b.Record.RawText, b.Reason)
		}
	}
	p("\n")

	p("Orphan routes (%d)\n", len(result.OrphanRoutes))
	if len(result.OrphanRoutes) > 0 {
		p("  ROUTE\tDIRECTORY\n")
		for _, r := range result.OrphanRoutes {
			p("  %s\t%s\n", r.Path(), r.Dir)
		}
	}

	if len(result.Warnings) > 0 {
		p("\nWarnings (%d)\n", len(result.Warnings))
		p("  KIND\tPATH\tMESSAGE\n")
		for _, warn := range result.Warnings {
			p("  %s\t%s\t%s\n", warn.Kind, warn.Path, warn.Message)
		}
	}

	return tw.Flush()
}

var csvHeader = []string{`record`, `source`, `line`, `label`, `raw`, `target`, `status`, `route`, `detail`}

// WriteCSV exports the same records as the text report, one row each.
func WriteCSV(w io.Writer, result *models.AuditResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{csvHeader}

	for _, n := range result.Navigation {
		rows = append(rows, []string{`navigation`, n.SourceFile, strconv.Itoa(n.Line), n.Label, n.Target, ``, string(n.Status), routeOf(n.Route), yesNo(n.Exists())})
	}
	for _, l := range result.Links {
		rows = append(rows, []string{`link`, l.Record.SourceFile, strconv.Itoa(l.Record.Line), ``, l.Record.RawText, canonicalOf(l), string(l.Result.Status), routeOf(l.Result.Route), ``})
	}
	for _, b := range result.BrokenLinks {
		rows = append(rows, []string{`broken`, b.Record.SourceFile, strconv.Itoa(b.Record.Line), ``, b.Record.RawText, b.Target, string(models.LinkStatusBroken), ``, b.Reason})
	}
	for _, r := range result.OrphanRoutes {
		rows = append(rows, []string{`orphan`, r.Dir, ``, ``, ``, ``, ``, r.Path(), ``})
	}
	for _, warn := range result.Warnings {
		rows = append(rows, []string{`warning`, warn.Path, ``, ``, ``, ``, string(warn.Kind), ``, warn.Message})
	}

	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, `failed to write csv`)
	}
	return nil
}

func canonicalOf(l models.ClassifiedLink) string {
	if l.Canonical == nil {
		return `-`
	}
	return l.Canonical.String()
}

func routeOf(r *models.Route) string {
	if r == nil {
		return ``
	}
	return r.Path()
}

func yesNo(b bool) string {
	if b {
		return `yes`
	}
	return `no`
}

func orDash(s string) string {
	if s == "" {
		return `-`
	}
	return s
}
