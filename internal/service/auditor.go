package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/pkg/metrics"
	"link_auditor/internal/pkg/worker_pool"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AuditOptions struct {
	RoutingRoot     string
	ScanRoots       []string
	NavigationFiles []string
	Workers         int
	CacheSize       int
}

// Auditor runs the full reachability audit: catalog, extraction, classification, aggregation.
type Auditor struct {
	log        *log.Logger
	rules      *models.Rules
	opts       AuditOptions
	catalog    *CatalogBuilder
	extractor  *Extractor
	normalizer *Normalizer
}

func NewAuditor(log *log.Logger, fs adaptors.FileSystem, rules *models.Rules, opts AuditOptions) (*Auditor, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	extractor, err := NewExtractor(log, fs, rules, opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Auditor{
		log:        log,
		rules:      rules,
		opts:       opts,
		catalog:    NewCatalogBuilder(log, fs, rules),
		extractor:  extractor,
		normalizer: NewNormalizer(rules),
	}, nil
}

type extraction struct {
	files      int
	links      []models.LinkRecord
	navigation []models.NavEntry
	warnings   []models.Warning
}

func (a *Auditor) Run(ctx context.Context) (*models.AuditResult, error) {
	start := time.Now()
	a.log.WithFields(log.Fields{
		`routing_root`: a.opts.RoutingRoot,
		`scan_roots`:   a.opts.ScanRoots,
	}).Info(`audit started`)

	var (
		routes          []models.Route
		catalogWarnings []models.Warning
		extracted       extraction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		routes, catalogWarnings, err = a.catalog.Build(gctx, a.opts.RoutingRoot)
		return err
	})
	g.Go(func() error {
		var err error
		extracted, err = a.extract(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.AuditRunsTotal.WithLabelValues(`failed`).Inc()
		a.log.WithError(err).Error(`audit failed`)
		return nil, errors.Wrap(err, `failed to run audit`)
	}

	result := a.aggregate(routes, extracted, append(catalogWarnings, extracted.warnings...))

	metrics.AuditRunsTotal.WithLabelValues(`completed`).Inc()
	metrics.AuditDuration.Observe(time.Since(start).Seconds())
	metrics.BrokenLinks.Set(float64(len(result.BrokenLinks)))
	metrics.OrphanRoutes.Set(float64(len(result.OrphanRoutes)))

	a.log.WithFields(log.Fields{
		`routes`:   result.Summary.Routes,
		`links`:    result.Summary.LinksFound,
		`broken`:   result.Summary.LinksBroken,
		`orphans`:  result.Summary.OrphanRoutes,
		`warnings`: result.Summary.Warnings,
		`duration`: time.Since(start).String(),
	}).Info(`audit completed`)
	return result, nil
}

// extract scans every discovered file on the worker pool.
func (a *Auditor) extract(ctx context.Context) (extraction, error) {
	targets, warnings := a.extractor.Discover(ctx, a.opts.ScanRoots, a.opts.NavigationFiles)
	out := extraction{warnings: warnings}

	pool := worker_pool.NewWorkerPool(ctx, a.opts.Workers, false, a.log)
	go func() {
		defer pool.Close()
		for _, target := range targets {
			t := target
			err := pool.Submit(t.Path, func(ctx context.Context) (any, error) {
				scan, warning := a.extractor.Scan(ctx, t)
				return scanOutcome{scan: scan, warning: warning}, nil
			})
			if err != nil {
				return
			}
		}
	}()

	for res := range pool.ResultsCh {
		outcome, ok := res.Result.(scanOutcome)
		if !ok {
			continue
		}
		if outcome.warning != nil {
			out.warnings = append(out.warnings, *outcome.warning)
			continue
		}
		out.files++
		out.links = append(out.links, outcome.scan.Links...)
		out.navigation = append(out.navigation, outcome.scan.Navigation...)
	}

	if err := ctx.Err(); err != nil {
		return extraction{}, err
	}
	return out, nil
}

type scanOutcome struct {
	scan    FileScan
	warning *models.Warning
}

// Classify normalizes and matches one raw link against the catalog.
func (a *Auditor) Classify(raw string, routes []models.Route) (*models.CanonicalLink, models.MatchResult) {
	canonical, ok := a.normalizer.Normalize(raw)
	if !ok {
		return nil, models.MatchResult{Status: models.LinkStatusDiscarded}
	}
	return &canonical, MatchRoute(canonical.Path, routes)
}

func (a *Auditor) aggregate(routes []models.Route, ex extraction, warnings []models.Warning) *models.AuditResult {
	sortLinks(ex.links)
	sortWarnings(warnings)

	result := &models.AuditResult{
		RoutingRoot: a.opts.RoutingRoot,
		Routes:      routes,
		Warnings:    warnings,
	}

	reached := map[string]bool{}
	targets := map[string]bool{}
	summary := &result.Summary

	for _, rec := range ex.links {
		canonical, match := a.Classify(rec.RawText, routes)
		metrics.LinksClassifiedTotal.WithLabelValues(string(match.Status)).Inc()
		result.Links = append(result.Links, models.ClassifiedLink{Record: rec, Canonical: canonical, Result: match})

		switch match.Status {
		case models.LinkStatusOK:
			summary.LinksOK++
			reached[match.Route.Dir] = true
		case models.LinkStatusDynamic:
			summary.LinksDynamic++
		case models.LinkStatusBroken:
			summary.LinksBroken++
			result.BrokenLinks = append(result.BrokenLinks, models.BrokenLink{
				Record: rec,
				Target: canonical.String(),
				Reason: fmt.Sprintf(`no route matches %s`, canonical.Path),
			})
		case models.LinkStatusDiscarded:
			summary.LinksDiscarded++
		}
		if canonical != nil {
			targets[canonical.String()] = true
		}
	}

	sort.SliceStable(ex.navigation, func(i, j int) bool {
		if ex.navigation[i].SourceFile != ex.navigation[j].SourceFile {
			return ex.navigation[i].SourceFile < ex.navigation[j].SourceFile
		}
		return ex.navigation[i].Line < ex.navigation[j].Line
	})
	for _, entry := range ex.navigation {
		_, match := a.Classify(entry.Target, routes)
		entry.Status = match.Status
		entry.Route = match.Route
		result.Navigation = append(result.Navigation, entry)
	}

	for _, route := range routes {
		if route.IsDynamic() {
			summary.DynamicRoutes++
		} else {
			summary.StaticRoutes++
		}
		if reached[route.Dir] {
			summary.ReachedRoutes++
			continue
		}
		if a.rules.IsDenied(route.Path()) || a.rules.IsSpecialPage(route) {
			continue
		}
		result.OrphanRoutes = append(result.OrphanRoutes, route)
	}

	summary.Routes = len(routes)
	summary.FilesScanned = ex.files
	summary.LinksFound = len(ex.links)
	summary.UniqueTargets = len(targets)
	summary.OrphanRoutes = len(result.OrphanRoutes)
	summary.NavigationEntries = len(result.Navigation)
	summary.Warnings = len(warnings)
	return result
}

func sortLinks(links []models.LinkRecord) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].SourceFile != links[j].SourceFile {
			return links[i].SourceFile < links[j].SourceFile
		}
		if links[i].Line != links[j].Line {
			return links[i].Line < links[j].Line
		}
		return links[i].RawText < links[j].RawText
	})
}

func sortWarnings(warnings []models.Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Path != warnings[j].Path {
			return warnings[i].Path < warnings[j].Path
		}
		return warnings[i].Kind < warnings[j].Kind
	})
}
