package service

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// CatalogBuilder discovers routes from a file-tree routing directory.
type CatalogBuilder struct {
	log   *log.Logger
	fs    adaptors.FileSystem
	rules *models.Rules
}

func NewCatalogBuilder(log *log.Logger, fs adaptors.FileSystem, rules *models.Rules) *CatalogBuilder {
	return &CatalogBuilder{
		log:   log,
		fs:    fs,
		rules: rules,
	}
}

// Build walks routingRoot and returns every route it exposes, sorted by path.
// Only an unusable routing root is an error; unreadable subdirectories become warnings.
func (b *CatalogBuilder) Build(ctx context.Context, routingRoot string) ([]models.Route, []models.Warning, error) {
	info, err := b.fs.Stat(ctx, routingRoot)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrRoutingRootUnavailable, err.Error())
	}
	if !info.IsDir() {
		return nil, nil, errors.Wrap(errors.ErrRoutingRootUnavailable, routingRoot+` is not a directory`)
	}

	entries, err := b.fs.ReadDir(ctx, routingRoot)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrRoutingRootUnavailable, err.Error())
	}

	w := &catalogWalk{builder: b, ctx: ctx}
	w.visit(routingRoot, nil, entries)

	sort.SliceStable(w.routes, func(i, j int) bool {
		pi, pj := w.routes[i].Path(), w.routes[j].Path()
		if pi != pj {
			return pi < pj
		}
		return w.routes[i].Dir < w.routes[j].Dir
	})

	b.log.WithFields(log.Fields{
		`routing_root`: routingRoot,
		`routes`:       len(w.routes),
		`warnings`:     len(w.warnings),
	}).Debug(`route catalog built`)
	return w.routes, w.warnings, nil
}

type catalogWalk struct {
	builder  *CatalogBuilder
	ctx      context.Context
	routes   []models.Route
	warnings []models.Warning
}

func (w *catalogWalk) visit(dir string, segments []models.Segment, entries []fs.DirEntry) {
	rules := w.builder.rules

	for _, e := range entries {
		if !e.IsDir() && rules.IsEntryMarker(e.Name()) {
			w.routes = append(w.routes, models.Route{
				Segments: append([]models.Segment(nil), segments...),
				Dir:      dir,
			})
			break
		}
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if rules.IsSkippedDir(name) || isInterceptingRoute(name) {
			continue
		}

		child := path.Join(dir, name)
		childEntries, err := w.builder.fs.ReadDir(w.ctx, child)
		if err != nil {
			w.builder.log.WithError(err).Warnf(`skipping unreadable route directory %s`, child)
			metrics.FileReadErrorsTotal.WithLabelValues(string(models.WarningUnreadableDir)).Inc()
			w.warnings = append(w.warnings, models.Warning{
				Kind:    models.WarningUnreadableDir,
				Path:    child,
				Message: errors.Cause(err),
			})
			continue
		}

		if isRouteGroup(name) || strings.HasPrefix(name, "@") {
			w.visit(child, segments, childEntries)
			continue
		}
		w.visit(child, append(segments[:len(segments):len(segments)], models.ParseSegment(name)), childEntries)
	}
}

// isRouteGroup matches `(marketing)` folders, which organise pages without adding a segment.
func isRouteGroup(name string) bool {
	return len(name) > 2 && name[0] == '(' && name[len(name)-1] == ')'
}

// isInterceptingRoute matches `(.)photo`, `(..)photo` and `(...)photo` folders.
func isInterceptingRoute(name string) bool {
	return strings.HasPrefix(name, "(.")
}
