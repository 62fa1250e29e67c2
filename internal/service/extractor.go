package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"link_auditor/internal/domain/adaptors"
	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/pkg/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const (
	quote   = "[\"'`]"
	literal = "([^\"'`]*)"
)

// Each pattern is anchored on one syntactic marker and captures a single quoted literal.
var (
	attributePattern  = regexp.MustCompile(`\b(?:href|to)\s*=\s*\{?\s*` + quote + literal + quote)
	propertyPattern   = regexp.MustCompile(`\b(?:href|url|path|link|to)["']?\s*:\s*` + quote + literal + quote)
	navigationPattern = regexp.MustCompile(`\b(?:router\.(?:push|replace|prefetch)|redirect|permanentRedirect|navigate)\(\s*` + quote + literal + quote)
	markdownPattern   = regexp.MustCompile(`\]\((/[^)\s]*)[\s)]`)
	labelPattern      = regexp.MustCompile(`\b(?:label|title|name|text)["']?\s*:\s*` + quote + literal + quote)

	linkPatterns = []*regexp.Regexp{attributePattern, propertyPattern, navigationPattern, markdownPattern}
	navPatterns  = []*regexp.Regexp{attributePattern, propertyPattern}
)

// ScanTarget is one file the extractor will read.
type ScanTarget struct {
	Path       string
	Navigation bool
}

// FileScan is everything extracted from one file.
type FileScan struct {
	Path       string
	Links      []models.LinkRecord
	Navigation []models.NavEntry
}

// Extractor finds internal link literals in source files.
type Extractor struct {
	log   *log.Logger
	fs    adaptors.FileSystem
	rules *models.Rules
	cache *lru.Cache[string, FileScan]
}

// NewExtractor creates an extractor. cacheSize bounds the number of file scans kept
// between runs; zero disables the cache.
func NewExtractor(log *log.Logger, fs adaptors.FileSystem, rules *models.Rules, cacheSize int) (*Extractor, error) {
	e := &Extractor{
		log:   log,
		fs:    fs,
		rules: rules,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, FileScan](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, `failed to create scan cache`)
		}
		e.cache = cache
	}
	return e, nil
}

// Discover lists the files under scanRoots with a recognized extension, plus navFiles.
func (e *Extractor) Discover(ctx context.Context, scanRoots []string, navFiles []string) ([]ScanTarget, []models.Warning) {
	targets := map[string]bool{}
	var warnings []models.Warning

	var walk func(dir string)
	walk = func(dir string) {
		entries, err := e.fs.ReadDir(ctx, dir)
		if err != nil {
			e.log.WithError(err).Warnf(`skipping unreadable directory %s`, dir)
			metrics.FileReadErrorsTotal.WithLabelValues(string(models.WarningUnreadableDir)).Inc()
			warnings = append(warnings, models.Warning{Kind: models.WarningUnreadableDir, Path: dir, Message: errors.Cause(err)})
			return
		}
		for _, entry := range entries {
			name := entry.Name()
			child := path.Join(dir, name)
			if entry.IsDir() {
				if !e.rules.IsScanSkipped(name) {
					walk(child)
				}
				continue
			}
			if e.rules.HasExtension(name) {
				addTarget(targets, child)
			}
		}
	}

	for _, root := range scanRoots {
		root = cleanRel(root)
		info, err := e.fs.Stat(ctx, root)
		if err != nil {
			e.log.WithField(`scan_root`, root).Warn(`scan root not found`)
			metrics.FileReadErrorsTotal.WithLabelValues(string(models.WarningMissingScanRoot)).Inc()
			warnings = append(warnings, models.Warning{Kind: models.WarningMissingScanRoot, Path: root, Message: errors.Cause(err)})
			continue
		}
		if !info.IsDir() {
			if e.rules.HasExtension(root) {
				addTarget(targets, root)
			}
			continue
		}
		walk(root)
	}

	for _, nav := range navFiles {
		nav = cleanRel(nav)
		info, err := e.fs.Stat(ctx, nav)
		if err != nil || info.IsDir() {
			msg := `navigation file is a directory`
			if err != nil {
				msg = errors.Cause(err)
			}
			e.log.WithField(`navigation_file`, nav).Warn(`navigation file not found`)
			metrics.FileReadErrorsTotal.WithLabelValues(string(models.WarningMissingScanRoot)).Inc()
			warnings = append(warnings, models.Warning{Kind: models.WarningMissingScanRoot, Path: nav, Message: msg})
			continue
		}
		targets[nav] = true
	}

	out := make([]ScanTarget, 0, len(targets))
	for p, isNav := range targets {
		out = append(out, ScanTarget{Path: p, Navigation: isNav})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, warnings
}

// Scan reads one file and extracts its links. A non-nil warning means the file was skipped.
func (e *Extractor) Scan(ctx context.Context, target ScanTarget) (FileScan, *models.Warning) {
	info, err := e.fs.Stat(ctx, target.Path)
	if err != nil {
		return FileScan{Path: target.Path}, e.fileWarning(target.Path, err)
	}
	if e.rules.MaxFileBytes > 0 && info.Size() > e.rules.MaxFileBytes {
		return FileScan{Path: target.Path}, e.fileWarning(target.Path, errors.Wrap(errors.ErrFileTooLarge, target.Path))
	}

	key := fmt.Sprintf(`%s|%t|%d|%d`, target.Path, target.Navigation, info.Size(), info.ModTime().UnixNano())
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			metrics.ScanCacheHitsTotal.Inc()
			return cached, nil
		}
	}

	content, err := e.fs.ReadFile(ctx, target.Path, e.rules.MaxFileBytes)
	if err != nil {
		return FileScan{Path: target.Path}, e.fileWarning(target.Path, err)
	}

	scan := FileScan{
		Path:  target.Path,
		Links: e.ScanText(target.Path, content),
	}
	if target.Navigation {
		scan.Navigation = e.ScanNavigation(target.Path, content)
	}

	if e.cache != nil {
		e.cache.Add(key, scan)
	}
	e.log.WithFields(log.Fields{`file`: target.Path, `links`: len(scan.Links)}).Debug(`file scanned`)
	return scan, nil
}

func (e *Extractor) fileWarning(file string, err error) *models.Warning {
	kind := models.WarningUnreadableFile
	if errors.Is(err, errors.ErrFileTooLarge) {
		kind = models.WarningFileTooLarge
	}
	e.log.WithError(err).WithField(`file`, file).Warn(`skipping file`)
	metrics.FileReadErrorsTotal.WithLabelValues(string(kind)).Inc()
	return &models.Warning{Kind: kind, Path: file, Message: errors.Cause(err)}
}

// ScanText extracts link records from file content without touching the file system.
func (e *Extractor) ScanText(file string, content []byte) []models.LinkRecord {
	if isHTMLFile(file) {
		return scanHTML(file, content)
	}

	var out []models.LinkRecord
	for i, line := range strings.Split(string(content), "\n") {
		for _, lit := range lineLiterals(line, linkPatterns) {
			out = append(out, models.LinkRecord{SourceFile: file, Line: i + 1, RawText: lit.text})
		}
	}
	return out
}

// ScanNavigation pairs labels with targets in a navigation definition file.
// A label is taken from the closest preceding label property, or from one
// following the target on the same line.
func (e *Extractor) ScanNavigation(file string, content []byte) []models.NavEntry {
	var out []models.NavEntry
	pending := ""

	for i, line := range strings.Split(string(content), "\n") {
		labels := matchLiterals(line, labelPattern)
		targets := lineLiterals(line, navPatterns)

		awaiting := -1
		li, ti := 0, 0
		for li < len(labels) || ti < len(targets) {
			if ti >= len(targets) || (li < len(labels) && labels[li].start < targets[ti].start) {
				if awaiting >= 0 {
					out[awaiting].Label = strings.TrimSpace(labels[li].text)
					awaiting = -1
				} else {
					pending = strings.TrimSpace(labels[li].text)
				}
				li++
				continue
			}

			out = append(out, models.NavEntry{
				Label:      pending,
				Target:     targets[ti].text,
				SourceFile: file,
				Line:       i + 1,
			})
			if pending == "" {
				awaiting = len(out) - 1
			}
			pending = ""
			ti++
		}
	}
	return out
}

type lineLiteral struct {
	start int
	text  string
}

// lineLiterals applies patterns to one line and keeps internal-looking captures,
// once per capture position.
func lineLiterals(line string, patterns []*regexp.Regexp) []lineLiteral {
	seen := map[int]bool{}
	var out []lineLiteral
	for _, p := range patterns {
		for _, lit := range matchLiterals(line, p) {
			if seen[lit.start] || !isInternalLiteral(lit.text) {
				continue
			}
			seen[lit.start] = true
			out = append(out, lit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func matchLiterals(line string, p *regexp.Regexp) []lineLiteral {
	var out []lineLiteral
	for _, m := range p.FindAllStringSubmatchIndex(line, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		out = append(out, lineLiteral{start: m[2], text: line[m[2]:m[3]]})
	}
	return out
}

// isInternalLiteral accepts site-relative paths and rejects protocol-relative
// URLs and runtime-built template literals.
func isInternalLiteral(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "/") && !strings.HasPrefix(t, "//") && !strings.Contains(t, "${")
}

func isHTMLFile(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	return ext == ".html" || ext == ".htm"
}

func scanHTML(file string, content []byte) []models.LinkRecord {
	var out []models.LinkRecord
	tokenizer := html.NewTokenizer(bytes.NewReader(content))
	line := 1
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		newlines := bytes.Count(tokenizer.Raw(), []byte("\n"))

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			name, hasAttr := tokenizer.TagName()
			tag := string(name)
			for hasAttr && (tag == "a" || tag == "area") {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "href" && isInternalLiteral(string(val)) {
					out = append(out, models.LinkRecord{SourceFile: file, Line: line, RawText: string(val)})
				}
				hasAttr = more
			}
		}
		line += newlines
	}
	return out
}

func addTarget(targets map[string]bool, p string) {
	if _, ok := targets[p]; !ok {
		targets[p] = false
	}
}

func cleanRel(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
