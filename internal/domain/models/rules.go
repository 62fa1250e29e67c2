package models

import "strings"

// Rules are the fixed conventions an audit runs against.
type Rules struct {
	EntryMarkers     []string `yaml:"entry_markers"`
	PrivatePrefixes  []string `yaml:"private_prefixes"`
	SkipDirs         []string `yaml:"skip_dirs"`
	SpecialPages     []string `yaml:"special_pages"`
	DeniedPrefixes   []string `yaml:"denied_prefixes"`
	AllowedQueryKeys []string `yaml:"allowed_query_keys"`
	Extensions       []string `yaml:"extensions"`
	MaxFileBytes     int64    `yaml:"max_file_bytes"`
}

func DefaultRules() *Rules {
	return &Rules{
		EntryMarkers:     []string{"page.tsx", "page.ts", "page.jsx", "page.js", "page.mdx", "page.md"},
		PrivatePrefixes:  []string{"_", "."},
		SkipDirs:         []string{"node_modules", ".next", ".git", "dist", "build", "out", "coverage"},
		SpecialPages:     []string{"404", "500", "not-found", "error", "_error", "_not-found"},
		DeniedPrefixes:   []string{"/admin", "/api", "/auth", "/studio", "/_next", "/webhooks", "/cron", "/login", "/logout"},
		AllowedQueryKeys: []string{"page", "cursor"},
		Extensions:       []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".mdx", ".md", ".json", ".html", ".htm"},
		MaxFileBytes:     1 << 20,
	}
}

func (r *Rules) IsEntryMarker(name string) bool {
	return contains(r.EntryMarkers, name)
}

func (r *Rules) IsSkippedDir(name string) bool {
	if contains(r.SkipDirs, name) {
		return true
	}
	for _, p := range r.PrivatePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// IsScanSkipped reports directories the link scan never descends into.
// Private route folders are still scanned.
func (r *Rules) IsScanSkipped(name string) bool {
	return contains(r.SkipDirs, name) || strings.HasPrefix(name, ".")
}

func (r *Rules) IsSpecialPage(route Route) bool {
	if len(route.Segments) == 0 {
		return false
	}
	last := route.Segments[len(route.Segments)-1]
	return !last.IsParameter && contains(r.SpecialPages, last.Literal)
}

// IsDenied reports whether path equals or descends from a denied prefix.
func (r *Rules) IsDenied(path string) bool {
	for _, prefix := range r.DeniedPrefixes {
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (r *Rules) HasExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range r.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// QueryKeyRank returns the allow-list position of key, or -1 when the key is not allowed.
func (r *Rules) QueryKeyRank(key string) int {
	for i, k := range r.AllowedQueryKeys {
		if k == key {
			return i
		}
	}
	return -1
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
