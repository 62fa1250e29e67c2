package models

type WarningKind string

const (
	WarningUnreadableDir   WarningKind = "unreadable_dir"
	WarningUnreadableFile  WarningKind = "unreadable_file"
	WarningFileTooLarge    WarningKind = "file_too_large"
	WarningMissingScanRoot WarningKind = "missing_scan_root"
)

// Warning is a recoverable problem recorded during a run.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Path    string      `json:"path"`
	Message string      `json:"message"`
}

type SummaryCounts struct {
	Routes            int `json:"routes"`
	StaticRoutes      int `json:"static_routes"`
	DynamicRoutes     int `json:"dynamic_routes"`
	FilesScanned      int `json:"files_scanned"`
	LinksFound        int `json:"links_found"`
	LinksOK           int `json:"links_ok"`
	LinksDynamic      int `json:"links_dynamic"`
	LinksBroken       int `json:"links_broken"`
	LinksDiscarded    int `json:"links_discarded"`
	UniqueTargets     int `json:"unique_targets"`
	ReachedRoutes     int `json:"reached_routes"`
	OrphanRoutes      int `json:"orphan_routes"`
	NavigationEntries int `json:"navigation_entries"`
	Warnings          int `json:"warnings"`
}

// AuditResult is the aggregate of one audit run. Every slice is sorted.
type AuditResult struct {
	RoutingRoot  string           `json:"routing_root"`
	Routes       []Route          `json:"routes"`
	Navigation   []NavEntry       `json:"navigation"`
	Links        []ClassifiedLink `json:"links"`
	BrokenLinks  []BrokenLink     `json:"broken_links"`
	OrphanRoutes []Route          `json:"orphan_routes"`
	Warnings     []Warning        `json:"warnings"`
	Summary      SummaryCounts    `json:"summary"`
}
