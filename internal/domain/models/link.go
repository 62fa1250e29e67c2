package models

import "strings"

// LinkRecord is one occurrence of an internal-looking link literal in source text.
type LinkRecord struct {
	SourceFile string `json:"source_file"`
	Line       int    `json:"line"`
	RawText    string `json:"raw_text"`
}

type QueryPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CanonicalLink is a link target after normalization.
type CanonicalLink struct {
	Path  string      `json:"path"`
	Query []QueryPair `json:"query,omitempty"`
}

func (c CanonicalLink) String() string {
	if len(c.Query) == 0 {
		return c.Path
	}
	pairs := make([]string, 0, len(c.Query))
	for _, q := range c.Query {
		pairs = append(pairs, q.Key+"="+q.Value)
	}
	return c.Path + "?" + strings.Join(pairs, "&")
}

type LinkStatus string

const (
	LinkStatusOK        LinkStatus = "ok"
	LinkStatusDynamic   LinkStatus = "dynamic"
	LinkStatusBroken    LinkStatus = "broken"
	LinkStatusDiscarded LinkStatus = "discarded"
)

// MatchResult is the outcome of matching one canonical path against the route catalog.
// Route is only set when Status is LinkStatusOK.
type MatchResult struct {
	Status LinkStatus `json:"status"`
	Route  *Route     `json:"route,omitempty"`
}

// ClassifiedLink pairs a record with its normalized form and match outcome.
// Canonical is nil for discarded records.
type ClassifiedLink struct {
	Record    LinkRecord     `json:"record"`
	Canonical *CanonicalLink `json:"canonical,omitempty"`
	Result    MatchResult    `json:"result"`
}

type BrokenLink struct {
	Record LinkRecord `json:"record"`
	Target string     `json:"target"`
	Reason string     `json:"reason"`
}

// NavEntry is one label/target pair read from a navigation definition file.
type NavEntry struct {
	Label      string     `json:"label"`
	Target     string     `json:"target"`
	SourceFile string     `json:"source_file"`
	Line       int        `json:"line"`
	Status     LinkStatus `json:"status,omitempty"`
	Route      *Route     `json:"route,omitempty"`
}

// Exists reports whether the entry's target resolved to a known route.
func (n NavEntry) Exists() bool {
	return n.Status == LinkStatusOK
}
