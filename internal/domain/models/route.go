package models

import "strings"

// Segment is one path element of a Route.
// Literal keeps the directory name as written, so parameter names are informational only.
type Segment struct {
	Literal     string `json:"literal"`
	IsParameter bool   `json:"is_parameter"`
	IsCatchAll  bool   `json:"is_catch_all,omitempty"`
}

// Route is a navigable page discovered from the routing tree.
type Route struct {
	Segments []Segment `json:"segments"`
	Dir      string    `json:"dir"`
}

// ParseSegment translates a directory name into a Segment.
// `[id]` is a parameter and `[...slug]` a catch-all; anything else,
// including `[[...slug]]`, `[]` or unbalanced brackets, is a literal.
func ParseSegment(name string) Segment {
	if len(name) < 3 || name[0] != '[' || name[len(name)-1] != ']' {
		return Segment{Literal: name}
	}

	inner := name[1 : len(name)-1]
	if strings.ContainsAny(inner, "[]/") {
		return Segment{Literal: name}
	}

	if rest, ok := strings.CutPrefix(inner, "..."); ok {
		if rest == "" {
			return Segment{Literal: name}
		}
		return Segment{Literal: name, IsParameter: true, IsCatchAll: true}
	}

	return Segment{Literal: name, IsParameter: true}
}

// HasParameterToken reports whether any of the path segments is itself a bracket parameter token.
func HasParameterToken(segments []string) bool {
	for _, s := range segments {
		if ParseSegment(s).IsParameter {
			return true
		}
	}
	return false
}

// SplitPath splits a canonical path into its non-empty segments. "/" yields none.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Path renders the route as a slash path, "/" for the root route.
func (r Route) Path() string {
	if len(r.Segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range r.Segments {
		b.WriteByte('/')
		b.WriteString(s.Literal)
	}
	return b.String()
}

// IsDynamic reports whether the route has at least one parameter segment.
func (r Route) IsDynamic() bool {
	for _, s := range r.Segments {
		if s.IsParameter {
			return true
		}
	}
	return false
}

// LiteralCount is the number of literal segments, used to rank competing matches.
func (r Route) LiteralCount() int {
	n := 0
	for _, s := range r.Segments {
		if !s.IsParameter {
			n++
		}
	}
	return n
}

// Matches compares the route against already split path segments.
func (r Route) Matches(segments []string) bool {
	n := len(r.Segments)
	if n > 0 && r.Segments[n-1].IsCatchAll {
		if len(segments) < n {
			return false
		}
		return segmentsMatch(r.Segments[:n-1], segments[:n-1])
	}
	if len(segments) != n {
		return false
	}
	return segmentsMatch(r.Segments, segments)
}

func segmentsMatch(route []Segment, segments []string) bool {
	for i, seg := range route {
		if seg.IsParameter {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if seg.Literal != segments[i] {
			return false
		}
	}
	return true
}
