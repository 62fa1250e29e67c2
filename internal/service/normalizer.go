package service

import (
	"sort"
	"strings"

	"link_auditor/internal/domain/models"
)

// Normalizer turns raw link text into a CanonicalLink.
type Normalizer struct {
	rules *models.Rules
}

func NewNormalizer(rules *models.Rules) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize returns the canonical form of raw, or false when the link is
// external, non-navigational, malformed or denylisted.
// Normalize(c.String()) == c holds for every link it returns.
func (n *Normalizer) Normalize(raw string) (models.CanonicalLink, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isExcludedScheme(s) {
		return models.CanonicalLink{}, false
	}
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
		return models.CanonicalLink{}, false
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}

	path, rawQuery, _ := strings.Cut(s, "?")
	path = cleanPath(path)
	if n.rules.IsDenied(path) {
		return models.CanonicalLink{}, false
	}

	return models.CanonicalLink{
		Path:  path,
		Query: n.filterQuery(rawQuery),
	}, true
}

func (n *Normalizer) filterQuery(rawQuery string) []models.QueryPair {
	if rawQuery == "" {
		return nil
	}

	type ranked struct {
		rank int
		pair models.QueryPair
	}
	var kept []ranked
	for _, part := range strings.FieldsFunc(rawQuery, func(r rune) bool { return r == '&' || r == ';' }) {
		key, value, _ := strings.Cut(part, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if rank := n.rules.QueryKeyRank(key); rank >= 0 {
			kept = append(kept, ranked{rank: rank, pair: models.QueryPair{Key: key, Value: value}})
		}
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].rank < kept[j].rank })
	out := make([]models.QueryPair, len(kept))
	for i, k := range kept {
		out[i] = k.pair
	}
	return out
}

// cleanPath collapses repeated slashes, trims blank segments and strips
// trailing slashes, keeping a bare "/".
func cleanPath(path string) string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

func isExcludedScheme(s string) bool {
	if s[0] == '#' {
		return true
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return true
	}
	return hasScheme(s)
}

// hasScheme reports an RFC 3986 scheme prefix such as "https:" or "javascript:".
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}
