package service

import "link_auditor/internal/domain/models"

// MatchRoute finds the route a canonical path resolves to.
// When several routes match, the one with the most literal segments wins,
// then a fixed-length route over a catch-all, then catalog order.
func MatchRoute(canonicalPath string, routes []models.Route) models.MatchResult {
	segments := models.SplitPath(canonicalPath)

	best := -1
	for i := range routes {
		if !routes[i].Matches(segments) {
			continue
		}
		if best < 0 || moreSpecific(routes[i], routes[best]) {
			best = i
		}
	}

	if best >= 0 {
		return models.MatchResult{Status: models.LinkStatusOK, Route: &routes[best]}
	}
	if models.HasParameterToken(segments) {
		return models.MatchResult{Status: models.LinkStatusDynamic}
	}
	return models.MatchResult{Status: models.LinkStatusBroken}
}

func moreSpecific(a, b models.Route) bool {
	if la, lb := a.LiteralCount(), b.LiteralCount(); la != lb {
		return la > lb
	}
	return !isCatchAll(a) && isCatchAll(b)
}

func isCatchAll(r models.Route) bool {
	return len(r.Segments) > 0 && r.Segments[len(r.Segments)-1].IsCatchAll
}
