// file: internal/matcher/explain.go
// version: 1.0.0
// guid: 5e0a9c3d-7b21-4f8e-a6d4-2c9e1b7f3a55

package matcher

import (
	"strings"

	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/query"
)

// Match reason labels
const (
	ReasonDC             = "Diagnostic Code"
	ReasonDCPartial      = "Diagnostic Code (partial)"
	ReasonSection        = "CFR Section"
	ReasonSectionPartial = "CFR Section (partial)"
	ReasonName           = "Name"
	ReasonNamePrefix     = "Name (starts with)"
	ReasonNameContains   = "Name (contains)"
	ReasonID             = "ID"
	ReasonIDPartial      = "ID (partial)"
	ReasonAlias          = "Alias"
	ReasonAliasPrefix    = "Alias (starts with)"
	ReasonAliasContains  = "Alias (contains)"
	ReasonTitle          = "CFR Title"
	ReasonFallback       = "Match"
)

// ExplainMatch labels why c matched q. Categories are checked in a fixed
// order and the first hit wins, so the label can disagree with which
// category contributed the most score.
func ExplainMatch(c *models.Condition, q string) string {
	nq := query.Normalize(q)
	if nq == "" {
		return ""
	}
	if c == nil {
		return ReasonFallback
	}
	f := fieldsOf(c)

	for _, r := range f.citations {
		if r.dc == nq {
			return ReasonDC
		}
		if strings.Contains(r.dc, nq) {
			return ReasonDCPartial
		}
	}

	for _, r := range f.citations {
		if r.short == nq || r.section == nq {
			return ReasonSection
		}
		if strings.Contains(r.short, nq) || strings.Contains(r.section, nq) {
			return ReasonSectionPartial
		}
	}

	switch {
	case f.name == nq:
		return ReasonName
	case strings.HasPrefix(f.name, nq):
		return ReasonNamePrefix
	case strings.Contains(f.name, nq):
		return ReasonNameContains
	}

	switch {
	case f.id == nq:
		return ReasonID
	case strings.Contains(f.id, nq):
		return ReasonIDPartial
	}

	switch {
	case anyString(f.aliases, equals(nq)):
		return ReasonAlias
	case anyString(f.aliases, hasPrefix(nq)):
		return ReasonAliasPrefix
	case anyString(f.aliases, contains(nq)):
		return ReasonAliasContains
	}

	if anyCitation(f.citations, func(r citationFields) bool { return strings.Contains(r.title, nq) }) {
		return ReasonTitle
	}
	return ReasonFallback
}
