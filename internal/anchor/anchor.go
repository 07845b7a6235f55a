// file: internal/anchor/anchor.go
// version: 1.1.0
// guid: 6b8e2f14-9a3c-4d71-8e5b-0c4f7a2d91e6

// Package anchor picks the spot in a condition's detail view that a query
// should scroll to.
package anchor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/query"
)

// Fixed section headings present in every detail view
const (
	Notes    = "jump-notes"
	Evidence = "jump-evidence"
	CFR      = "jump-cfr"
	Refs     = "jump-refs"
	Rating   = "jump-rating"
)

const (
	dcPrefix  = "jump-dc-"
	secPrefix = "jump-sec-"
)

var (
	dcTarget      = regexp.MustCompile(`^\d{3,5}$`)
	sectionTarget = regexp.MustCompile(`^\d+\.\d+[a-z]?$`)
	notSectionID  = regexp.MustCompile(`[^a-z0-9.]+`)
)

// ratingKeywords send a query to the rating section when nothing more
// specific applies.
var ratingKeywords = []string{"cpap", "hypersomnol", "prostrat", "flare"}

// DCID is the anchor id for a citation's diagnostic code.
func DCID(code string) string {
	return dcPrefix + strings.TrimSpace(code)
}

// SectionID is the anchor id for a section, e.g. "38 CFR § 4.124a" or
// "4.124a" both give "jump-sec-4.124a".
func SectionID(section string) string {
	short := models.Citation{Section: section}.ShortSection()
	return secPrefix + cleanSection(short)
}

func cleanSection(s string) string {
	return notSectionID.ReplaceAllString(strings.ToLower(s), "")
}

// Set is the collection of citation anchors rendered in a detail view.
type Set map[string]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is present.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the anchor ids in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForCondition returns the citation anchors a detail view renders for c.
func ForCondition(c *models.Condition) Set {
	s := make(Set, 2*len(c.CFR))
	for _, r := range c.CFR {
		if r.DiagnosticCode != "" {
			s[DCID(r.DiagnosticCode)] = struct{}{}
		}
		if r.Section != "" {
			s[SectionID(r.Section)] = struct{}{}
		}
	}
	return s
}

// Resolution is the anchor a jump lands on. The zero value means no jump.
type Resolution struct {
	Anchor string `json:"anchor,omitempty"`
	// Focus asks the presentation layer to focus the notes input.
	Focus bool `json:"focus,omitempty"`
}

// None reports whether no anchor was selected.
func (r Resolution) None() bool { return r.Anchor == "" }

// Kind groups the anchor for reporting: "dc", "section", the fixed heading
// name without its prefix, or "none".
func (r Resolution) Kind() string {
	switch {
	case r.Anchor == "":
		return "none"
	case strings.HasPrefix(r.Anchor, dcPrefix):
		return "dc"
	case strings.HasPrefix(r.Anchor, secPrefix):
		return "section"
	default:
		return strings.TrimPrefix(r.Anchor, "jump-")
	}
}

// Panel returns the evidence heading when target asks for the checklist,
// otherwise "". It sits beside Resolve, which sends such targets to CFR.
func Panel(target string) string {
	if query.Normalize(target) == query.TargetEvidence {
		return Evidence
	}
	return ""
}

// Resolve picks the anchor for target. available holds the citation anchors
// of the rendered view; the fixed headings are always assumed present.
func Resolve(target string, available Set) Resolution {
	t := query.Normalize(target)
	if t == "" {
		return Resolution{}
	}

	if t == "notes" || t == "note" || strings.Contains(t, "notes") {
		return Resolution{Anchor: Notes, Focus: true}
	}
	if dcTarget.MatchString(t) {
		if id := dcPrefix + t; available.Has(id) {
			return Resolution{Anchor: id}
		}
		return Resolution{Anchor: Refs}
	}

	if sectionTarget.MatchString(t) {
		if id := secPrefix + cleanSection(t); available.Has(id) {
			return Resolution{Anchor: id}
		}
		return Resolution{Anchor: CFR}
	}

	for _, kw := range ratingKeywords {
		if strings.Contains(t, kw) {
			return Resolution{Anchor: Rating}
		}
	}
	return Resolution{Anchor: CFR}
}

// FocusRows returns the citation anchors whose id contains hint, sorted, so
// the matching reference rows can be emphasized.
func FocusRows(hint string, available Set) []string {
	h := query.Normalize(hint)
	if h == "" {
		return nil
	}
	var rows []string
	for _, id := range available.IDs() {
		if strings.Contains(id, h) {
			rows = append(rows, id)
		}
	}
	return rows
}
