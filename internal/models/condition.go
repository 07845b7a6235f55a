// file: internal/models/condition.go
// version: 1.0.0
// guid: 66a1f60f-9dd6-4773-9d2d-a1f3cb41f7a0

package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Rating logic variants
const (
	RatingThresholds     = "thresholds"
	RatingSeverityLadder = "severity_ladder"
	RatingSummary        = "summary"
)

// cfrPrefix matches the "38 CFR §" marker in any case and spacing.
var cfrPrefix = regexp.MustCompile(`(?i)38\s*cfr\s*§`)

// Citation points a condition at a regulatory provision
type Citation struct {
	Section        string `json:"section" yaml:"section"`                 // e.g. "38 CFR § 4.124a"
	DiagnosticCode string `json:"diagnostic_code" yaml:"diagnostic_code"` // 3-5 digit code
	Title          string `json:"title" yaml:"title"`
	URL            string `json:"url" yaml:"url"`
}

// ShortSection returns the section with the "38 CFR §" prefix stripped, e.g. "4.124a".
func (c Citation) ShortSection() string {
	return strings.TrimSpace(cfrPrefix.ReplaceAllString(c.Section, ""))
}

// Threshold maps a measured degree value to a rating percentage
type Threshold struct {
	Degrees       int `json:"flexion_deg" yaml:"flexion_deg"`
	RatingPercent int `json:"rating_percent" yaml:"rating_percent"`
}

// SeverityLevel maps a severity label to a rating percentage
type SeverityLevel struct {
	Level         string `json:"level" yaml:"level"`
	RatingPercent int    `json:"rating_percent" yaml:"rating_percent"`
}

// RatingLogic describes how a percentage rating is derived.
// Type selects the variant; Summary is always allowed as narrative text.
type RatingLogic struct {
	Type       string          `json:"type,omitempty" yaml:"type,omitempty"`
	Thresholds []Threshold     `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Levels     []SeverityLevel `json:"levels,omitempty" yaml:"levels,omitempty"`
	Summary    string          `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Kind resolves the effective variant. A declared table that is empty
// degrades to the summary fallback.
func (r *RatingLogic) Kind() string {
	if r == nil {
		return RatingSummary
	}
	switch {
	case r.Type == RatingThresholds && len(r.Thresholds) > 0:
		return RatingThresholds
	case r.Type == RatingSeverityLadder && len(r.Levels) > 0:
		return RatingSeverityLadder
	default:
		return RatingSummary
	}
}

// Excerpt is a quoted passage from a regulation
type Excerpt struct {
	Label     string `json:"label" yaml:"label"`
	Text      string `json:"text" yaml:"text"`
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// Condition is a single catalog record. Records are read-only once loaded.
type Condition struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Aliases           []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	BodySystem        string       `json:"body_system,omitempty" yaml:"body_system,omitempty"`
	CFR               []Citation   `json:"cfr" yaml:"cfr"`
	RatingLogic       *RatingLogic `json:"rating_logic,omitempty" yaml:"rating_logic,omitempty"`
	EvidenceChecklist []string     `json:"evidence_checklist,omitempty" yaml:"evidence_checklist,omitempty"`
	Excerpts          []Excerpt    `json:"excerpts,omitempty" yaml:"excerpts,omitempty"`
	Disclaimer        string       `json:"disclaimer,omitempty" yaml:"disclaimer,omitempty"`
}

// PrimaryCitation returns the first citation, or nil when there is none.
func (c *Condition) PrimaryCitation() *Citation {
	if len(c.CFR) == 0 {
		return nil
	}
	return &c.CFR[0]
}

// PrimaryDiagnosticCode returns the first citation's diagnostic code, or "".
func (c *Condition) PrimaryDiagnosticCode() string {
	if p := c.PrimaryCitation(); p != nil {
		return p.DiagnosticCode
	}
	return ""
}

// CitationSummary renders up to limit citations as
// "§ 4.124a • DC 8520 • Title | ...".
func (c *Condition) CitationSummary(limit int) string {
	refs := c.CFR
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		sec := r.Section
		if short := r.ShortSection(); short != "" {
			sec = "§ " + short
		}
		var b strings.Builder
		b.WriteString(sec)
		if r.DiagnosticCode != "" {
			fmt.Fprintf(&b, " • DC %s", r.DiagnosticCode)
		}
		if r.Title != "" {
			fmt.Fprintf(&b, " • %s", r.Title)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " | ")
}

var nonKebab = regexp.MustCompile(`[^a-z0-9]+`)

// SystemClass maps a free-text body system onto a stable class tag used for
// badges and filtering.
func SystemClass(bodySystem string) string {
	s := strings.ToLower(strings.TrimSpace(bodySystem))

	switch {
	case strings.Contains(s, "mental"):
		return "sys-mental-health"
	case strings.Contains(s, "neuro"):
		return "sys-neurological"
	case strings.Contains(s, "musculo"), strings.Contains(s, "ortho"):
		return "sys-musculoskeletal"
	case s == "ear", strings.Contains(s, "auditory"):
		return "sys-ear"
	case strings.Contains(s, "resp"):
		return "sys-respiratory"
	case strings.Contains(s, "cardio"), strings.Contains(s, "heart"):
		return "sys-cardiovascular"
	}

	if s == "" {
		return ""
	}
	return "sys-" + nonKebab.ReplaceAllString(s, "-")
}
