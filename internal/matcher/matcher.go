// file: internal/matcher/matcher.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package matcher

import (
	"sort"
	"strings"

	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/query"
)

// Score weights. Within a category only the best tier counts; categories add up.
const (
	WeightDCExact       = 1000
	WeightDCContains    = 500
	WeightIDExact       = 450
	WeightIDContains    = 200
	WeightNameExact     = 420
	WeightNamePrefix    = 260
	WeightNameContains  = 160
	WeightAliasExact    = 180
	WeightAliasPrefix   = 120
	WeightAliasContains = 80
	WeightShortExact    = 160
	WeightShortContains = 90
	WeightFullContains  = 70
	WeightTitleContains = 60
)

// citationFields holds one citation's comparable strings.
type citationFields struct {
	dc      string
	section string
	short   string
	title   string
}

// fields is the normalized view of a condition that every comparison reads.
type fields struct {
	name      string
	id        string
	aliases   []string
	citations []citationFields
}

func fieldsOf(c *models.Condition) fields {
	f := fields{
		name:      query.Normalize(c.Name),
		id:        query.Normalize(c.ID),
		aliases:   make([]string, 0, len(c.Aliases)),
		citations: make([]citationFields, 0, len(c.CFR)),
	}
	for _, a := range c.Aliases {
		f.aliases = append(f.aliases, query.Normalize(a))
	}
	for _, r := range c.CFR {
		f.citations = append(f.citations, citationFields{
			dc:      query.Normalize(r.DiagnosticCode),
			section: query.Normalize(r.Section),
			short:   query.Normalize(r.ShortSection()),
			title:   query.Normalize(r.Title),
		})
	}
	return f
}

func anyCitation(cs []citationFields, pred func(citationFields) bool) bool {
	for _, c := range cs {
		if pred(c) {
			return true
		}
	}
	return false
}

func anyString(ss []string, pred func(string) bool) bool {
	for _, s := range ss {
		if pred(s) {
			return true
		}
	}
	return false
}

func equals(q string) func(string) bool   { return func(s string) bool { return s == q } }
func hasPrefix(q string) func(string) bool { return func(s string) bool { return strings.HasPrefix(s, q) } }
func contains(q string) func(string) bool  { return func(s string) bool { return strings.Contains(s, q) } }

// Matches reports whether the query is a substring of any searchable field.
// An empty query matches everything.
func Matches(c *models.Condition, q string) bool {
	nq := query.Normalize(q)
	if nq == "" {
		return true
	}
	if c == nil {
		return false
	}
	f := fieldsOf(c)
	if strings.Contains(f.name, nq) || strings.Contains(f.id, nq) || anyString(f.aliases, contains(nq)) {
		return true
	}
	return anyCitation(f.citations, func(r citationFields) bool {
		return strings.Contains(r.dc, nq) ||
			strings.Contains(r.section, nq) ||
			strings.Contains(r.short, nq) ||
			strings.Contains(r.title, nq)
	})
}

// Score returns the additive relevance of c for q, 0 when q is empty or
// nothing matches.
func Score(c *models.Condition, q string) int {
	nq := query.Normalize(q)
	if nq == "" || c == nil {
		return 0
	}
	f := fieldsOf(c)
	score := 0

	switch {
	case anyCitation(f.citations, func(r citationFields) bool { return r.dc == nq }):
		score += WeightDCExact
	case anyCitation(f.citations, func(r citationFields) bool { return strings.Contains(r.dc, nq) }):
		score += WeightDCContains
	}

	switch {
	case f.id == nq:
		score += WeightIDExact
	case strings.Contains(f.id, nq):
		score += WeightIDContains
	}

	switch {
	case f.name == nq:
		score += WeightNameExact
	case strings.HasPrefix(f.name, nq):
		score += WeightNamePrefix
	case strings.Contains(f.name, nq):
		score += WeightNameContains
	}

	switch {
	case anyString(f.aliases, equals(nq)):
		score += WeightAliasExact
	case anyString(f.aliases, hasPrefix(nq)):
		score += WeightAliasPrefix
	case anyString(f.aliases, contains(nq)):
		score += WeightAliasContains
	}

	// Short and full section forms share one tier chain.
	switch {
	case anyCitation(f.citations, func(r citationFields) bool { return r.short == nq }):
		score += WeightShortExact
	case anyCitation(f.citations, func(r citationFields) bool { return strings.Contains(r.short, nq) }):
		score += WeightShortContains
	case anyCitation(f.citations, func(r citationFields) bool { return strings.Contains(r.section, nq) }):
		score += WeightFullContains
	}

	if anyCitation(f.citations, func(r citationFields) bool { return strings.Contains(r.title, nq) }) {
		score += WeightTitleContains
	}

	return score
}

// Ranked pairs a condition with its score.
type Ranked struct {
	Condition *models.Condition
	Score     int
}

// Rank scores every condition against q and sorts by descending score.
// Equal scores keep their input order.
func Rank(conditions []*models.Condition, q string) []Ranked {
	out := make([]Ranked, len(conditions))
	for i, c := range conditions {
		out[i] = Ranked{Condition: c, Score: Score(c, q)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
