// file: internal/search/search.go
// version: 1.1.0
// guid: 4a7f2c91-d83e-4b05-9c6a-e1b5f0d28a37

// Package search runs a query against a catalog snapshot: parse, filter,
// score, sort.
package search

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/matcher"
	"github.com/jdfalk/cfr-navigator/internal/metrics"
	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/query"
)

// summaryCitations is how many citations a result's summary line shows.
const summaryCitations = 2

// Request is one search. System, when set, restricts results to a body
// system; a "system ..." query overrides it.
type Request struct {
	Query  string `form:"q" json:"q"`
	System string `form:"system" json:"system,omitempty"`
}

// Result is one ranked condition.
type Result struct {
	Condition   *models.Condition `json:"condition"`
	Score       int               `json:"score"`
	Reason      string            `json:"reason,omitempty"`
	SystemClass string            `json:"system_class,omitempty"`
	Summary     string            `json:"cfr_summary,omitempty"`
	Highlight   *Highlight        `json:"highlight,omitempty"`
}

// Highlight marks where the search text occurs in the fields a result list
// shows. It is absent when the search text is empty.
type Highlight struct {
	Name    []matcher.Fragment   `json:"name"`
	Aliases [][]matcher.Fragment `json:"aliases,omitempty"`
	Summary []matcher.Fragment   `json:"cfr_summary,omitempty"`
}

func newHighlight(c *models.Condition, summary, text string) *Highlight {
	h := &Highlight{
		Name:    matcher.Mark(c.Name, text),
		Summary: matcher.Mark(summary, text),
	}
	if len(c.Aliases) > 0 {
		h.Aliases = make([][]matcher.Fragment, len(c.Aliases))
		for i, a := range c.Aliases {
			h.Aliases[i] = matcher.Mark(a, text)
		}
	}
	return h
}

// Response carries the ordered results plus how the query was read.
type Response struct {
	Query      string       `json:"query"`
	Intent     query.Intent `json:"intent"`
	System     string       `json:"system,omitempty"`
	JumpHint   string       `json:"jump_hint,omitempty"`
	Suggest    []string     `json:"system_suggestions,omitempty"`
	Generation uint64       `json:"generation"`
	Results    []Result     `json:"results"`
	Total      int          `json:"total"`
}

// collatorPool hands out collators, which are not safe for concurrent use.
var collatorPool = sync.Pool{
	New: func() any { return collate.New(language.English, collate.IgnoreCase) },
}

// Run executes req against snap. It never mutates snap and the returned
// slice is freshly allocated.
func Run(snap *catalog.Snapshot, req Request) Response {
	start := time.Now()

	intent := query.Parse(req.Query)
	system := strings.TrimSpace(req.System)
	var suggestions []string
	if intent.Kind == query.KindSystem {
		if resolved := matcher.ResolveFacet(intent.System, snapSystems(snap)); resolved != "" {
			system = resolved
		} else {
			suggestions = matcher.SuggestFacets(intent.System, snapSystems(snap))
		}
	}

	text := intent.SearchText()
	var pool []*models.Condition
	if snap != nil {
		pool = make([]*models.Condition, 0, len(snap.Conditions))
		for _, c := range snap.Conditions {
			if system != "" && !strings.EqualFold(strings.TrimSpace(c.BodySystem), system) {
				continue
			}
			if !matcher.Matches(c, text) {
				continue
			}
			pool = append(pool, c)
		}
	}

	results := make([]Result, 0, len(pool))
	if query.Normalize(text) == "" {
		sortByName(pool)
		for _, c := range pool {
			results = append(results, newResult(c, 0, ""))
		}
	} else {
		for _, r := range matcher.Rank(pool, text) {
			res := newResult(r.Condition, r.Score, matcher.ExplainMatch(r.Condition, text))
			res.Highlight = newHighlight(r.Condition, res.Summary, text)
			results = append(results, res)
		}
	}

	resp := Response{
		Query:    req.Query,
		Intent:   intent,
		System:   system,
		JumpHint: intent.JumpHint(req.Query),
		Suggest:  suggestions,
		Results:  results,
		Total:    len(results),
	}
	if snap != nil {
		resp.Generation = snap.Generation
	}

	metrics.IncSearch(string(intent.Kind))
	metrics.ObserveSearchResults(len(results))
	metrics.ObserveSearchDuration(time.Since(start))
	return resp
}

func snapSystems(snap *catalog.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return snap.Systems
}

func newResult(c *models.Condition, score int, reason string) Result {
	return Result{
		Condition:   c,
		Score:       score,
		Reason:      reason,
		SystemClass: models.SystemClass(c.BodySystem),
		Summary:     c.CitationSummary(summaryCitations),
	}
}

// sortByName orders conditions alphabetically with a locale-aware collator.
func sortByName(conditions []*models.Condition) {
	col := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(col)
	sort.SliceStable(conditions, func(i, j int) bool {
		return col.CompareString(conditions[i].Name, conditions[j].Name) < 0
	})
}
