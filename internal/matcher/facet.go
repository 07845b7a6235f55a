// file: internal/matcher/facet.go
// version: 2.1.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package matcher

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/cfr-navigator/internal/query"
)

// ResolveFacet picks the option a user meant by value, e.g. "neuro" for
// "Neurological". Checks run in order: case-insensitive equality, option
// contains value, then value contains option. Returns "" when nothing fits.
func ResolveFacet(value string, options []string) string {
	v := query.Normalize(value)
	if v == "" || len(options) == 0 {
		return ""
	}

	for _, o := range options {
		if query.Normalize(o) == v {
			return o
		}
	}
	for _, o := range options {
		if strings.Contains(query.Normalize(o), v) {
			return o
		}
	}
	for _, o := range options {
		if no := query.Normalize(o); no != "" && strings.Contains(v, no) {
			return o
		}
	}

	return ""
}

// SuggestFacets lists options that contain the letters of value in order,
// closest first, for a value ResolveFacet could not place. It never picks a
// facet on its own.
func SuggestFacets(value string, options []string) []string {
	v := query.Normalize(value)
	if v == "" || len(options) == 0 {
		return nil
	}
	ranks := fuzzy.RankFindFold(v, options)
	if len(ranks) == 0 {
		return nil
	}
	sort.Stable(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}
