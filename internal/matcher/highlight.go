// file: internal/matcher/highlight.go
// version: 1.1.0
// guid: 9d3f6b2a-1c84-4e07-b5a9-6f0e2d8c4b17

package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/jdfalk/cfr-navigator/internal/query"
)

// Span is a half-open byte range [Start, End) in the highlighted text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Highlights finds every non-overlapping, case-insensitive occurrence of the
// normalized query in text. Spans index into text itself. Text is folded one
// rune at a time, so runes whose lowercase form has a different byte length
// do not shift the offsets.
func Highlights(text, q string) []Span {
	nq := query.Normalize(q)
	if nq == "" || text == "" {
		return nil
	}

	var spans []Span
	for pos := 0; pos < len(text); {
		if end := foldedMatch(text, pos, nq); end > pos {
			spans = append(spans, Span{Start: pos, End: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return spans
}

// foldedMatch reports the end offset of nq matched at text[start:], or -1.
func foldedMatch(text string, start int, nq string) int {
	i, rest := start, nq
	for rest != "" {
		if i >= len(text) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		lr := strings.ToLower(string(r))
		if !strings.HasPrefix(rest, lr) {
			return -1
		}
		rest = rest[len(lr):]
		i += size
	}
	return i
}

// Fragment is a run of text, marked when it matched the query.
type Fragment struct {
	Text string `json:"text"`
	Mark bool   `json:"mark,omitempty"`
}

// Mark applies Highlights to text and returns the pieces in order.
func Mark(text, q string) []Fragment {
	spans := Highlights(text, q)
	if len(spans) == 0 {
		if text == "" {
			return nil
		}
		return []Fragment{{Text: text}}
	}
	out := make([]Fragment, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			out = append(out, Fragment{Text: text[pos:s.Start]})
		}
		out = append(out, Fragment{Text: text[s.Start:s.End], Mark: true})
		pos = s.End
	}
	if pos < len(text) {
		out = append(out, Fragment{Text: text[pos:]})
	}
	return out
}
