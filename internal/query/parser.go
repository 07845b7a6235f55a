// file: internal/query/parser.go
// version: 1.0.0
// guid: f0d1807c-d58b-45e5-a459-76b9e49bf3c4

package query

import (
	"regexp"
	"strings"
)

var (
	separators = regexp.MustCompile(`[:=]`)
	whitespace = regexp.MustCompile(`\s+`)

	dcCommand      = regexp.MustCompile(`^(dc)\s+(\d{3,5})$`)
	sectionCommand = regexp.MustCompile(`^(sec|section|§)\s+([0-9]+\.[0-9]+[a-z]?)$`)
	bareSection    = regexp.MustCompile(`^§?([0-9]+\.[0-9]+[a-z]?)$`)
	systemCommand  = regexp.MustCompile(`^(system|sys)\s+(.+)$`)
)

// input is what every rule sees: the untouched text and its command form.
type input struct {
	original   string
	normalized string
}

// rule is one entry of the ordered parse table.
type rule struct {
	Name  string
	Apply func(in input) (Intent, bool)
}

// rules is evaluated top to bottom; the first rule that applies wins.
// Anything that falls through every rule is a plain text search.
var rules = []rule{
	{Name: "quick-word", Apply: quickWord},
	{Name: "dc", Apply: matchDC},
	{Name: "section", Apply: matchSection},
	{Name: "bare-section", Apply: matchBareSection},
	{Name: "system", Apply: matchSystem},
}

// DefaultRule names the fall-through plain text search.
const DefaultRule = "text"

// Parse turns raw user input into an Intent. It never fails.
func Parse(raw string) Intent {
	intent, _ := ParseRule(raw)
	return intent
}

// ParseRule is Parse that also reports which rule produced the intent.
func ParseRule(raw string) (Intent, string) {
	in := newInput(raw)
	for _, r := range rules {
		if intent, ok := r.Apply(in); ok {
			return intent, r.Name
		}
	}
	return Text(in.original), DefaultRule
}

func newInput(raw string) input {
	q := strings.TrimSpace(raw)
	lower := strings.ToLower(q)
	normalized := separators.ReplaceAllString(lower, " ")
	normalized = strings.TrimSpace(whitespace.ReplaceAllString(normalized, " "))
	return input{original: q, normalized: normalized}
}

func quickWord(in input) (Intent, bool) {
	switch in.normalized {
	case "notes", "note":
		return Jump(TargetNotes, ""), true
	case "evidence", "checklist":
		return Jump(TargetEvidence, ""), true
	}
	return Intent{}, false
}

func matchDC(in input) (Intent, bool) {
	m := dcCommand.FindStringSubmatch(in.normalized)
	if m == nil {
		return Intent{}, false
	}
	return Jump(m[2], m[2]), true
}

func matchSection(in input) (Intent, bool) {
	m := sectionCommand.FindStringSubmatch(in.normalized)
	if m == nil {
		return Intent{}, false
	}
	return Jump(m[2], m[2]), true
}

// matchBareSection only fires when the user typed "§" themselves; a bare
// decimal like "4.124a" stays a text search.
func matchBareSection(in input) (Intent, bool) {
	if !strings.Contains(in.original, "§") {
		return Intent{}, false
	}
	m := bareSection.FindStringSubmatch(in.normalized)
	if m == nil {
		return Intent{}, false
	}
	return Jump(m[1], m[1]), true
}

func matchSystem(in input) (Intent, bool) {
	m := systemCommand.FindStringSubmatch(in.normalized)
	if m == nil {
		return Intent{}, false
	}
	return System(strings.TrimSpace(m[2])), true
}
