// file: internal/query/intent.go
// version: 1.0.0
// guid: 793a871e-426a-49f0-adf5-3714cc23c704

package query

import "strings"

// Kind identifies which variant an Intent carries
type Kind string

const (
	KindText   Kind = "text"
	KindJump   Kind = "jump"
	KindSystem Kind = "system"
)

// Jump targets produced by the quick words
const (
	TargetNotes    = "notes"
	TargetEvidence = "evidence"
)

// Intent is the structured form of a raw query.
//
//	jump:   Target is the anchor hint, Text is what the result list is filtered by
//	system: System is the requested body system, Text is empty
//	text:   Text is the trimmed original input, case preserved
type Intent struct {
	Kind   Kind   `json:"mode"`
	Target string `json:"jump,omitempty"`
	System string `json:"system,omitempty"`
	Text   string `json:"text"`
}

// Jump builds a jump intent.
func Jump(target, text string) Intent {
	return Intent{Kind: KindJump, Target: target, Text: text}
}

// System builds a system-filter intent.
func System(value string) Intent {
	return Intent{Kind: KindSystem, System: value}
}

// Text builds a plain search intent.
func Text(value string) Intent {
	return Intent{Kind: KindText, Text: value}
}

// IsJump reports whether the intent targets an anchor.
func (i Intent) IsJump() bool { return i.Kind == KindJump }

// SearchText is the text the result list is matched and scored against.
func (i Intent) SearchText() string {
	if i.Kind == KindSystem {
		return ""
	}
	return i.Text
}

// JumpHint is the hint handed to the detail view when a result is opened:
// the jump target for jump intents, otherwise the raw input.
func (i Intent) JumpHint(raw string) string {
	if i.Kind == KindJump {
		return i.Target
	}
	return strings.TrimSpace(raw)
}
