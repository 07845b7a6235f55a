// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"time"

	"github.com/jdfalk/cfr-navigator/internal/anchor"
	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/progress"
	"github.com/jdfalk/cfr-navigator/internal/query"
)

// detailSummaryCitations is how many citations the detail summary line shows.
const detailSummaryCitations = 3

// ListResponse provides a consistent format for list responses
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// NewListResponse creates a new ListResponse
func NewListResponse(items any, count int) *ListResponse {
	return &ListResponse{Items: items, Count: count}
}

// MessageResponse provides a consistent format for status messages
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewMessageResponse creates a new MessageResponse
func NewMessageResponse(message string, code string) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Code:    code,
	}
}

// DeleteResponse provides a consistent format for deletion responses
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ConditionDetail is one record plus what the detail view needs to render it.
type ConditionDetail struct {
	Condition   *models.Condition `json:"condition"`
	SystemClass string            `json:"system_class,omitempty"`
	Summary     string            `json:"cfr_summary"`
	RatingKind  string            `json:"rating_kind"`
	Anchors     []string          `json:"anchors"`
}

// NewConditionDetail builds the detail payload for c.
func NewConditionDetail(c *models.Condition) *ConditionDetail {
	return &ConditionDetail{
		Condition:   c,
		SystemClass: models.SystemClass(c.BodySystem),
		Summary:     c.CitationSummary(detailSummaryCitations),
		RatingKind:  c.RatingLogic.Kind(),
		Anchors:     anchor.ForCondition(c).IDs(),
	}
}

// JumpResponse tells the detail view where to scroll.
type JumpResponse struct {
	ID        string       `json:"id"`
	Query     string       `json:"query"`
	Intent    query.Intent `json:"intent"`
	Hint      string       `json:"hint"`
	Anchor    string       `json:"anchor,omitempty"`
	Kind      string       `json:"kind"`
	Focus     bool         `json:"focus,omitempty"`
	Panel     string       `json:"panel,omitempty"`
	FocusRows []string     `json:"focus_rows"`
}

// SystemOption is one body system facet.
type SystemOption struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Count int    `json:"count"`
}

// NotesResponse carries the saved notes for a condition.
type NotesResponse struct {
	ID    string `json:"id"`
	Notes string `json:"notes"`
}

// EvidenceItem is one checklist line and its state.
type EvidenceItem struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// EvidenceResponse is the checklist of a condition with progress counts.
type EvidenceResponse struct {
	ID        string         `json:"id"`
	Items     []EvidenceItem `json:"items"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
}

// NewEvidenceResponse merges the checklist of c with the saved state.
func NewEvidenceResponse(c *models.Condition, state map[int]bool) *EvidenceResponse {
	items := make([]EvidenceItem, len(c.EvidenceChecklist))
	for i, text := range c.EvidenceChecklist {
		items[i] = EvidenceItem{Index: i, Text: text, Checked: state[i]}
	}
	return &EvidenceResponse{
		ID:        c.ID,
		Items:     items,
		Completed: progress.Completed(c, state),
		Total:     len(items),
	}
}

// HealthResponse provides a consistent format for health check responses
type HealthResponse struct {
	Status       string     `json:"status"`
	Version      string     `json:"version"`
	Uptime       int64      `json:"uptime_seconds"`
	Timestamp    int64      `json:"timestamp"`
	Conditions   int        `json:"conditions"`
	Generation   uint64     `json:"generation"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
	DatabaseType string     `json:"database_type,omitempty"`
	EventClients int        `json:"event_clients"`
}
