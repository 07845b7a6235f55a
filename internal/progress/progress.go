// file: internal/progress/progress.go
// version: 1.1.0
// guid: 93c5e0b8-4d2a-4f71-b6e9-1a8d7c3f50e2

// Package progress keeps a user's notes and evidence checklist state per
// condition in a local Store.
package progress

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/metrics"
	"github.com/jdfalk/cfr-navigator/internal/models"
)

const (
	notesPrefix    = "notes:"
	evidencePrefix = "evidence:"
)

// ErrInvalidIndex is returned when a checklist index is out of range.
var ErrInvalidIndex = errors.New("checklist index out of range")

// NotesKey is the store key for a condition's notes.
func NotesKey(id string) string { return notesPrefix + id }

// EvidenceKey is the store key for a condition's checklist state.
func EvidenceKey(id string) string { return evidencePrefix + id }

// Service reads and writes progress through a Store. Checklist updates are
// serialized so concurrent writes to one condition are not lost.
type Service struct {
	store database.Store
	mu    sync.Mutex
}

// NewService creates a Service backed by store.
func NewService(store database.Store) *Service {
	return &Service{store: store}
}

// Notes returns the saved notes for id, "" when none.
func (s *Service) Notes(id string) (string, error) {
	v, _, err := s.store.Get(NotesKey(id))
	if err != nil {
		return "", fmt.Errorf("failed to load notes for %s: %w", id, err)
	}
	return v, nil
}

// SaveNotes stores text as the notes for id.
func (s *Service) SaveNotes(id, text string) error {
	if err := s.store.Set(NotesKey(id), text); err != nil {
		return fmt.Errorf("failed to save notes for %s: %w", id, err)
	}
	metrics.IncProgressWrite("notes")
	return nil
}

// ClearNotes removes the notes for id.
func (s *Service) ClearNotes(id string) error {
	if err := s.store.Delete(NotesKey(id)); err != nil {
		return fmt.Errorf("failed to clear notes for %s: %w", id, err)
	}
	return nil
}

// Evidence returns the checklist state for id keyed by item index. Missing
// or unreadable state is an empty map, never an error.
func (s *Service) Evidence(id string) (map[int]bool, error) {
	raw, found, err := s.store.Get(EvidenceKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence for %s: %w", id, err)
	}
	state := make(map[int]bool)
	if !found || raw == "" {
		return state, nil
	}

	var stored map[string]bool
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("progress: discarding unreadable evidence state")
		return state, nil
	}
	for k, v := range stored {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			continue
		}
		state[idx] = v
	}
	return state, nil
}

// SetEvidence marks checklist item idx of c as checked or unchecked.
func (s *Service) SetEvidence(c *models.Condition, idx int, checked bool) (map[int]bool, error) {
	if idx < 0 || idx >= len(c.EvidenceChecklist) {
		return nil, fmt.Errorf("%w: %d (condition %s has %d items)", ErrInvalidIndex, idx, c.ID, len(c.EvidenceChecklist))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Evidence(c.ID)
	if err != nil {
		return nil, err
	}
	state[idx] = checked

	stored := make(map[string]bool, len(state))
	for k, v := range state {
		stored[strconv.Itoa(k)] = v
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evidence for %s: %w", c.ID, err)
	}
	if err := s.store.Set(EvidenceKey(c.ID), string(data)); err != nil {
		return nil, fmt.Errorf("failed to save evidence for %s: %w", c.ID, err)
	}
	metrics.IncProgressWrite("evidence")
	return state, nil
}

// ClearEvidence resets the checklist for id.
func (s *Service) ClearEvidence(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(EvidenceKey(id)); err != nil {
		return fmt.Errorf("failed to clear evidence for %s: %w", id, err)
	}
	return nil
}

// Completed counts checked items that exist in c's checklist.
func Completed(c *models.Condition, state map[int]bool) int {
	n := 0
	for i := range c.EvidenceChecklist {
		if state[i] {
			n++
		}
	}
	return n
}

// Summary is the progress of one condition.
type Summary struct {
	ID       string `json:"id"`
	HasNotes bool   `json:"has_notes"`
	Checked  []int  `json:"checked,omitempty"`
}

// Tracked lists every condition id with saved notes or checked items,
// ordered by id.
func (s *Service) Tracked() ([]Summary, error) {
	byID := make(map[string]*Summary)
	get := func(id string) *Summary {
		if sum, ok := byID[id]; ok {
			return sum
		}
		sum := &Summary{ID: id}
		byID[id] = sum
		return sum
	}

	notes, err := s.store.List(notesPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	for _, e := range notes {
		if strings.TrimSpace(e.Value) != "" {
			get(strings.TrimPrefix(e.Key, notesPrefix)).HasNotes = true
		}
	}

	evidence, err := s.store.List(evidencePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	for _, e := range evidence {
		id := strings.TrimPrefix(e.Key, evidencePrefix)
		state, err := s.Evidence(id)
		if err != nil {
			return nil, err
		}
		var checked []int
		for idx, ok := range state {
			if ok {
				checked = append(checked, idx)
			}
		}
		if len(checked) == 0 {
			continue
		}
		sort.Ints(checked)
		get(id).Checked = checked
	}

	out := make([]Summary, 0, len(byID))
	for _, sum := range byID {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var unsafeFilename = regexp.MustCompile(`(?i)[^a-z0-9_-]+`)

// ExportFilename is the download name for c's checklist export.
func ExportFilename(c *models.Condition) string {
	return unsafeFilename.ReplaceAllString(c.ID, "_") + "_evidence_checklist.txt"
}

// ExportChecklist renders c's checklist, notes and source links as plain text.
func (s *Service) ExportChecklist(c *models.Condition) (string, error) {
	state, err := s.Evidence(c.ID)
	if err != nil {
		return "", err
	}
	notes, err := s.Notes(c.ID)
	if err != nil {
		return "", err
	}
	return RenderChecklist(c, state, notes), nil
}

// RenderChecklist formats the export without touching the store.
func RenderChecklist(c *models.Condition, state map[int]bool, notes string) string {
	lines := []string{
		c.Name + " — Evidence Checklist",
		"(Educational tool; not legal advice)",
		"",
	}
	for i, item := range c.EvidenceChecklist {
		box := "[ ]"
		if state[i] {
			box = "[x]"
		}
		lines = append(lines, box+" "+item)
	}

	lines = append(lines, "", "", "Notes:")
	if n := strings.TrimSpace(notes); n != "" {
		lines = append(lines, n)
	} else {
		lines = append(lines, "(none)")
	}

	lines = append(lines, "", "Source links:")
	for _, r := range c.CFR {
		lines = append(lines, fmt.Sprintf("- %s DC %s: %s", r.Section, r.DiagnosticCode, r.URL))
	}
	return strings.Join(lines, "\n")
}
