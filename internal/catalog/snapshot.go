// file: internal/catalog/snapshot.go
// version: 1.0.0
// guid: 71d04e3b-c6a2-4f9e-b8d7-3a5e19f02c64

package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/jdfalk/cfr-navigator/internal/models"
)

// Snapshot is an immutable view of the catalog. Nothing in it is modified
// after NewSnapshot returns, so it can be shared across goroutines freely.
type Snapshot struct {
	Conditions []*models.Condition
	Systems    []string
	LoadedAt   time.Time
	Generation uint64
	Source     string

	byID map[string]*models.Condition
}

// NewSnapshot indexes conditions. Conditions keep their input order.
func NewSnapshot(conditions []*models.Condition) *Snapshot {
	s := &Snapshot{
		Conditions: conditions,
		LoadedAt:   time.Now(),
		byID:       make(map[string]*models.Condition, len(conditions)),
	}

	systems := make(map[string]struct{})
	for _, c := range conditions {
		s.byID[c.ID] = c
		if bs := strings.TrimSpace(c.BodySystem); bs != "" {
			systems[bs] = struct{}{}
		}
	}
	s.Systems = make([]string, 0, len(systems))
	for bs := range systems {
		s.Systems = append(s.Systems, bs)
	}
	sort.Strings(s.Systems)
	return s
}

// Get looks a condition up by id.
func (s *Snapshot) Get(id string) (*models.Condition, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.byID[id]
	return c, ok
}

// Len returns the number of conditions.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Conditions)
}
