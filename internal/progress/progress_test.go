// file: internal/progress/progress_test.go
// version: 1.0.0
// guid: 6a1f4d82-b03c-4e97-8d25-c7e9f1a04b36

package progress

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/models"
)

func apnea() *models.Condition {
	return &models.Condition{
		ID:   "sleep_apnea",
		Name: "Sleep apnea syndromes",
		CFR: []models.Citation{{
			Section:        "38 CFR § 4.97",
			DiagnosticCode: "6847",
			Title:          "Schedule of ratings - respiratory system",
			URL:            "https://www.ecfr.gov/current/title-38/section-4.97",
		}},
		EvidenceChecklist: []string{"Sleep study", "CPAP prescription", "Lay statements"},
	}
}

func TestNotes(t *testing.T) {
	svc := NewService(database.NewMemoryStore())

	notes, err := svc.Notes("ptsd")
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, svc.SaveNotes("ptsd", "ask about buddy statements"))
	notes, err = svc.Notes("ptsd")
	require.NoError(t, err)
	assert.Equal(t, "ask about buddy statements", notes)

	require.NoError(t, svc.ClearNotes("ptsd"))
	notes, err = svc.Notes("ptsd")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestEvidence(t *testing.T) {
	store := database.NewMemoryStore()
	svc := NewService(store)
	c := apnea()

	state, err := svc.Evidence(c.ID)
	require.NoError(t, err)
	assert.Empty(t, state)

	state, err = svc.SetEvidence(c, 1, true)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true}, state)

	_, err = svc.SetEvidence(c, 2, true)
	require.NoError(t, err)
	state, err = svc.SetEvidence(c, 2, false)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: false}, state)
	assert.Equal(t, 1, Completed(c, state))

	raw, found, err := store.Get(EvidenceKey(c.ID))
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"1":true,"2":false}`, raw)

	require.NoError(t, svc.ClearEvidence(c.ID))
	state, err = svc.Evidence(c.ID)
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestSetEvidenceRejectsBadIndex(t *testing.T) {
	svc := NewService(database.NewMemoryStore())
	_, err := svc.SetEvidence(apnea(), 3, true)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = svc.SetEvidence(apnea(), -1, true)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestCorruptEvidenceIsEmpty(t *testing.T) {
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(EvidenceKey("sleep_apnea"), "{not json"))
	svc := NewService(store)

	state, err := svc.Evidence("sleep_apnea")
	require.NoError(t, err)
	assert.Empty(t, state)

	// Junk keys are skipped, valid ones survive.
	require.NoError(t, store.Set(EvidenceKey("sleep_apnea"), `{"0":true,"x":true,"-2":true}`))
	state, err = svc.Evidence("sleep_apnea")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true}, state)
}

func TestCompletedIgnoresStaleIndexes(t *testing.T) {
	c := apnea()
	assert.Equal(t, 2, Completed(c, map[int]bool{0: true, 2: true, 7: true}))
	assert.Zero(t, Completed(c, nil))
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewService(&database.MockStore{
		GetFunc: func(string) (string, bool, error) { return "", false, boom },
		SetFunc: func(string, string) error { return boom },
	})

	_, err := svc.Notes("ptsd")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.SaveNotes("ptsd", "x"), boom)
	_, err = svc.Evidence("ptsd")
	assert.ErrorIs(t, err, boom)
	_, err = svc.ExportChecklist(apnea())
	assert.ErrorIs(t, err, boom)
}

func TestTracked(t *testing.T) {
	svc := NewService(database.NewMemoryStore())
	c := apnea()

	require.NoError(t, svc.SaveNotes("ptsd", "notes"))
	require.NoError(t, svc.SaveNotes("blank", "   "))
	_, err := svc.SetEvidence(c, 2, true)
	require.NoError(t, err)
	_, err = svc.SetEvidence(c, 0, true)
	require.NoError(t, err)

	tracked, err := svc.Tracked()
	require.NoError(t, err)
	assert.Equal(t, []Summary{
		{ID: "ptsd", HasNotes: true},
		{ID: "sleep_apnea", Checked: []int{0, 2}},
	}, tracked)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "sleep_apnea_evidence_checklist.txt", ExportFilename(apnea()))
	assert.Equal(t, "knee_flexion-l_evidence_checklist.txt", ExportFilename(&models.Condition{ID: "knee flexion-l"}))
	assert.Equal(t, "a_b_evidence_checklist.txt", ExportFilename(&models.Condition{ID: "a/../b"}))
}

func TestExportChecklist(t *testing.T) {
	svc := NewService(database.NewMemoryStore())
	c := apnea()

	_, err := svc.SetEvidence(c, 1, true)
	require.NoError(t, err)

	got, err := svc.ExportChecklist(c)
	require.NoError(t, err)
	want := strings.Join([]string{
		"Sleep apnea syndromes — Evidence Checklist",
		"(Educational tool; not legal advice)",
		"",
		"[ ] Sleep study",
		"[x] CPAP prescription",
		"[ ] Lay statements",
		"",
		"",
		"Notes:",
		"(none)",
		"",
		"Source links:",
		"- 38 CFR § 4.97 DC 6847: https://www.ecfr.gov/current/title-38/section-4.97",
	}, "\n")
	assert.Equal(t, want, got)

	require.NoError(t, svc.SaveNotes(c.ID, "  bring CPAP compliance report \n"))
	got, err = svc.ExportChecklist(c)
	require.NoError(t, err)
	assert.Contains(t, got, "Notes:\nbring CPAP compliance report\n\nSource links:")
}

func TestSetEvidenceConcurrentIndexes(t *testing.T) {
	svc := NewService(database.NewMemoryStore())
	c := &models.Condition{ID: "ptsd", Name: "Post-traumatic stress disorder"}
	for i := 0; i < 40; i++ {
		c.EvidenceChecklist = append(c.EvidenceChecklist, fmt.Sprintf("item %d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(c.EvidenceChecklist))
	for i := range c.EvidenceChecklist {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if _, err := svc.SetEvidence(c, idx, true); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	state, err := svc.Evidence(c.ID)
	require.NoError(t, err)
	assert.Len(t, state, len(c.EvidenceChecklist))
	assert.Equal(t, len(c.EvidenceChecklist), Completed(c, state))
}
