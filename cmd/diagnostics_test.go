// file: cmd/diagnostics_test.go
// version: 2.0.0
// guid: 2d9f6c41-8a3e-4b57-b0c2-5e7a1f93d846

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/progress"
)

func seededStore(t *testing.T) (database.Store, *catalog.Snapshot) {
	t.Helper()
	conditions, err := catalog.Load(sampleData)
	require.NoError(t, err)

	store := database.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(progress.NotesKey("sciatic_nerve"), "flare-ups"))
	require.NoError(t, store.Set(progress.NotesKey("retired_condition"), "old notes"))
	require.NoError(t, store.Set(progress.EvidenceKey("retired_condition"), `{"0":true}`))
	require.NoError(t, store.Set(progress.EvidenceKey("tinnitus"), `{"1":true}`))
	return store, catalog.NewSnapshot(conditions)
}

func TestOrphanedKeys(t *testing.T) {
	store, snap := seededStore(t)

	orphans, err := orphanedKeys(store, snap)
	require.NoError(t, err)
	assert.Equal(t, []string{
		progress.NotesKey("retired_condition"),
		progress.EvidenceKey("retired_condition"),
	}, orphans)
}

func TestCleanupOrphansDryRun(t *testing.T) {
	store, snap := seededStore(t)
	var out bytes.Buffer

	require.NoError(t, runCleanupOrphans(&out, strings.NewReader(""), store, snap, false, true))
	assert.Contains(t, out.String(), "Found 2 orphaned records")
	assert.Contains(t, out.String(), "Dry run enabled")

	_, found, err := store.Get(progress.NotesKey("retired_condition"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCleanupOrphansPromptDeclined(t *testing.T) {
	store, snap := seededStore(t)
	var out bytes.Buffer

	require.NoError(t, runCleanupOrphans(&out, strings.NewReader("no\n"), store, snap, false, false))
	assert.Contains(t, out.String(), "Aborted")

	entries, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestCleanupOrphansDeletes(t *testing.T) {
	store, snap := seededStore(t)
	var out bytes.Buffer

	require.NoError(t, runCleanupOrphans(&out, strings.NewReader("yes\n"), store, snap, false, false))
	assert.Contains(t, out.String(), "Deleted 2 orphaned records.")

	entries, err := store.List("")
	require.NoError(t, err)
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.ElementsMatch(t, []string{progress.NotesKey("sciatic_nerve"), progress.EvidenceKey("tinnitus")}, keys)

	out.Reset()
	require.NoError(t, runCleanupOrphans(&out, strings.NewReader(""), store, snap, true, false))
	assert.Contains(t, out.String(), "No orphaned progress records detected.")
}

func TestDiagnosticsQuery(t *testing.T) {
	store, _ := seededStore(t)
	var out bytes.Buffer

	require.NoError(t, runDiagnosticsQuery(&out, store, 1, "notes:"))
	assert.Contains(t, out.String(), "Key: notes:retired_condition")
	assert.NotContains(t, out.String(), "notes:sciatic_nerve")

	out.Reset()
	require.NoError(t, runDiagnosticsQuery(&out, store, 5, "missing:"))
	assert.Contains(t, out.String(), "No keys matched")

	assert.Error(t, runDiagnosticsQuery(&out, store, 0, ""))
}

func TestPromptYesNo(t *testing.T) {
	var out bytes.Buffer
	ok, err := promptYesNo(&out, strings.NewReader("YES\n"), "Delete 1 records")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Type 'yes' to confirm")

	ok, err = promptYesNo(&out, strings.NewReader(""), "Delete")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))
}
