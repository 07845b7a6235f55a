// file: internal/gitsave/gitsave_test.go
// version: 1.0.0
// guid: 52b9e7c0-8a13-4d6f-b2e4-9c0f7a1d3e85

package gitsave

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) *Client {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	c := NewClient(dir)
	ctx := context.Background()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "save@example.test"},
		{"config", "user.name", "Save Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := c.Run(ctx, args...)
		require.NoError(t, err)
	}
	return c
}

func TestRunReportsFailure(t *testing.T) {
	requireGit(t)
	c := NewClient(t.TempDir())
	_, err := c.Run(context.Background(), "log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git log failed")
}

func TestSaveStopsAtPushWithoutRemote(t *testing.T) {
	c := initRepo(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(c.WorkDir, "notes.txt"), []byte("x"), 0644))

	res, err := c.Save(ctx, "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingToSave)
	assert.Equal(t, DefaultMessage, res.Message)
	assert.Equal(t, []Step{StepAdd, StepCommit}, res.Completed)
	assert.Equal(t, StepPush, res.FailedAt)

	msg, err := c.Run(ctx, "log", "-1", "--pretty=%s")
	require.NoError(t, err)
	assert.Equal(t, DefaultMessage, msg)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestSaveWithNothingToCommit(t *testing.T) {
	c := initRepo(t)
	res, err := c.Save(context.Background(), "update notes")
	assert.ErrorIs(t, err, ErrNothingToSave)
	assert.Equal(t, "update notes", res.Message)
	assert.Equal(t, StepCommit, res.FailedAt)
}

func TestSavePushesToRemote(t *testing.T) {
	c := initRepo(t)
	ctx := context.Background()

	remote := t.TempDir()
	_, err := NewClient(remote).Run(ctx, "init", "--bare")
	require.NoError(t, err)
	_, err = c.Run(ctx, "remote", "add", "origin", remote)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(c.WorkDir, "a.txt"), []byte("a"), 0644))
	_, err = c.Run(ctx, "add", ".")
	require.NoError(t, err)
	_, err = c.Run(ctx, "commit", "-m", "first")
	require.NoError(t, err)
	_, err = c.Run(ctx, "push", "-u", "origin", "HEAD")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(c.WorkDir, "b.txt"), []byte("b"), 0644))
	res, err := c.Save(ctx, `say "hi"`)
	require.NoError(t, err)
	assert.Equal(t, []Step{StepAdd, StepCommit, StepPush}, res.Completed)
	assert.Empty(t, res.FailedAt)
}
