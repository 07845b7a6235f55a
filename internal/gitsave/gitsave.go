// file: internal/gitsave/gitsave.go
// version: 1.0.0
// guid: d7f1a3c6-2e58-4b94-a0c7-5b8e1f6d2a43

// Package gitsave stages, commits and pushes the working tree in one step.
package gitsave

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMessage is the commit message used when none is given.
const DefaultMessage = "auto save"

// ErrNothingToSave wraps whichever git step failed during Save.
var ErrNothingToSave = errors.New("nothing to commit or push")

// Client runs git in a working directory.
type Client struct {
	WorkDir string
	Remote  string // optional; empty pushes to the upstream of the current branch
}

// NewClient creates a git client for workDir.
func NewClient(workDir string) *Client {
	return &Client{WorkDir: workDir}
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	log.Debug().Strs("args", args).Str("dir", c.WorkDir).Msg("executing git")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}
	return output, nil
}

// Add stages everything under the working directory.
func (c *Client) Add(ctx context.Context) error {
	_, err := c.Run(ctx, "add", ".")
	return err
}

// Commit records staged changes.
func (c *Client) Commit(ctx context.Context, msg string) error {
	_, err := c.Run(ctx, "commit", "-m", msg)
	return err
}

// Push pushes the current branch.
func (c *Client) Push(ctx context.Context) error {
	args := []string{"push"}
	if c.Remote != "" {
		args = append(args, c.Remote)
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// Step names a stage of Save.
type Step string

const (
	StepAdd    Step = "add"
	StepCommit Step = "commit"
	StepPush   Step = "push"
)

// Result reports how far Save got.
type Result struct {
	Message   string `json:"message"`
	Completed []Step `json:"completed"`
	FailedAt  Step   `json:"failed_at,omitempty"`
}

// Save stages, commits with msg (DefaultMessage when blank) and pushes.
// It stops at the first failing step and returns an error wrapping
// ErrNothingToSave.
func (c *Client) Save(ctx context.Context, msg string) (Result, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = DefaultMessage
	}
	res := Result{Message: msg}

	steps := []struct {
		step Step
		run  func() error
	}{
		{StepAdd, func() error { return c.Add(ctx) }},
		{StepCommit, func() error { return c.Commit(ctx, msg) }},
		{StepPush, func() error { return c.Push(ctx) }},
	}
	for _, s := range steps {
		log.Info().Str("step", string(s.step)).Str("message", msg).Msg("git save")
		if err := s.run(); err != nil {
			res.FailedAt = s.step
			log.Warn().Err(err).Str("step", string(s.step)).Msg("git save stopped")
			return res, fmt.Errorf("%w: %w", ErrNothingToSave, err)
		}
		res.Completed = append(res.Completed, s.step)
	}
	return res, nil
}
