// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/config"
	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/progress"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting and repairing the progress database.",
	}

	cleanupCmd = &cobra.Command{
		Use:   "cleanup-orphans",
		Short: "Remove progress saved for conditions no longer in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return runCleanupOrphans(cmd.OutOrStdout(), cmd.InOrStdin(), store, cat.Snapshot(), force, dryRun)
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored progress records",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return runDiagnosticsQuery(cmd.OutOrStdout(), store, limit, prefix)
		},
	}
)

func init() {
	cleanupCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	cleanupCmd.Flags().Bool("dry-run", false, "List orphaned records without deleting")

	queryCmd.Flags().Int("limit", 5, "Number of records to display")
	queryCmd.Flags().String("prefix", "", "Key prefix to inspect, e.g. notes: or evidence:")

	diagnosticsCmd.AddCommand(cleanupCmd)
	diagnosticsCmd.AddCommand(queryCmd)
}

// orphanedKeys returns progress keys whose condition id is not in snap.
func orphanedKeys(store database.Store, snap *catalog.Snapshot) ([]string, error) {
	var orphans []string
	for _, keyFor := range []func(string) string{progress.NotesKey, progress.EvidenceKey} {
		prefix := keyFor("")
		entries, err := store.List(prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s records: %w", strings.TrimSuffix(prefix, ":"), err)
		}
		for _, e := range entries {
			if _, ok := snap.Get(strings.TrimPrefix(e.Key, prefix)); !ok {
				orphans = append(orphans, e.Key)
			}
		}
	}
	return orphans, nil
}

func runCleanupOrphans(out io.Writer, in io.Reader, store database.Store, snap *catalog.Snapshot, force, dryRun bool) error {
	fmt.Fprintf(out, "Inspecting progress in %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

	orphans, err := orphanedKeys(store, snap)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Fprintln(out, "No orphaned progress records detected.")
		return nil
	}

	fmt.Fprintf(out, "Found %d orphaned records:\n", len(orphans))
	for i, key := range orphans {
		fmt.Fprintf(out, "%2d. %s\n", i+1, key)
	}

	if dryRun {
		fmt.Fprintln(out, "Dry run enabled; no deletions were performed.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(out, in, fmt.Sprintf("Delete %d records", len(orphans)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. No records deleted.")
			return nil
		}
	}

	deleted := 0
	for _, key := range orphans {
		if err := store.Delete(key); err != nil {
			fmt.Fprintf(out, "Failed to delete %s: %v\n", key, err)
			continue
		}
		deleted++
	}

	fmt.Fprintf(out, "Deleted %d orphaned records.\n", deleted)
	return nil
}

func runDiagnosticsQuery(out io.Writer, store database.Store, limit int, prefix string) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	entries, err := store.List(prefix)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No keys matched the requested prefix.")
		return nil
	}

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Fprintf(out, "Key: %s\n", e.Key)
		fmt.Fprintf(out, "Value length: %d bytes\n", len(e.Value))
		fmt.Fprintf(out, "Value preview: %s\n", truncateString(e.Value, 500))
		fmt.Fprintln(out, "---")
	}
	return nil
}

func promptYesNo(out io.Writer, in io.Reader, action string) (bool, error) {
	fmt.Fprintf(out, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
