// file: cmd/catalog.go
// version: 1.0.0
// guid: b4e7c1a9-62d5-4f83-9e0b-7a1c3d5f8e26

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/config"
	"github.com/jdfalk/cfr-navigator/internal/progress"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a conditions catalog without serving it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.AppConfig.DataPath
		if len(args) == 1 {
			path = args[0]
		}
		conditions, err := catalog.Load(path)
		if err != nil {
			return err
		}
		snap := catalog.NewSnapshot(conditions)
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d conditions from %s (%d body systems)\n", snap.Len(), path, len(snap.Systems))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a condition's evidence checklist and notes as text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		cond, ok := cat.Snapshot().Get(args[0])
		if !ok {
			return fmt.Errorf("condition not found: %s", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		text, err := progress.NewService(store).ExportChecklist(cond)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		}
		if out == "." {
			out = progress.ExportFilename(cond)
		}
		if err := os.WriteFile(out, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		log.Info().Str("file", out).Str("id", cond.ID).Msg("checklist exported")
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", `write to a file instead of stdout ("." uses the default file name)`)
}
