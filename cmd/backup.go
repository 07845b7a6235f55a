// file: cmd/backup.go
// version: 1.0.0
// guid: e2a4c6f8-1b3d-4e5f-8a9b-0c2d4e6f8a1b

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jdfalk/cfr-navigator/internal/backup"
	"github.com/jdfalk/cfr-navigator/internal/config"
)

var (
	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore saved notes and checklists",
	}

	backupCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Write all saved progress to a new archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			cfg := backupConfig(cmd)
			info, err := backup.Create(store, config.AppConfig.DatabaseType, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d entries, sha256 %s)\n", info.Path, info.Entries, info.Checksum)
			return nil
		},
	}

	backupListCmd = &cobra.Command{
		Use:   "list",
		Short: "List archives in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			backups, err := backup.List(backupConfig(cmd).Dir)
			if err != nil {
				return err
			}
			printBackups(cmd.OutOrStdout(), backups)
			return nil
		},
	}

	backupRestoreCmd = &cobra.Command{
		Use:   "restore <file>",
		Short: "Load an archive into the progress database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := backup.Restore(args[0], store, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d entries from %s\n", n, args[0])
			return nil
		},
	}
)

func init() {
	defaults := backup.DefaultConfig()
	backupCmd.PersistentFlags().String("dir", defaults.Dir, "backup directory")
	backupCreateCmd.Flags().Int("keep", defaults.MaxBackups, "number of archives to keep, 0 keeps all")
	backupRestoreCmd.Flags().Bool("replace", false, "remove existing progress before restoring")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

func backupConfig(cmd *cobra.Command) backup.Config {
	cfg := backup.DefaultConfig()
	// --dir lives on the parent, so look it up through the inherited set
	if f := cmd.Flag("dir"); f != nil && f.Value.String() != "" {
		cfg.Dir = f.Value.String()
	}
	if keep, err := cmd.Flags().GetInt("keep"); err == nil {
		cfg.MaxBackups = keep
	}
	return cfg
}

func printBackups(w io.Writer, backups []backup.Info) {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Created", "Entries", "Size", "Store"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, b := range backups {
		table.Append([]string{
			b.Filename,
			b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(b.Entries),
			strconv.FormatInt(b.Size, 10),
			b.DatabaseType,
		})
	}
	table.Render()
}
