// file: cmd/save.go
// version: 1.0.0
// guid: 71c3e8a5-9b24-4d6f-8a10-e5f2b7d4c3a9

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/cfr-navigator/internal/gitsave"
)

var saveCmd = &cobra.Command{
	Use:   "save [message...]",
	Short: "Stage, commit and push the working tree",
	Long:  `Runs git add, commit and push in one step. The message defaults to "auto save".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = wd
		}

		client := gitsave.NewClient(dir)
		client.Remote, _ = cmd.Flags().GetString("remote")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		res, err := client.Save(ctx, strings.Join(args, " "))
		if errors.Is(err, gitsave.ErrNothingToSave) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to commit or push.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Committed %q and pushed.\n", res.Message)
		return nil
	},
}

func init() {
	saveCmd.Flags().String("dir", "", "repository directory (default: current directory)")
	saveCmd.Flags().String("remote", "", "remote to push to (default: branch upstream)")
}
