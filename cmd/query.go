// file: cmd/query.go
// version: 1.1.0
// guid: 5f2a9c63-1e7b-4d48-a0c5-3b8d6e1f7a92

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jdfalk/cfr-navigator/internal/anchor"
	"github.com/jdfalk/cfr-navigator/internal/matcher"
	"github.com/jdfalk/cfr-navigator/internal/query"
	"github.com/jdfalk/cfr-navigator/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the catalog",
	Long: `Search conditions by name, alias, diagnostic code or CFR section.

Command forms: "dc 8520", "sec 4.124a", "§4.124a", "system neurological",
"notes" and "evidence". Anything else is a plain text search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		system, _ := cmd.Flags().GetString("system")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		resp := search.Run(cat.Snapshot(), search.Request{
			Query:  strings.Join(args, " "),
			System: system,
		})
		if limit > 0 && len(resp.Results) > limit {
			resp.Results = resp.Results[:limit]
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		return printResults(cmd.OutOrStdout(), resp)
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <query...>",
	Short: "Show how a query is interpreted",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, " ")
		intent, rule := query.ParseRule(raw)
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"query":     raw,
			"intent":    intent,
			"rule":      rule,
			"jump_hint": intent.JumpHint(raw),
		})
	},
}

var jumpCmd = &cobra.Command{
	Use:   "jump <id> <query...>",
	Short: "Resolve where a query lands in a condition's detail view",
	Args:  cobra.MinimumNArgs(1),
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

		raw := strings.Join(args[1:], " ")
		hint := query.Parse(raw).JumpHint(raw)
		available := anchor.ForCondition(cond)
		res := anchor.Resolve(hint, available)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Condition: %s (%s)\n", cond.Name, cond.ID)
		fmt.Fprintf(out, "Hint:      %s\n", hint)
		if res.None() {
			fmt.Fprintln(out, "Anchor:    (none)")
		} else {
			fmt.Fprintf(out, "Anchor:    %s\n", res.Anchor)
		}
		if res.Focus {
			fmt.Fprintln(out, "Focus:     notes")
		}
		if panel := anchor.Panel(hint); panel != "" {
			fmt.Fprintf(out, "Panel:     %s\n", panel)
		}
		if rows := anchor.FocusRows(hint, available); len(rows) > 0 {
			fmt.Fprintf(out, "Rows:      %s\n", strings.Join(rows, ", "))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("system", "", "restrict results to a body system")
	searchCmd.Flags().Int("limit", 20, "maximum results to print, 0 for all")
	searchCmd.Flags().Bool("json", false, "print the full response as JSON")
}

func printResults(w io.Writer, resp search.Response) error {
	if resp.System != "" {
		fmt.Fprintf(w, "System: %s\n", resp.System)
	}
	if len(resp.Suggest) > 0 {
		fmt.Fprintf(w, "Unknown system %q. Did you mean: %s?\n", resp.Intent.System, strings.Join(resp.Suggest, ", "))
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Score", "ID", "Name", "Match", "CFR"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, r := range resp.Results {
		name, summary := r.Condition.Name, r.Summary
		if h := r.Highlight; h != nil {
			name, summary = marked(h.Name, name), marked(h.Summary, summary)
		}
		table.Append([]string{strconv.Itoa(r.Score), r.Condition.ID, name, r.Reason, summary})
	}
	table.Render()
	fmt.Fprintf(w, "%d of %d shown\n", len(resp.Results), resp.Total)
	return nil
}

// marked renders fragments with matches wrapped in asterisks.
func marked(frags []matcher.Fragment, fallback string) string {
	if len(frags) == 0 {
		return fallback
	}
	var b strings.Builder
	for _, f := range frags {
		if f.Mark {
			b.WriteString("*" + f.Text + "*")
		} else {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
