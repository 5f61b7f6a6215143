package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"logograb/internal/plugin"
	"logograb/internal/report"
	"logograb/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one assignment pass now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Assign.DryRun = true
			}
			var summary report.Summary
			err = ctx.withRuntime(func(rt *plugin.Runtime) error {
				summary = rt.Plugin.Run(cmd.Context(), plugin.TriggerManual)
				return nil
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return summaryError(summary)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match channels without writing to the host")
	return cmd
}

func printSummary(out io.Writer, s report.Summary) {
	if s.Skipped != "" {
		fmt.Fprintf(out, "Pass skipped (%s): %s\n", s.Skipped, s.SkipDetail)
		return
	}
	if len(s.Outcomes) > 0 {
		rows := make([][]string, 0, len(s.Outcomes))
		for _, o := range s.Outcomes {
			score := ""
			if o.Score > 0 {
				score = formatScore(o.Score)
			}
			detail := o.Path
			if o.Error != "" {
				detail = o.Error
			}
			rows = append(rows, []string{strconv.FormatInt(o.ChannelID, 10), o.ChannelName, string(o.State), score, detail})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Channel", "State", "Score", "Logo"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		))
	}

	fmt.Fprintf(out, "Scanned: %d  Matched: %d  Healthy: %d  No match: %d  Failed: %d",
		s.Scanned, s.Matched, s.SkippedHealthy, s.SkippedNoMatch, s.Failed)
	if s.Downloaded > 0 {
		fmt.Fprintf(out, "  Downloaded: %d", s.Downloaded)
	}
	fmt.Fprintf(out, "  (%d ms)\n", s.DurationMs)
	if s.IndexOutcome != "" {
		fmt.Fprintf(out, "Index: %s, %d entries\n", s.IndexOutcome, s.EntryCount)
	}
	if s.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were written")
	}
	if s.Cancelled {
		fmt.Fprintln(out, "Pass cancelled before all channels were processed")
	}
	if s.CatalogError != "" {
		fmt.Fprintf(out, "Catalog unavailable: %s\n", s.CatalogError)
	}
}

// summaryError turns a pass that did no work into a non-zero exit.
func summaryError(s report.Summary) error {
	switch {
	case s.Skipped == plugin.SkipLocked:
		return plugin.ErrLocked
	case s.Skipped != "":
		return fmt.Errorf("pass skipped (%s): %s", s.Skipped, s.SkipDetail)
	case s.CatalogError != "":
		return services.Wrap(services.ErrCatalogUnavailable, "cli", "run", s.CatalogError, nil)
	default:
		return nil
	}
}
