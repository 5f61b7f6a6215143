package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"logograb/internal/catalog"
	"logograb/internal/textutil"
)

type indexView struct {
	Outcome        string          `json:"outcome,omitempty"`
	SourceRevision string          `json:"source_revision"`
	BuiltAt        time.Time       `json:"built_at"`
	EntryCount     int             `json:"entry_count"`
	Malformed      int             `json:"malformed,omitempty"`
	Warning        string          `json:"warning,omitempty"`
	CachePath      string          `json:"cache_path"`
	Entries        []catalog.Entry `json:"entries,omitempty"`
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect or rebuild the catalog index",
	}
	indexCmd.AddCommand(newIndexBuildCommand(ctx))
	indexCmd.AddCommand(newIndexShowCommand(ctx))
	return indexCmd
}

func newIndexBuildCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog index, reusing the cache when the revision is unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			builder, err := ctx.catalogBuilder()
			if err != nil {
				return err
			}
			result, err := builder.Build(cmd.Context(), force)
			if err != nil {
				return err
			}

			view := indexView{
				Outcome:        string(result.Outcome),
				SourceRevision: result.Index.SourceRevision,
				BuiltAt:        result.Index.BuiltAt,
				EntryCount:     result.Index.EntryCount(),
				Malformed:      result.Malformed,
				CachePath:      cfg.IndexCachePath(),
			}
			if result.Warning != nil {
				view.Warning = result.Warning.Error()
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Index %s: %d entries at revision %s\n", view.Outcome, view.EntryCount, shortRevision(view.SourceRevision))
			if view.Malformed > 0 {
				fmt.Fprintf(out, "Skipped %d malformed entries\n", view.Malformed)
			}
			if view.Warning != "" {
				fmt.Fprintf(out, "Warning: %s\n", view.Warning)
			}
			fmt.Fprintf(out, "Cache: %s\n", view.CachePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even when the revision is unchanged")
	return cmd
}

func newIndexShowCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cached catalog index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			index, err := catalog.NewCache(cfg.IndexCachePath(), nil).Load()
			if err != nil {
				return err
			}
			if index == nil {
				return errors.New("no cached index; run `logograb index build` first")
			}

			entries := index.Entries()
			if key := textutil.Normalize(filter); key != "" {
				var filtered []catalog.Entry
				for _, entry := range entries {
					if strings.Contains(entry.NormalizedKey, key) {
						filtered = append(filtered, entry)
					}
				}
				entries = filtered
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			view := indexView{
				SourceRevision: index.SourceRevision,
				BuiltAt:        index.BuiltAt,
				EntryCount:     index.EntryCount(),
				CachePath:      cfg.IndexCachePath(),
				Entries:        entries,
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Revision: %s\n", shortRevision(view.SourceRevision))
			fmt.Fprintf(out, "Built:    %s\n", view.BuiltAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Entries:  %d\n", view.EntryCount)
			if len(entries) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.NormalizedKey, entry.Path})
			}
			fmt.Fprintln(out, renderTable([]string{"Key", "Path"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show entries whose key contains this name")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum entries to list (0 for all)")
	return cmd
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
