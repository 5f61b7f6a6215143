package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logograb/internal/match"
	"logograb/internal/textutil"
)

type matchView struct {
	Name       string            `json:"name"`
	Key        string            `json:"key"`
	Threshold  float64           `json:"threshold"`
	Candidates []match.Candidate `json:"candidates"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "match <name>",
		Short: "Score a channel name against the catalog without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			key := textutil.Normalize(name)
			if key == "" {
				return errors.New("name normalizes to an empty key")
			}
			builder, err := ctx.catalogBuilder()
			if err != nil {
				return err
			}
			result, err := builder.Build(cmd.Context(), false)
			if err != nil {
				return err
			}

			candidates := result.Index.Lookup(key)
			if len(candidates) == 0 {
				candidates = result.Index.Entries()
			}
			view := matchView{
				Name:       name,
				Key:        key,
				Threshold:  match.AcceptThreshold,
				Candidates: match.Rank(key, candidates, limit),
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key: %q (threshold %s)\n", view.Key, formatScore(view.Threshold))
			if len(view.Candidates) == 0 {
				fmt.Fprintln(out, "No candidates")
				return nil
			}
			rows := make([][]string, 0, len(view.Candidates))
			for i, c := range view.Candidates {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatScore(c.Score),
					yesNo(c.Accepted),
					c.Entry.NormalizedKey,
					c.Entry.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Score", "Accept", "Key", "Path"},
				rows,
				[]columnAlignment{alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Number of candidates to show")
	return cmd
}
