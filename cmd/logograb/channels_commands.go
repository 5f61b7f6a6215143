package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logograb/internal/assign"
	"logograb/internal/plugin"
)

type channelView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TVGID   string `json:"tvg_id,omitempty"`
	LogoID  *int64 `json:"logo_id,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
	Status  string `json:"status"`
}

func newChannelView(rec assign.ChannelRecord) channelView {
	status := "healthy"
	switch {
	case rec.CurrentLogoRef == nil:
		status = "missing"
	case rec.IsPlaceholderLogo:
		status = "placeholder"
	}
	return channelView{
		ID:      rec.ID,
		Name:    rec.Name,
		TVGID:   rec.TVGID,
		LogoID:  rec.CurrentLogoRef,
		LogoURL: rec.CurrentLogoURL,
		Status:  status,
	}
}

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage channels in the SQLite host store",
	}
	channelsCmd.AddCommand(newChannelsListCommand(ctx))
	channelsCmd.AddCommand(newChannelsAddCommand(ctx))
	return channelsCmd
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List channels and their logo status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(rt *plugin.Runtime) error {
				list := rt.Store.ListChannels
				if missingOnly {
					list = rt.Store.ListChannelsMissingLogo
				}
				records, err := list(cmd.Context())
				if err != nil {
					return err
				}
				views := make([]channelView, 0, len(records))
				for _, rec := range records {
					views = append(views, newChannelView(rec))
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintln(out, "No channels")
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{strconv.FormatInt(v.ID, 10), v.Name, v.TVGID, v.Status, v.LogoURL})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "TVG ID", "Status", "Logo"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Only list channels without a usable logo")
	return cmd
}

func newChannelsAddCommand(ctx *commandContext) *cobra.Command {
	var tvgID string
	var logoURL string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a channel to the host store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return ctx.withRuntime(func(rt *plugin.Runtime) error {
				rec, err := rt.Store.AddChannel(cmd.Context(), name, tvgID, logoURL)
				if err != nil {
					return err
				}
				view := newChannelView(*rec)
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added channel %d %q (%s)\n", view.ID, view.Name, view.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tvgID, "tvg-id", "", "EPG identifier of the channel")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "Existing logo reference to seed")
	return cmd
}
