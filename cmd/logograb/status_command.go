package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logograb/internal/catalog"
	"logograb/internal/plugin"
	"logograb/internal/preflight"
)

type statusView struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	Checks       []preflight.Result `json:"checks"`
	CachedIndex  *indexView         `json:"cached_index,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, the host database and catalog reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			view := statusView{ConfigPath: ctx.configPath, ConfigExists: ctx.configExists}
			var remote preflight.RevisionSource
			client, clientErr := plugin.NewCatalogClient(cfg)
			if clientErr == nil {
				remote = client
			}
			view.Checks = preflight.RunAll(cmd.Context(), cfg, remote)
			if clientErr != nil {
				view.Checks = append(view.Checks, preflight.Result{Name: "Catalog", Detail: clientErr.Error()})
			}

			// A corrupt cache is reported by Load as absent.
			if index, _ := catalog.NewCache(cfg.IndexCachePath(), nil).Load(); index != nil {
				view.CachedIndex = &indexView{
					SourceRevision: index.SourceRevision,
					BuiltAt:        index.BuiltAt,
					EntryCount:     index.EntryCount(),
					CachePath:      cfg.IndexCachePath(),
				}
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, view); err != nil {
					return err
				}
			} else {
				lines := []statusLine{{Label: "Config", Kind: statusOK, Detail: view.ConfigPath}}
				if !view.ConfigExists {
					lines[0].Kind = statusWarn
					lines[0].Detail += " (not found; defaults in effect)"
				}
				for _, check := range view.Checks {
					lines = append(lines, checkLine(check))
				}
				if view.CachedIndex != nil {
					detail := fmt.Sprintf("%d entries at %s", view.CachedIndex.EntryCount, shortRevision(view.CachedIndex.SourceRevision))
					lines = append(lines, statusLine{Label: "Index cache", Kind: statusInfo, Detail: detail})
				} else {
					lines = append(lines, statusLine{Label: "Index cache", Kind: statusWarn, Detail: "not built yet"})
				}
				printer := newStatusPrinter(cmd.OutOrStdout(), lines)
				printer.header("logograb status")
				printer.print(lines)
			}

			if failed := preflight.Failed(view.Checks); len(failed) > 0 {
				return fmt.Errorf("%d status check(s) failed", len(failed))
			}
			return nil
		},
	}
}
