// Package daemonrun wires configuration, logging, the host store and the
// plugin into the long-running daemon process.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"logograb/internal/config"
	"logograb/internal/daemon"
	"logograb/internal/logging"
	"logograb/internal/plugin"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level when set.
	LogLevel    string
	Development bool
}

// Run starts the logograb daemon and blocks until SIGINT, SIGTERM or
// cancellation of cmdCtx.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
		FilePath:    filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logConfigSnapshot(logger, cfg)
	pidPath := filepath.Join(cfg.Paths.StateDir, "logograb.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	rt, err := plugin.NewRuntime(cfg, logger)
	if err != nil {
		logger.Error("open runtime", logging.Error(err))
		return err
	}
	defer rt.Close()

	d, err := daemon.New(cfg, rt.Plugin, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	defer d.Stop()

	<-signalCtx.Done()
	logger.Info("logograb daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("catalog", cfg.Catalog.Owner+"/"+cfg.Catalog.Repo+"@"+cfg.Catalog.Branch),
		logging.Bool("token_present", cfg.Catalog.Token != ""),
		logging.String("logo_dir", cfg.Paths.LogoDir),
		logging.String("database", cfg.Host.DatabasePath),
		logging.Bool("download", cfg.Assign.Download),
		logging.Bool("dry_run", cfg.Assign.DryRun),
		logging.Duration("startup_delay", cfg.StartupDelay()),
		logging.Duration("autorun_interval", cfg.AutorunInterval()),
	)
}
