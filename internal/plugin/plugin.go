package plugin

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"logograb/internal/assign"
	"logograb/internal/config"
	"logograb/internal/logging"
	"logograb/internal/preflight"
	"logograb/internal/report"
	"logograb/internal/services"
)

// Triggers name the entry point that started a pass.
const (
	TriggerStartup = "startup"
	TriggerAutorun = "autorun"
	TriggerManual  = "manual"
)

// ErrLocked is returned by callers that turn a locked pass into an error.
var ErrLocked = errors.New("assignment pass already running")

// Skip reasons reported in Summary.Skipped.
const (
	SkipLocked          = "locked"
	SkipPreflight       = "preflight"
	SkipHostUnavailable = "host_unavailable"
)

// Plugin runs assignment passes against one host.
type Plugin struct {
	cfg    *config.Config
	host   assign.Host
	engine *assign.Engine
	logger *slog.Logger

	lockPath string
	newID    func() string
}

// New wires a plugin from config and its collaborators.
func New(cfg *config.Config, host assign.Host, index assign.IndexSource, fetcher assign.Fetcher, logger *slog.Logger) (*Plugin, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "plugin", "new", "config required", nil)
	}
	engine, err := assign.NewEngine(host, index, fetcher, assign.Options{
		Download:     cfg.Assign.Download,
		LogoDir:      cfg.Paths.LogoDir,
		DryRun:       cfg.Assign.DryRun,
		UseTVGID:     cfg.Assign.UseTVGID,
		WriteTimeout: cfg.WriteTimeout(),
	}, logger)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		cfg:      cfg,
		host:     host,
		engine:   engine,
		logger:   logging.NewComponentLogger(logger, "plugin"),
		lockPath: cfg.LockPath(),
		newID:    uuid.NewString,
	}, nil
}

// Startup runs the pass the host schedules shortly after it boots.
func (p *Plugin) Startup(ctx context.Context) report.Summary {
	return p.Run(ctx, TriggerStartup)
}

// Autorun runs the periodic pass. It behaves exactly like Startup.
func (p *Plugin) Autorun(ctx context.Context) report.Summary {
	return p.Run(ctx, TriggerAutorun)
}

// Run executes one pass labelled with trigger.
func (p *Plugin) Run(ctx context.Context, trigger string) report.Summary {
	runID := p.newID()
	ctx = services.WithTrigger(services.WithRunID(ctx, runID), trigger)
	logger := logging.WithContext(ctx, p.logger)

	skipped := func(reason, detail string) report.Summary {
		rep := report.New(runID, trigger)
		rep.Update(func(s *report.Summary) {
			s.Skipped = reason
			s.SkipDetail = detail
			s.LogoDir = p.cfg.Paths.LogoDir
			s.DryRun = p.cfg.Assign.DryRun
		})
		summary := rep.Finalize()
		logger.Info("assignment pass skipped", logging.Any("summary", summary))
		return summary
	}

	if err := os.MkdirAll(filepath.Dir(p.lockPath), 0o755); err != nil {
		logging.WarnWithContext(logger, "create state directory", "run_lock_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the state directory is writable"),
			logging.String(logging.FieldImpact, "pass skipped"))
		return skipped(SkipLocked, err.Error())
	}
	lock := flock.New(p.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		logging.WarnWithContext(logger, "run lock unavailable", "run_lock_failed",
			logging.Error(err),
			logging.String("lock_path", p.lockPath),
			logging.String(logging.FieldErrorHint, "check that the state directory is writable"),
			logging.String(logging.FieldImpact, "pass skipped"))
		return skipped(SkipLocked, err.Error())
	}
	if !ok {
		logger.Info("another assignment pass holds the run lock",
			logging.Args(logging.DecisionAttrs("run_lock", "skipped", "pass already running")...)...)
		return skipped(SkipLocked, "another pass is running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release run lock", logging.Error(err))
		}
	}()

	if p.cfg.Assign.Download && !p.cfg.Assign.DryRun {
		if result := preflight.CheckDirectoryAccess("Logo directory", p.cfg.Paths.LogoDir); !result.Passed {
			logging.ErrorWithContext(logger, "logo directory not writable; pass skipped", "preflight_failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldErrorHint, "create the logo directory or disable assign.download"),
				logging.String(logging.FieldImpact, "no channels processed"))
			return skipped(SkipPreflight, result.Detail)
		}
	}

	channels, err := p.host.ListChannelsMissingLogo(ctx)
	if err != nil {
		err = services.Wrap(services.ErrTransient, "plugin", "list channels", "host query failed", err)
		logging.ErrorWithContext(logger, "list channels failed; pass skipped", "host_unavailable",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldErrorHint, "check the host database"),
			logging.String(logging.FieldImpact, "no channels processed"))
		return skipped(SkipHostUnavailable, err.Error())
	}

	logger.Info("assignment pass started",
		logging.Int("channels", len(channels)),
		logging.String("logo_dir", p.cfg.Paths.LogoDir),
		logging.Bool("download", p.cfg.Assign.Download),
		logging.Bool("dry_run", p.cfg.Assign.DryRun))

	summary := p.engine.Run(ctx, channels)
	summary.LogoDir = p.cfg.Paths.LogoDir

	switch {
	case summary.CatalogError != "":
		logger.Error("assignment pass failed", logging.Any("summary", summary))
	case summary.Failed > 0 || summary.Cancelled:
		logger.Warn("assignment pass finished with failures", logging.Any("summary", summary))
	default:
		logger.Info("assignment pass finished", logging.Any("summary", summary))
	}
	return summary
}
