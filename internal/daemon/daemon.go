package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"logograb/internal/config"
	"logograb/internal/logging"
	"logograb/internal/report"
)

// Runner is the pair of host entry points the daemon triggers.
type Runner interface {
	Startup(ctx context.Context) report.Summary
	Autorun(ctx context.Context) report.Summary
}

// Daemon schedules assignment passes and enforces single-instance execution.
type Daemon struct {
	runner       Runner
	logger       *slog.Logger
	startupDelay time.Duration
	interval     time.Duration

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	passes  atomic.Int64
	mu      sync.Mutex
	last    *report.Summary
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Passes       int64
	LastSummary  *report.Summary
	LockFilePath string
}

// Option adjusts a daemon.
type Option func(*Daemon)

// WithSchedule overrides the configured startup delay and autorun interval.
func WithSchedule(startupDelay, interval time.Duration) Option {
	return func(d *Daemon) {
		d.startupDelay = startupDelay
		d.interval = interval
	}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, runner Runner, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "logograb-daemon.lock")
	d := &Daemon{
		runner:       runner,
		logger:       logging.NewComponentLogger(logger, "daemon"),
		startupDelay: cfg.StartupDelay(),
		interval:     cfg.AutorunInterval(),
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.interval <= 0 {
		return nil, fmt.Errorf("autorun interval must be positive, got %s", d.interval)
	}
	return d, nil
}

// Start acquires the daemon lock and launches the schedule loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another logograb daemon instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)
	go d.loop(loopCtx, d.done)

	d.logger.Info("logograb daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("startup_delay", d.startupDelay),
		logging.Duration("autorun_interval", d.interval))
	return nil
}

// Stop cancels the schedule, waits for an in-flight pass, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	<-d.done
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("logograb daemon stopped")
}

// Done is closed when the schedule loop exits.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	var last *report.Summary
	if d.last != nil {
		copied := *d.last
		last = &copied
	}
	return Status{
		Running:      d.running.Load(),
		Passes:       d.passes.Load(),
		LastSummary:  last,
		LockFilePath: d.lockPath,
	}
}

func (d *Daemon) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	startup := time.NewTimer(d.startupDelay)
	defer startup.Stop()
	select {
	case <-ctx.Done():
		return
	case <-startup.C:
	}
	d.record(d.runner.Startup(ctx))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.record(d.runner.Autorun(ctx))
		}
	}
}

func (d *Daemon) record(summary report.Summary) {
	d.passes.Add(1)
	d.mu.Lock()
	d.last = &summary
	d.mu.Unlock()
}
