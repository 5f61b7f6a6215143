package assign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"logograb/internal/catalog"
	"logograb/internal/logging"
	"logograb/internal/match"
	"logograb/internal/report"
	"logograb/internal/services"
	"logograb/internal/textutil"
)

// Options tunes a pass.
type Options struct {
	// Download stores logo files in LogoDir and links the local path.
	Download bool
	LogoDir  string
	// DryRun matches without host writes.
	DryRun bool
	// UseTVGID tries the channel's tvg id before its name.
	UseTVGID bool
	// WriteTimeout bounds each host write; zero disables the bound.
	WriteTimeout time.Duration
	// ForceIndex rebuilds the catalog index even when the revision is unchanged.
	ForceIndex bool
}

// Engine assigns catalog logos to channels.
type Engine struct {
	host    Host
	index   IndexSource
	fetcher Fetcher
	opts    Options
	logger  *slog.Logger
	keys    *keyedMutex
}

// NewEngine wires an engine. All collaborators are required.
func NewEngine(host Host, index IndexSource, fetcher Fetcher, opts Options, logger *slog.Logger) (*Engine, error) {
	if host == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assign", "new engine", "host required", nil)
	}
	if index == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assign", "new engine", "index source required", nil)
	}
	if fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assign", "new engine", "fetcher required", nil)
	}
	if opts.Download && opts.LogoDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "assign", "new engine", "logo directory required for downloads", nil)
	}
	return &Engine{
		host:    host,
		index:   index,
		fetcher: fetcher,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "assign"),
		keys:    newKeyedMutex(),
	}, nil
}

// Run processes channels sequentially and returns the pass summary. It never
// fails as a whole: catalog unavailability is reported in the summary and
// per-channel failures are counted.
func (e *Engine) Run(ctx context.Context, channels []ChannelRecord) report.Summary {
	runID, _ := services.RunIDFromContext(ctx)
	trigger, _ := services.TriggerFromContext(ctx)
	rep := report.New(runID, trigger)
	rep.Update(func(s *report.Summary) { s.DryRun = e.opts.DryRun })
	logger := logging.WithContext(ctx, e.logger)

	healthy := make([]ChannelRecord, 0, len(channels))
	pending := make([]ChannelRecord, 0, len(channels))
	for _, ch := range channels {
		if ch.Healthy() {
			healthy = append(healthy, ch)
		} else {
			pending = append(pending, ch)
		}
	}

	var index *catalog.Index
	if len(pending) > 0 {
		built, err := e.index.Build(ctx, e.opts.ForceIndex)
		if err != nil {
			logging.ErrorWithContext(logger, "catalog unavailable; pass aborted", "catalog_unavailable",
				logging.Error(err),
				logging.ErrorKind(err),
				logging.Int("pending_channels", len(pending)),
				logging.String(logging.FieldErrorHint, "check network access to GitHub; the next pass will retry"))
			rep.Update(func(s *report.Summary) { s.CatalogError = err.Error() })
			return rep.Finalize()
		}
		index = built.Index
		rep.Update(func(s *report.Summary) {
			s.IndexOutcome = string(built.Outcome)
			s.EntryCount = built.Index.EntryCount()
			s.StaleCache = built.Outcome == catalog.OutcomeStaleCache
		})
	}

	for _, ch := range healthy {
		logging.WithContext(services.WithChannelID(ctx, ch.ID), e.logger).Debug("channel has a logo; skipped",
			logging.Args(logging.DecisionAttrs("logo_assignment", "skipped", "healthy logo")...)...)
		rep.Record(report.Outcome{ChannelID: ch.ID, ChannelName: ch.Name, State: report.StateSkippedHealthy})
	}

	for _, ch := range pending {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "assignment pass cancelled", "assign_cancelled",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remaining channels are handled by the next pass"),
				logging.String(logging.FieldImpact, "some channels were not processed"))
			rep.Update(func(s *report.Summary) { s.Cancelled = true })
			break
		}
		rep.Record(e.processChannel(services.WithChannelID(ctx, ch.ID), ch, index))
	}

	return rep.Finalize()
}

// Keys returns the identity keys tried for a channel, in order.
func (e *Engine) Keys(ch ChannelRecord) []string {
	keys := make([]string, 0, 2)
	if e.opts.UseTVGID && ch.TVGID != "" {
		if key := textutil.Normalize(ch.TVGID); key != "" {
			keys = append(keys, key)
		}
	}
	if key := textutil.Normalize(ch.Name); key != "" && (len(keys) == 0 || keys[0] != key) {
		keys = append(keys, key)
	}
	return keys
}

func (e *Engine) processChannel(ctx context.Context, ch ChannelRecord, index *catalog.Index) report.Outcome {
	logger := logging.WithContext(ctx, e.logger)
	outcome := report.Outcome{ChannelID: ch.ID, ChannelName: ch.Name}

	result := match.Resolve(ch.ID, e.Keys(ch), index)
	outcome.Score = result.Score
	if !result.Accepted {
		logger.Info("no catalog match",
			logging.Args(append(logging.DecisionAttrs("logo_assignment", "no_match", "best score below threshold"),
				logging.String("channel_name", ch.Name),
				logging.String("key", result.Key),
				logging.String("best_candidate", result.Runner),
				logging.Float64("best_score", result.Score),
				logging.Float64("threshold", match.AcceptThreshold))...)...)
		outcome.State = report.StateNoMatch
		return outcome
	}

	entry := *result.Chosen
	outcome.Path = entry.Path
	if e.opts.DryRun {
		logger.Info("dry run: would assign logo",
			logging.String("channel_name", ch.Name),
			logging.String("path", entry.Path),
			logging.Float64("score", result.Score))
		outcome.State = report.StateMatched
		return outcome
	}

	logo, downloaded, err := e.assign(ctx, ch, entry)
	outcome.Downloaded = downloaded
	if err != nil {
		logging.WarnWithContext(logger, "logo assignment failed", "logo_assignment_failed",
			logging.String("channel_name", ch.Name),
			logging.String("path", entry.Path),
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldErrorHint, "the channel is retried on the next pass"))
		outcome.State = report.StateFailed
		outcome.Error = err.Error()
		outcome.ErrorKind = services.Kind(err)
		return outcome
	}

	logger.Info("logo assigned",
		logging.Args(append(logging.DecisionAttrs("logo_assignment", "assigned", "catalog match"),
			logging.String("channel_name", ch.Name),
			logging.String("path", entry.Path),
			logging.Float64("score", result.Score),
			logging.Int64("logo_id", logo.ID),
			logging.Bool("downloaded", downloaded))...)...)
	outcome.State = report.StateAssigned
	outcome.LogoID = logo.ID
	return outcome
}

// assign creates or reuses the logo for entry and links it to the channel.
func (e *Engine) assign(ctx context.Context, ch ChannelRecord, entry catalog.Entry) (*LogoRecord, bool, error) {
	key := entry.NormalizedKey
	unlock := e.keys.Lock(key)
	defer unlock()

	var logo *LogoRecord
	err := e.withWriteTimeout(ctx, func(wctx context.Context) error {
		var findErr error
		logo, findErr = e.host.FindLogoByKey(wctx, key)
		return findErr
	})
	if err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "assign", "find logo", key, err)
	}

	downloaded := false
	if logo == nil {
		url, fetched, err := e.logoURL(ctx, entry)
		downloaded = fetched
		if err != nil {
			return nil, downloaded, err
		}
		err = e.withWriteTimeout(ctx, func(wctx context.Context) error {
			var createErr error
			logo, createErr = e.host.CreateLogo(wctx, key, url)
			return createErr
		})
		if err != nil {
			return nil, downloaded, services.Wrap(services.ErrTransient, "assign", "create logo", key, err)
		}
		if logo == nil {
			return nil, downloaded, services.Wrap(services.ErrTransient, "assign", "create logo", "host returned no logo", nil)
		}
	}

	err = e.withWriteTimeout(ctx, func(wctx context.Context) error {
		return e.host.SetChannelLogo(wctx, ch.ID, logo.ID)
	})
	if err != nil {
		return nil, downloaded, services.Wrap(services.ErrTransient, "assign", "link channel", fmt.Sprintf("logo %d", logo.ID), err)
	}
	return logo, downloaded, nil
}

func (e *Engine) withWriteTimeout(ctx context.Context, fn func(context.Context) error) error {
	if e.opts.WriteTimeout <= 0 {
		return fn(ctx)
	}
	wctx, cancel := context.WithTimeout(ctx, e.opts.WriteTimeout)
	defer cancel()
	err := fn(wctx)
	if err != nil && errors.Is(wctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: host write exceeded %s: %w", services.ErrTimeout, e.opts.WriteTimeout, err)
	}
	return err
}
