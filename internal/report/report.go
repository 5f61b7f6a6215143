// Package report accumulates per-channel outcomes of one assignment pass and
// produces its summary.
package report

import (
	"log/slog"
	"sync"
	"time"
)

// State is the terminal state of one channel in a pass.
type State string

const (
	StateSkippedHealthy State = "skipped_healthy"
	StateNoMatch        State = "no_match"
	StateMatched        State = "matched"
	StateAssigned       State = "assigned"
	StateFailed         State = "failed"
)

// Outcome records how one channel ended.
type Outcome struct {
	ChannelID   int64   `json:"channel_id"`
	ChannelName string  `json:"channel_name"`
	State       State   `json:"state"`
	Path        string  `json:"path,omitempty"`
	Score       float64 `json:"score,omitempty"`
	LogoID      int64   `json:"logo_id,omitempty"`
	Downloaded  bool    `json:"downloaded,omitempty"`
	Error       string  `json:"error,omitempty"`
	ErrorKind   string  `json:"error_kind,omitempty"`
}

// Summary is the final record of a pass.
type Summary struct {
	RunID          string    `json:"run_id,omitempty"`
	Trigger        string    `json:"trigger,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	Scanned        int       `json:"scanned"`
	Matched        int       `json:"matched"`
	SkippedHealthy int       `json:"skipped_healthy"`
	SkippedNoMatch int       `json:"skipped_no_match"`
	Failed         int       `json:"failed"`
	Downloaded     int       `json:"downloaded"`
	DurationMs     int64     `json:"duration_ms"`
	IndexOutcome   string    `json:"index_outcome,omitempty"`
	EntryCount     int       `json:"entry_count"`
	CatalogError   string    `json:"catalog_error,omitempty"`
	StaleCache     bool      `json:"stale_cache,omitempty"`
	Cancelled      bool      `json:"cancelled,omitempty"`
	DryRun         bool      `json:"dry_run,omitempty"`
	LogoDir        string    `json:"logo_dir,omitempty"`
	// Skipped names why the pass did not run at all: "locked", "preflight"
	// or "host_unavailable".
	Skipped    string    `json:"skipped,omitempty"`
	SkipDetail string    `json:"skip_detail,omitempty"`
	Outcomes   []Outcome `json:"outcomes,omitempty"`
}

// LogValue renders the summary as one structured group. Per-channel outcomes
// are left out.
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("scanned", s.Scanned),
		slog.Int("matched", s.Matched),
		slog.Int("skipped_healthy", s.SkippedHealthy),
		slog.Int("skipped_no_match", s.SkippedNoMatch),
		slog.Int("failed", s.Failed),
		slog.Int64("duration_ms", s.DurationMs),
	}
	if s.Downloaded > 0 {
		attrs = append(attrs, slog.Int("downloaded", s.Downloaded))
	}
	if s.IndexOutcome != "" {
		attrs = append(attrs, slog.String("index_outcome", s.IndexOutcome), slog.Int("entry_count", s.EntryCount))
	}
	if s.CatalogError != "" {
		attrs = append(attrs, slog.String("catalog_error", s.CatalogError))
	}
	if s.StaleCache {
		attrs = append(attrs, slog.Bool("stale_cache", true))
	}
	if s.Cancelled {
		attrs = append(attrs, slog.Bool("cancelled", true))
	}
	if s.DryRun {
		attrs = append(attrs, slog.Bool("dry_run", true))
	}
	if s.LogoDir != "" {
		attrs = append(attrs, slog.String("logo_dir", s.LogoDir))
	}
	if s.Skipped != "" {
		attrs = append(attrs, slog.String("skipped", s.Skipped))
		if s.SkipDetail != "" {
			attrs = append(attrs, slog.String("skip_detail", s.SkipDetail))
		}
	}
	return slog.GroupValue(attrs...)
}

// Report accumulates outcomes. It is safe for concurrent use.
type Report struct {
	mu       sync.Mutex
	summary  Summary
	started  time.Time
	now      func() time.Time
	finished bool
}

// New starts a report clock.
func New(runID, trigger string) *Report {
	return newWithClock(runID, trigger, time.Now)
}

func newWithClock(runID, trigger string, now func() time.Time) *Report {
	started := now()
	return &Report{
		summary: Summary{RunID: runID, Trigger: trigger, StartedAt: started.UTC()},
		started: started,
		now:     now,
	}
}

// Record adds a terminal outcome. Assigned and dry-run matched channels both
// count as matched.
func (r *Report) Record(outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	s := &r.summary
	s.Scanned++
	switch outcome.State {
	case StateSkippedHealthy:
		s.SkippedHealthy++
	case StateNoMatch:
		s.SkippedNoMatch++
	case StateMatched, StateAssigned:
		s.Matched++
	case StateFailed:
		s.Failed++
	}
	if outcome.Downloaded {
		s.Downloaded++
	}
	s.Outcomes = append(s.Outcomes, outcome)
}

// Update applies fn to the in-progress summary for fields outside the counters.
func (r *Report) Update(fn func(*Summary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finished {
		fn(&r.summary)
	}
}

// Finalize stamps the duration and returns the summary. Later calls return the
// same summary.
func (r *Report) Finalize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finished {
		r.summary.DurationMs = r.now().Sub(r.started).Milliseconds()
		r.finished = true
	}
	out := r.summary
	out.Outcomes = append([]Outcome(nil), r.summary.Outcomes...)
	return out
}
