package report

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRecordCountsTerminalStates(t *testing.T) {
	r := New("run-1", "autorun")
	r.Record(Outcome{ChannelID: 1, State: StateSkippedHealthy})
	r.Record(Outcome{ChannelID: 2, State: StateAssigned, Downloaded: true})
	r.Record(Outcome{ChannelID: 3, State: StateMatched})
	r.Record(Outcome{ChannelID: 4, State: StateNoMatch})
	r.Record(Outcome{ChannelID: 5, State: StateFailed, Error: "boom"})

	s := r.Finalize()
	if s.Scanned != 5 || s.SkippedHealthy != 1 || s.Matched != 2 || s.SkippedNoMatch != 1 || s.Failed != 1 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.Downloaded != 1 {
		t.Fatalf("expected one download, got %d", s.Downloaded)
	}
	if s.Scanned != s.SkippedHealthy+s.Matched+s.SkippedNoMatch+s.Failed {
		t.Fatalf("scanned must equal the sum of terminal states: %+v", s)
	}
	if len(s.Outcomes) != 5 || s.Outcomes[4].ChannelID != 5 {
		t.Fatalf("expected outcomes kept in order, got %+v", s.Outcomes)
	}
	if s.RunID != "run-1" || s.Trigger != "autorun" {
		t.Fatalf("unexpected identity: %+v", s)
	}
}

func TestFinalizeFreezesSummary(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newWithClock("run", "cli", func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	})
	first := r.Finalize()
	r.Record(Outcome{State: StateAssigned})
	r.Update(func(s *Summary) { s.Cancelled = true })
	second := r.Finalize()

	if first.DurationMs != 250 || second.DurationMs != 250 {
		t.Fatalf("expected duration frozen at 250ms, got %d and %d", first.DurationMs, second.DurationMs)
	}
	if second.Scanned != 0 || second.Cancelled {
		t.Fatalf("expected no changes after finalize, got %+v", second)
	}
}

func TestSummaryLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	summary := Summary{Scanned: 3, Matched: 1, SkippedHealthy: 1, SkippedNoMatch: 1, DurationMs: 12, CatalogError: "catalog_unavailable"}
	logger.Info("assignment pass complete", slog.Any("summary", summary))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	group, ok := record["summary"].(map[string]any)
	if !ok {
		t.Fatalf("expected summary group, got %s", buf.String())
	}
	for _, key := range []string{"scanned", "matched", "skipped_healthy", "skipped_no_match", "failed", "duration_ms", "catalog_error"} {
		if _, ok := group[key]; !ok {
			t.Fatalf("summary missing %s: %s", key, buf.String())
		}
	}
	if strings.Contains(buf.String(), "outcomes") {
		t.Fatalf("expected outcomes omitted from log value: %s", buf.String())
	}
}
