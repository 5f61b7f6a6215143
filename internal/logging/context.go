package logging

import (
	"context"
	"log/slog"

	"logograb/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for assignment pass identifiers.
	FieldRunID = "run_id"
	// FieldTrigger records what started a pass (startup, autorun, cli).
	FieldTrigger = "trigger"
	// FieldChannelID is the standardized structured logging key for host channel identifiers.
	FieldChannelID = "channel_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries services.Kind for a failure.
	FieldErrorKind = "error_kind"
	// FieldDecisionType names the decision a log line records.
	FieldDecisionType = "decision_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if trigger, ok := services.TriggerFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTrigger, trigger))
	}
	if id, ok := services.ChannelIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldChannelID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
