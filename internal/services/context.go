package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	triggerKey   contextKey = "trigger"
	channelIDKey contextKey = "channel_id"
)

// WithRunID annotates context with the assignment pass identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pass identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTrigger annotates context with the entry point that started the pass
// (startup, autorun, manual).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	if trigger == "" {
		return ctx
	}
	return context.WithValue(ctx, triggerKey, trigger)
}

// TriggerFromContext returns the trigger name if present.
func TriggerFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(triggerKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithChannelID annotates context with the host channel identifier.
func WithChannelID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, channelIDKey, id)
}

// ChannelIDFromContext extracts the channel identifier if present.
func ChannelIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(channelIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
