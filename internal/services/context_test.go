package services_test

import (
	"context"
	"testing"

	"logograb/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithChannelID(ctx, 42)
	ctx = services.WithTrigger(ctx, "autorun")
	ctx = services.WithRunID(ctx, "run-123")

	if id, ok := services.ChannelIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected channel id: %v %v", id, ok)
	}
	if trigger, ok := services.TriggerFromContext(ctx); !ok || trigger != "autorun" {
		t.Fatalf("unexpected trigger: %v %v", trigger, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestTriggerBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTrigger(ctx, "")
	if _, ok := services.TriggerFromContext(ctx); ok {
		t.Fatal("expected no trigger value")
	}
}
