package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"logograb/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrCatalogUnavailable, "catalog", "tree", "listing failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCatalogUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "tree", "listing failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"catalog", services.Wrap(services.ErrCatalogUnavailable, "catalog", "build", "", nil), "catalog_unavailable"},
		{"conflict", fmt.Errorf("link: %w", services.ErrWriteConflict), "write_conflict"},
		{"no match", services.ErrNoMatch, "no_match"},
		{"deadline", fmt.Errorf("write: %w", context.DeadlineExceeded), "timeout"},
		{"plain", errors.New("io"), "transient"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
