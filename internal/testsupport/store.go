package testsupport

import (
	"context"
	"testing"

	"logograb/internal/assign"
	"logograb/internal/config"
	"logograb/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// AddChannel inserts a channel for tests using the provided store.
func AddChannel(t testing.TB, st *store.Store, name, tvgID, logoURL string) *assign.ChannelRecord {
	t.Helper()

	rec, err := st.AddChannel(context.Background(), name, tvgID, logoURL)
	if err != nil {
		t.Fatalf("store.AddChannel: %v", err)
	}
	return rec
}
