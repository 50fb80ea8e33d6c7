package testsupport

import (
	"context"
	"testing"

	"annunciator/internal/backend"
	"annunciator/internal/config"
	"annunciator/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordAsset inserts an issued asset for tests.
func RecordAsset(t testing.TB, store *ledger.Store, sessionID string, kind backend.AssetKind, filename string) *ledger.Asset {
	t.Helper()

	asset, err := store.Record(context.Background(), sessionID, kind, filename, "")
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return asset
}
