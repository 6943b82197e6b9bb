// Package test provides store test harness helpers backed by SQLite.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/peakform/peakform/internal/profile"
	"github.com/peakform/peakform/store"
	"github.com/peakform/peakform/store/db/sqlite"
)

// NewTestingStore creates a store backed by a fresh SQLite database in a
// temporary directory and applies the latest schema.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:                "dev",
		Driver:              "sqlite",
		DSN:                 filepath.Join(t.TempDir(), "peakform_test.db"),
		MemoryRetentionDays: 30,
	}

	driver, err := sqlite.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	s := store.New(driver, p)
	t.Cleanup(func() {
		_ = s.Close()
	})

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return s
}
