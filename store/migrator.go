package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// The migration system is intentionally small: a fresh database is
// initialized from LATEST.sql for the active driver. Incremental migrations
// can be added next to it once the schema starts evolving between releases.

//go:embed migration
var migrationFS embed.FS

// Migrate initializes the database schema when it has not been set up yet.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	driverName := "sqlite"
	if s.profile != nil && s.profile.Driver != "" {
		driverName = s.profile.Driver
	}

	buf, err := migrationFS.ReadFile(fmt.Sprintf("migration/%s/LATEST.sql", driverName))
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema for driver %s", driverName)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	slog.Info("database initialized", "driver", driverName)
	return nil
}
