package db

import (
	"github.com/pkg/errors"

	"github.com/peakform/peakform/internal/profile"
	"github.com/peakform/peakform/store"
	"github.com/peakform/peakform/store/db/postgres"
	"github.com/peakform/peakform/store/db/sqlite"
)

// PostgreSQL is the primary production database and supports all engine
// features including memory vector search. SQLite is supported for
// development and testing; vector search is unavailable there.

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
