// Package cleanup implements the background memory sweeper: expired memories
// and historical memories past the retention window are removed on a
// schedule, per user.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	aicontext "github.com/peakform/peakform/plugin/ai/context"
	"github.com/peakform/peakform/store"
)

type Runner struct {
	store    *store.Store
	sweeper  *aicontext.Sweeper
	interval time.Duration
}

func NewRunner(s *store.Store) *Runner {
	return &Runner{
		store:    s,
		sweeper:  aicontext.NewSweeper(aicontext.NewStoreMemoryProvider(s)),
		interval: time.Hour,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Sweep once on startup
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("cleanup runner stopped")
			return
		}
	}
}

// RunOnce sweeps every user once. A failing user is logged and skipped so
// one bad row never blocks cleanup for everyone else.
func (r *Runner) RunOnce(ctx context.Context) {
	runID := uuid.New().String()

	users, err := r.store.ListUsers(ctx, &store.FindUser{})
	if err != nil {
		slog.Error("cleanup pass failed to list users", slog.String("run", runID), slog.Any("err", err))
		return
	}

	totalRemoved := 0
	for _, user := range users {
		select {
		case <-ctx.Done():
			slog.Info("cleanup pass cancelled", slog.String("run", runID))
			return
		default:
		}

		removed, err := r.sweeper.SweepUser(ctx, user.ID)
		if err != nil {
			slog.Error("cleanup failed for user",
				slog.String("run", runID),
				slog.Int("user", int(user.ID)),
				slog.Any("err", err))
			continue
		}
		totalRemoved += removed
	}

	if totalRemoved > 0 {
		slog.Info("cleanup pass finished",
			slog.String("run", runID),
			slog.Int("users", len(users)),
			slog.Int("removed", totalRemoved))
	}
}
