package context

import (
	"context"
	"log/slog"
)

// Sweeper removes expired memories and historical memories past the
// retention window. It operates per user so a failure for one user never
// blocks cleanup for the rest.
type Sweeper struct {
	memories MemoryProvider
}

// NewSweeper creates a sweeper over the given memory provider.
func NewSweeper(memories MemoryProvider) *Sweeper {
	return &Sweeper{memories: memories}
}

// SweepUser runs one cleanup pass for a single user and returns the number
// of memories removed. Idempotent: a second immediate pass removes nothing.
func (s *Sweeper) SweepUser(ctx context.Context, userID int32) (int, error) {
	removed, err := s.memories.CleanupExpired(ctx, userID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		slog.Info("memory cleanup pass removed rows",
			slog.Int("user", int(userID)),
			slog.Int("removed", removed))
	}
	return removed, nil
}
