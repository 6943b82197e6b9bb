// Package embedding implements the background vector backfill: memories
// created without an embedding get one asynchronously, enabling semantic
// search without blocking the producer write path.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peakform/peakform/plugin/ai"
	"github.com/peakform/peakform/store"
)

type Runner struct {
	store            *store.Store
	embeddingService ai.EmbeddingService
	interval         time.Duration
	batchSize        int
	model            string
}

// NewRunner creates a vector embedding runner. Small batches keep memory
// peaks low; the interval keeps API pressure on the provider modest.
func NewRunner(s *store.Store, embeddingService ai.EmbeddingService, model string) *Runner {
	return &Runner{
		store:            s,
		embeddingService: embeddingService,
		interval:         2 * time.Minute,
		batchSize:        8,
		model:            model,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes pending memories once (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	memories, err := r.store.FindMemoriesWithoutEmbedding(ctx, &store.FindMemoriesWithoutEmbedding{
		Model: r.model,
		Limit: r.batchSize * 20, // Fetch more, process in small batches
	})
	if err != nil {
		slog.Error("failed to find memories without embedding", "error", err)
		return
	}
	if len(memories) == 0 {
		return
	}

	slog.Info("processing memories for embedding", "count", len(memories))

	for i := 0; i < len(memories); i += r.batchSize {
		select {
		case <-ctx.Done():
			slog.Info("embedding processing cancelled", "processed", i, "total", len(memories))
			return
		default:
		}

		end := i + r.batchSize
		if end > len(memories) {
			end = len(memories)
		}
		batch := memories[i:end]

		if err := r.processBatch(ctx, batch); err != nil {
			slog.Error("failed to process batch", "error", err)
			continue
		}
		slog.Info("batch processed", "count", len(batch), "progress", fmt.Sprintf("%d/%d", end, len(memories)))
	}
}

func (r *Runner) processBatch(ctx context.Context, memories []*store.Memory) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	texts := make([]string, len(memories))
	for i, m := range memories {
		texts[i] = m.Content
	}

	vectors, err := r.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	for i, m := range memories {
		_, err := r.store.UpsertMemoryEmbedding(ctx, &store.MemoryEmbedding{
			MemoryID:  m.ID,
			Embedding: vectors[i],
			Model:     r.model,
		})
		if err != nil {
			slog.Error("failed to upsert embedding", "memoryID", m.ID, "error", err)
		}
	}
	return nil
}
