package context

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Config bounds the engine's output.
type Config struct {
	// RecordLimit caps the number of records fetched per category.
	RecordLimit int
	// MemoryLimit caps the number of active memories attached to a context.
	MemoryLimit int
	// ProvenanceWindow is how far back from a memory's creation time the
	// explainer looks for plausible source records.
	ProvenanceWindow time.Duration
}

// DefaultConfig returns the engine defaults used when a field is zero.
func DefaultConfig() Config {
	return Config{
		RecordLimit:      200,
		MemoryLimit:      100,
		ProvenanceWindow: 7 * 24 * time.Hour,
	}
}

// Engine builds context objects and explains memory provenance. It is
// stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	adapters []SourceAdapter
	memories MemoryProvider
	config   Config
}

// NewEngine creates an engine over the given adapters and memory provider.
// Zero config fields fall back to DefaultConfig values.
func NewEngine(adapters []SourceAdapter, memories MemoryProvider, config Config) *Engine {
	defaults := DefaultConfig()
	if config.RecordLimit <= 0 {
		config.RecordLimit = defaults.RecordLimit
	}
	if config.MemoryLimit <= 0 {
		config.MemoryLimit = defaults.MemoryLimit
	}
	if config.ProvenanceWindow <= 0 {
		config.ProvenanceWindow = defaults.ProvenanceWindow
	}
	return &Engine{
		adapters: adapters,
		memories: memories,
		config:   config,
	}
}

// Build assembles the user's context object. Source categories are fetched
// concurrently; a failing category is omitted and listed in Omitted rather
// than failing the build. A memory store failure is fatal: memories are the
// engine's core value and a context without them would be silently wrong.
func (e *Engine) Build(ctx context.Context, userID int32) (*ContextObject, error) {
	object := &ContextObject{
		UserID:     userID,
		BuiltAt:    time.Now(),
		Categories: make(map[string][]*RedactedRecord, len(e.adapters)),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	for _, adapter := range e.adapters {
		adapter := adapter
		group.Go(func() error {
			records, err := adapter.FetchRecent(groupCtx, userID, e.config.RecordLimit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("source category unavailable, omitting from context",
					slog.String("category", adapter.Category()),
					slog.Any("err", err))
				object.Omitted = append(object.Omitted, adapter.Category())
				return nil
			}
			object.Categories[adapter.Category()] = redactAll(records)
			return nil
		})
	}

	group.Go(func() error {
		memories, err := e.memories.ListActive(groupCtx, userID, e.config.MemoryLimit)
		if err != nil {
			return errors.Wrap(err, "failed to list active memories")
		}
		mu.Lock()
		object.Memories = memories
		mu.Unlock()
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(object.Omitted)
	if object.Memories == nil {
		object.Memories = []*Memory{}
	}
	return object, nil
}

// redactAll applies the visibility policy to a fetched batch, dropping
// records the policy withholds.
func redactAll(records []*RawRecord) []*RedactedRecord {
	redacted := make([]*RedactedRecord, 0, len(records))
	for _, record := range records {
		if r, ok := Redact(record); ok {
			redacted = append(redacted, r)
		}
	}
	return redacted
}
