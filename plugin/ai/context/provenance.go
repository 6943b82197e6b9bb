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

// ErrMemoryNotFound is returned by Explain when the memory does not exist,
// has expired, or belongs to another user. The three cases are deliberately
// indistinguishable: a distinct "forbidden" answer would confirm that the
// memory id exists.
var ErrMemoryNotFound = errors.New("memory not found")

// Explain reconstructs the redacted source records that plausibly fed the
// given memory: every record in the extraction window ending at the memory's
// creation time. Works for historical memories too, as long as they survive
// retention. Redaction uses the record's current visibility tag, so a record
// hidden after extraction no longer appears in its own provenance.
func (e *Engine) Explain(ctx context.Context, userID int32, memoryUID string) (*ProvenanceResult, error) {
	memory, err := e.memories.Get(ctx, memoryUID)
	if err != nil {
		return nil, err
	}
	if memory == nil || memory.CreatorID != userID {
		return nil, ErrMemoryNotFound
	}

	end := time.Unix(memory.CreatedTs, 0)
	start := end.Add(-e.config.ProvenanceWindow)

	result := &ProvenanceResult{
		MemoryUID:   memory.UID,
		WindowStart: start,
		WindowEnd:   end,
		Sources:     make(map[string][]*RedactedRecord, len(e.adapters)),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	for _, adapter := range e.adapters {
		adapter := adapter
		group.Go(func() error {
			records, err := adapter.FetchWindow(groupCtx, userID, start, end, e.config.RecordLimit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("source category unavailable, omitting from provenance",
					slog.String("category", adapter.Category()),
					slog.Any("err", err))
				result.Omitted = append(result.Omitted, adapter.Category())
				return nil
			}
			result.Sources[adapter.Category()] = redactAll(records)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Omitted)
	return result, nil
}
