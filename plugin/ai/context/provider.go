package context

import (
	"context"
	"time"

	"github.com/peakform/peakform/store"
)

// storeMemoryProvider adapts *store.Store to the MemoryProvider interface.
type storeMemoryProvider struct {
	store *store.Store
}

// NewStoreMemoryProvider returns a MemoryProvider backed by the given store.
func NewStoreMemoryProvider(s *store.Store) MemoryProvider {
	return &storeMemoryProvider{store: s}
}

func (p *storeMemoryProvider) ListActive(ctx context.Context, userID int32, limit int) ([]*Memory, error) {
	list, err := p.store.ListActiveMemories(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	memories := make([]*Memory, 0, len(list))
	for _, m := range list {
		// The sweeper removes expired rows eventually; until it runs they
		// must still not surface.
		if m.IsExpired(now) {
			continue
		}
		memories = append(memories, toMemoryView(m))
	}
	return memories, nil
}

func (p *storeMemoryProvider) Get(ctx context.Context, uid string) (*Memory, error) {
	m, err := p.store.GetMemory(ctx, &store.FindMemory{UID: &uid})
	if err != nil {
		return nil, err
	}
	if m == nil || m.IsExpired(time.Now()) {
		return nil, nil
	}
	return toMemoryView(m), nil
}

func (p *storeMemoryProvider) CleanupExpired(ctx context.Context, userID int32) (int, error) {
	return p.store.CleanupExpiredMemories(ctx, userID)
}

func toMemoryView(m *store.Memory) *Memory {
	return &Memory{
		ID:        m.ID,
		UID:       m.UID,
		CreatorID: m.CreatorID,
		Content:   m.Content,
		CreatedTs: m.CreatedTs,
		Active:    m.IsActive(),
	}
}
