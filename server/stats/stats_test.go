package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakform/peakform/store"
	storetest "github.com/peakform/peakform/store/test"
)

func TestCollect(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewTestingStore(ctx, t)

	first, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 1, Content: "a"})
	require.NoError(t, err)
	second, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 1, Content: "b"})
	require.NoError(t, err)
	require.NoError(t, s.SupersedeMemory(ctx, first.ID, second.ID))

	future := time.Now().Add(time.Hour).Unix()
	_, err = s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 1, Content: "c", ExpiresTs: &future})
	require.NoError(t, err)

	collector := NewCollector(s)
	collector.Collect(ctx)
	stats := collector.GetStats()

	assert.Equal(t, int64(3), stats.TotalMemories)
	assert.Equal(t, int64(2), stats.ActiveMemories)
	assert.Equal(t, int64(1), stats.HistoricalMemories)
	assert.Equal(t, int64(1), stats.ExpiringMemories)
	assert.Equal(t, int64(3), stats.MemoriesLastWeek)
	assert.False(t, stats.LastUpdated.IsZero())
}
