package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakform/peakform/store"
)

func TestMemoryCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)

	userID := int32(1)
	first, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "prefers morning workouts"})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.NotEmpty(t, first.UID)

	second, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "training for a 10k"})
	require.NoError(t, err)

	list, err := s.ListActiveMemories(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first; both created in the same second, so id breaks the tie.
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	// Other users see nothing.
	other, err := s.ListActiveMemories(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemorySupersession(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)

	userID := int32(1)
	a, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "runs twice a week"})
	require.NoError(t, err)
	b, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "runs four times a week"})
	require.NoError(t, err)
	c, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "runs daily"})
	require.NoError(t, err)

	require.NoError(t, s.SupersedeMemory(ctx, a.ID, b.ID))

	t.Run("ListActiveExcludesSuperseded", func(t *testing.T) {
		list, err := s.ListActiveMemories(ctx, userID, 10)
		require.NoError(t, err)
		ids := []int32{}
		for _, m := range list {
			ids = append(ids, m.ID)
		}
		assert.NotContains(t, ids, a.ID)
		assert.Contains(t, ids, b.ID)
		assert.Contains(t, ids, c.ID)
	})

	t.Run("HistoricalMemoryStillReadable", func(t *testing.T) {
		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &a.ID})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.SupersededBy)
		assert.Equal(t, b.ID, *got.SupersededBy)
		assert.NotNil(t, got.SupersededTs)
		assert.False(t, got.IsActive())
	})

	t.Run("WriteOnce", func(t *testing.T) {
		err := s.SupersedeMemory(ctx, a.ID, c.ID)
		require.ErrorIs(t, err, store.ErrMemoryAlreadySuperseded)

		// Original pointer unchanged.
		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &a.ID})
		require.NoError(t, err)
		require.NotNil(t, got.SupersededBy)
		assert.Equal(t, b.ID, *got.SupersededBy)
	})

	t.Run("SelfSupersessionRejected", func(t *testing.T) {
		err := s.SupersedeMemory(ctx, c.ID, c.ID)
		require.Error(t, err)
	})

	t.Run("CycleRejected", func(t *testing.T) {
		// a -> b already; b -> a would close a cycle.
		err := s.SupersedeMemory(ctx, b.ID, a.ID)
		require.Error(t, err)

		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &b.ID})
		require.NoError(t, err)
		assert.True(t, got.IsActive())
	})

	t.Run("CrossUserRejected", func(t *testing.T) {
		foreign, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 2, Content: "someone else's fact"})
		require.NoError(t, err)

		err = s.SupersedeMemory(ctx, c.ID, foreign.ID)
		require.Error(t, err)
	})

	t.Run("MissingMemoryRejected", func(t *testing.T) {
		err := s.SupersedeMemory(ctx, c.ID, 99999)
		require.Error(t, err)
	})

	t.Run("TransitiveCycleRejected", func(t *testing.T) {
		require.NoError(t, s.SupersedeMemory(ctx, b.ID, c.ID))

		// a -> b -> c committed by earlier transactions; pointing c back at a
		// would close the loop. The chain walk runs after both rows are
		// locked, so it always sees pointers committed by other writers.
		err := s.SupersedeMemory(ctx, c.ID, a.ID)
		require.Error(t, err)

		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &c.ID})
		require.NoError(t, err)
		assert.True(t, got.IsActive())
	})
}

func TestMemoryCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)

	userID := int32(1)
	now := time.Now().Unix()
	past := now - 3600

	expired, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "stale", ExpiresTs: &past})
	require.NoError(t, err)
	keeper, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "fresh"})
	require.NoError(t, err)

	count, err := s.CleanupExpiredMemories(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Run("Idempotent", func(t *testing.T) {
		count, err := s.CleanupExpiredMemories(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("ExpiredGone", func(t *testing.T) {
		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &expired.ID})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ActiveKept", func(t *testing.T) {
		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &keeper.ID})
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("HistoricalRemovedPastRetention", func(t *testing.T) {
		old, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "old fact"})
		require.NoError(t, err)
		newer, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: userID, Content: "newer fact"})
		require.NoError(t, err)
		require.NoError(t, s.SupersedeMemory(ctx, old.ID, newer.ID))

		// Within the retention window the historical memory is kept for provenance.
		count, err := s.CleanupExpiredMemories(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		// Past the retention window it is removed. Zero retention makes the
		// cutoff "now" without waiting.
		count, err = s.GetDriver().CleanupExpiredMemories(ctx, userID, time.Now().Add(time.Second), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := s.GetMemory(ctx, &store.FindMemory{ID: &old.ID})
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = s.GetMemory(ctx, &store.FindMemory{ID: &newer.ID})
		require.NoError(t, err)
		require.NotNil(t, got)
	})
}

func TestMemoryEmbeddingRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)

	m, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 1, Content: "enjoys trail running"})
	require.NoError(t, err)

	pending, err := s.FindMemoriesWithoutEmbedding(ctx, &store.FindMemoriesWithoutEmbedding{Model: "test-model", Limit: 10})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, m.ID, pending[0].ID)

	_, err = s.UpsertMemoryEmbedding(ctx, &store.MemoryEmbedding{
		MemoryID:  m.ID,
		Embedding: []float32{0.1, 0.2, 0.3},
		Model:     "test-model",
	})
	require.NoError(t, err)

	pending, err = s.FindMemoriesWithoutEmbedding(ctx, &store.FindMemoriesWithoutEmbedding{Model: "test-model", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, pending)

	list, err := s.ListMemoryEmbeddings(ctx, &store.FindMemoryEmbedding{MemoryID: &m.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, list[0].Embedding)

	// Vector search is a PostgreSQL-only feature.
	_, err = s.SearchMemoriesByVector(ctx, &store.VectorSearchOptions{CreatorID: 1, Vector: []float32{0.1, 0.2, 0.3}})
	require.ErrorIs(t, err, store.ErrVectorSearchNotSupported)
}
