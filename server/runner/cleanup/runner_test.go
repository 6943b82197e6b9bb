package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakform/peakform/store"
	storetest "github.com/peakform/peakform/store/test"
)

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewTestingStore(ctx, t)

	_, err := s.GetDriver().GetDB().Exec(
		`INSERT INTO "user" (username) VALUES ('alice'), ('bob')`)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Unix()
	stale, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 1, Content: "stale", ExpiresTs: &past})
	require.NoError(t, err)
	keeper, err := s.CreateMemory(ctx, &store.CreateMemory{CreatorID: 2, Content: "fresh"})
	require.NoError(t, err)

	runner := NewRunner(s)
	runner.RunOnce(ctx)

	got, err := s.GetMemory(ctx, &store.FindMemory{ID: &stale.ID})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetMemory(ctx, &store.FindMemory{ID: &keeper.ID})
	require.NoError(t, err)
	require.NotNil(t, got)

	// Second pass removes nothing.
	runner.RunOnce(ctx)
	got, err = s.GetMemory(ctx, &store.FindMemory{ID: &keeper.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
}
