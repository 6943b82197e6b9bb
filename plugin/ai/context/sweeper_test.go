package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepUser(t *testing.T) {
	ctx := context.Background()
	provider := &fakeMemoryProvider{cleaned: 3}
	sweeper := NewSweeper(provider)

	removed, err := sweeper.SweepUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	// Nothing eligible on the second pass.
	removed, err = sweeper.SweepUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
