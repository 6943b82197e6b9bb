package context

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(name string, visibility Visibility, ts time.Time) *RawRecord {
	return &RawRecord{
		Name:       name,
		Timestamp:  ts,
		Visibility: visibility,
		Structural: map[string]any{"n": 1},
		Sensitive:  map[string]string{"notes": "text"},
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	adapters := []SourceAdapter{
		&fakeAdapter{category: CategoryWorkouts, records: []*RawRecord{
			testRecord("workouts/a", FullAccess, now),
			testRecord("workouts/b", FullAccess, now.Add(-time.Hour)),
		}},
		&fakeAdapter{category: CategoryDiary, records: []*RawRecord{
			testRecord("diary/open", FullAccess, now),
			testRecord("diary/quiet", MetricsOnly, now),
			testRecord("diary/secret", Hidden, now),
		}},
	}
	memories := &fakeMemoryProvider{memories: []*Memory{
		{ID: 2, UID: "m2", CreatorID: 7, Content: "prefers mornings", Active: true},
		{ID: 1, UID: "m1", CreatorID: 7, Content: "old fact", Active: false},
		{ID: 3, UID: "m3", CreatorID: 8, Content: "someone else", Active: true},
	}}

	engine := NewEngine(adapters, memories, Config{})
	object, err := engine.Build(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, int32(7), object.UserID)
	assert.Empty(t, object.Omitted)
	assert.Len(t, object.Categories[CategoryWorkouts], 2)
	// Hidden diary entry dropped; the other two survive redaction.
	assert.Len(t, object.Categories[CategoryDiary], 2)

	require.Len(t, object.Memories, 1)
	assert.Equal(t, "m2", object.Memories[0].UID)
}

func TestBuildPartialOnSourceFailure(t *testing.T) {
	ctx := context.Background()

	adapters := []SourceAdapter{
		&fakeAdapter{category: CategoryWorkouts, records: []*RawRecord{
			testRecord("workouts/a", FullAccess, time.Now()),
		}},
		&fakeAdapter{category: CategoryDailyMetrics, err: errors.New("connection refused")},
	}
	engine := NewEngine(adapters, &fakeMemoryProvider{}, Config{})

	object, err := engine.Build(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{CategoryDailyMetrics}, object.Omitted)
	assert.Len(t, object.Categories[CategoryWorkouts], 1)
	_, fetched := object.Categories[CategoryDailyMetrics]
	assert.False(t, fetched)
}

func TestBuildFailsOnMemoryStoreError(t *testing.T) {
	ctx := context.Background()

	adapters := []SourceAdapter{
		&fakeAdapter{category: CategoryWorkouts},
	}
	memories := &fakeMemoryProvider{listErr: errors.New("database is locked")}
	engine := NewEngine(adapters, memories, Config{})

	_, err := engine.Build(ctx, 7)
	require.Error(t, err)
}

func TestBuildRespectsRecordLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	records := []*RawRecord{}
	for i := 0; i < 10; i++ {
		records = append(records, testRecord("workouts/x", FullAccess, now))
	}
	adapters := []SourceAdapter{
		&fakeAdapter{category: CategoryWorkouts, records: records},
	}
	engine := NewEngine(adapters, &fakeMemoryProvider{}, Config{RecordLimit: 3})

	object, err := engine.Build(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, object.Categories[CategoryWorkouts], 3)
}

func TestBuildEmptyUser(t *testing.T) {
	ctx := context.Background()

	engine := NewEngine([]SourceAdapter{
		&fakeAdapter{category: CategoryWorkouts},
	}, &fakeMemoryProvider{}, Config{})

	object, err := engine.Build(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, object.Memories)
	assert.Empty(t, object.Memories)
	assert.Empty(t, object.Categories[CategoryWorkouts])
}
