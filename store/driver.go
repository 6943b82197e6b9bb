package store

import (
	"context"
	"database/sql"
	"time"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Memory model related methods.
	CreateMemory(ctx context.Context, create *Memory) (*Memory, error)
	ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error)
	// SupersedeMemory sets the supersession pointer of oldID to newID inside a
	// single transaction. It fails when the pointer is already set (write-once),
	// when the memories belong to different users, or when pointing oldID to
	// newID would close a supersession cycle.
	SupersedeMemory(ctx context.Context, oldID, newID int32, supersededTs int64) error
	// CleanupExpiredMemories deletes, in one transaction, all memories of the
	// user that are past expiration plus all historical memories superseded
	// before the retention cutoff. Returns the number of rows removed.
	CleanupExpiredMemories(ctx context.Context, creatorID int32, now time.Time, retention time.Duration) (int, error)
	// DeleteMemory removes a single memory row. Not exposed over the API;
	// used to roll back the successor of a failed create-and-supersede.
	DeleteMemory(ctx context.Context, id int32) error

	// MemoryEmbedding model related methods.
	UpsertMemoryEmbedding(ctx context.Context, embedding *MemoryEmbedding) (*MemoryEmbedding, error)
	ListMemoryEmbeddings(ctx context.Context, find *FindMemoryEmbedding) ([]*MemoryEmbedding, error)
	FindMemoriesWithoutEmbedding(ctx context.Context, find *FindMemoriesWithoutEmbedding) ([]*Memory, error)
	SearchMemoriesByVector(ctx context.Context, opts *VectorSearchOptions) ([]*MemoryWithScore, error)

	// Source record related methods. All list methods return most-recent-first.
	ListWorkouts(ctx context.Context, find *FindWorkout) ([]*Workout, error)
	ListDailyMetrics(ctx context.Context, find *FindDailyMetric) ([]*DailyMetric, error)
	ListCheckIns(ctx context.Context, find *FindCheckIn) ([]*CheckIn, error)
	ListWorkoutFeedback(ctx context.Context, find *FindWorkoutFeedback) ([]*WorkoutFeedback, error)
	ListDiaryEntries(ctx context.Context, find *FindDiaryEntry) ([]*DiaryEntry, error)

	// User model related methods.
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
}
