package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/peakform/peakform/internal/profile"
	"github.com/peakform/peakform/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	userCache *cache.Cache // cache for users (entitlement lookups)
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		userCache:   cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.userCache.Close()

	return s.driver.Close()
}

// MemoryRetention returns the retention window for historical memories.
func (s *Store) MemoryRetention() time.Duration {
	days := 30
	if s.profile != nil && s.profile.MemoryRetentionDays > 0 {
		days = s.profile.MemoryRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CreateMemory creates a memory row on behalf of the external extraction producer.
func (s *Store) CreateMemory(ctx context.Context, create *CreateMemory) (*Memory, error) {
	memory := &Memory{
		UID:       shortuuid.New(),
		CreatorID: create.CreatorID,
		Content:   create.Content,
		CreatedTs: time.Now().Unix(),
		ExpiresTs: create.ExpiresTs,
	}
	return s.driver.CreateMemory(ctx, memory)
}

// GetMemory gets a memory by find conditions.
func (s *Store) GetMemory(ctx context.Context, find *FindMemory) (*Memory, error) {
	list, err := s.driver.ListMemories(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListMemories lists memories, newest first.
func (s *Store) ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error) {
	return s.driver.ListMemories(ctx, find)
}

// ListActiveMemories lists the user's memories without a supersession pointer,
// newest first.
func (s *Store) ListActiveMemories(ctx context.Context, creatorID int32, limit int) ([]*Memory, error) {
	return s.driver.ListMemories(ctx, &FindMemory{
		CreatorID:  &creatorID,
		ActiveOnly: true,
		Limit:      limit,
	})
}

// SupersedeMemory marks oldID as superseded by newID. The pointer is
// write-once; a second call for the same oldID fails and leaves the original
// pointer unchanged.
func (s *Store) SupersedeMemory(ctx context.Context, oldID, newID int32) error {
	return s.driver.SupersedeMemory(ctx, oldID, newID, time.Now().Unix())
}

// DeleteMemory removes a single memory row. Memories are normally destroyed
// only by the cleanup sweeper; this exists so a failed create-and-supersede
// can roll back the successor instead of leaving an orphan behind.
func (s *Store) DeleteMemory(ctx context.Context, id int32) error {
	return s.driver.DeleteMemory(ctx, id)
}

// CleanupExpiredMemories removes the user's expired memories and historical
// memories past the retention window. Idempotent: with nothing eligible it
// returns 0.
func (s *Store) CleanupExpiredMemories(ctx context.Context, creatorID int32) (int, error) {
	return s.driver.CleanupExpiredMemories(ctx, creatorID, time.Now(), s.MemoryRetention())
}

// ListWorkouts lists workouts, most recent first.
func (s *Store) ListWorkouts(ctx context.Context, find *FindWorkout) ([]*Workout, error) {
	return s.driver.ListWorkouts(ctx, find)
}

// ListDailyMetrics lists daily metrics, most recent first.
func (s *Store) ListDailyMetrics(ctx context.Context, find *FindDailyMetric) ([]*DailyMetric, error) {
	return s.driver.ListDailyMetrics(ctx, find)
}

// ListCheckIns lists check-ins, most recent first.
func (s *Store) ListCheckIns(ctx context.Context, find *FindCheckIn) ([]*CheckIn, error) {
	return s.driver.ListCheckIns(ctx, find)
}

// ListWorkoutFeedback lists workout feedback, most recent first.
func (s *Store) ListWorkoutFeedback(ctx context.Context, find *FindWorkoutFeedback) ([]*WorkoutFeedback, error) {
	return s.driver.ListWorkoutFeedback(ctx, find)
}

// ListDiaryEntries lists diary entries, most recent first.
func (s *Store) ListDiaryEntries(ctx context.Context, find *FindDiaryEntry) ([]*DiaryEntry, error) {
	return s.driver.ListDiaryEntries(ctx, find)
}
