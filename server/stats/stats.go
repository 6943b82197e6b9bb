// Package stats provides simple local usage statistics for the memory
// engine. This is a lightweight alternative to enterprise monitoring.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/peakform/peakform/store"
)

// Stats represents engine usage statistics.
type Stats struct {
	// Memory stats
	TotalMemories      int64
	ActiveMemories     int64
	HistoricalMemories int64
	ExpiringMemories   int64 // active memories with an expiration set
	MemoriesLastWeek   int64

	// Source record stats
	TotalWorkouts     int64
	TotalDiaryEntries int64
	TotalCheckIns     int64

	// Timestamp
	LastUpdated time.Time
}

// Collector collects and manages usage statistics.
type Collector struct {
	store    *store.Store
	stats    *Stats
	mu       sync.Mutex
	tickStop chan struct{}
}

// NewCollector creates a new statistics collector.
func NewCollector(st *store.Store) *Collector {
	return &Collector{
		store: st,
		stats: &Stats{
			LastUpdated: time.Now(),
		},
		tickStop: make(chan struct{}),
	}
}

// Start begins periodic statistics collection.
// Updates every hour.
func (c *Collector) Start(ctx context.Context) {
	// Initial collection
	c.Collect(ctx)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the statistics collector.
func (c *Collector) Stop() {
	select {
	case <-c.tickStop:
		// Already closed
	default:
		close(c.tickStop)
	}
}

// GetStats returns a copy of current statistics.
func (c *Collector) GetStats() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := *c.stats
	return &snapshot
}

// Collect gathers current statistics from the store.
func (c *Collector) Collect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	memories, err := c.store.ListMemories(ctx, &store.FindMemory{})
	if err == nil {
		c.stats.TotalMemories = int64(len(memories))

		active := int64(0)
		historical := int64(0)
		expiring := int64(0)
		lastWeek := int64(0)
		for _, m := range memories {
			if m.IsActive() {
				active++
				if m.ExpiresTs != nil {
					expiring++
				}
			} else {
				historical++
			}
			if !time.Unix(m.CreatedTs, 0).Before(weekAgo) {
				lastWeek++
			}
		}
		c.stats.ActiveMemories = active
		c.stats.HistoricalMemories = historical
		c.stats.ExpiringMemories = expiring
		c.stats.MemoriesLastWeek = lastWeek
	}

	if workouts, err := c.store.ListWorkouts(ctx, &store.FindWorkout{}); err == nil {
		c.stats.TotalWorkouts = int64(len(workouts))
	}
	if entries, err := c.store.ListDiaryEntries(ctx, &store.FindDiaryEntry{}); err == nil {
		c.stats.TotalDiaryEntries = int64(len(entries))
	}
	if checkins, err := c.store.ListCheckIns(ctx, &store.FindCheckIn{}); err == nil {
		c.stats.TotalCheckIns = int64(len(checkins))
	}

	c.stats.LastUpdated = now
}
