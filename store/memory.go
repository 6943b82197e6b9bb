package store

import (
	"errors"
	"time"
)

// ErrMemoryAlreadySuperseded is returned when superseding a memory whose
// supersession pointer is already set. The pointer is write-once; the
// original pointer is left unchanged.
var ErrMemoryAlreadySuperseded = errors.New("memory already superseded")

// Memory represents a durable derived fact about a user, produced by the
// external extraction process. A memory is active while SupersededBy is nil;
// once superseded it becomes historical and is kept for provenance until the
// cleanup sweeper removes it.
type Memory struct {
	ID        int32
	UID       string
	CreatorID int32
	Content   string
	CreatedTs int64
	// ExpiresTs is the optional expiration timestamp (unix seconds).
	ExpiresTs *int64
	// SupersededBy points to the memory that replaces this one.
	// Write-once: set exactly once when the memory transitions to historical.
	SupersededBy *int32
	// SupersededTs records when the supersession pointer was set.
	SupersededTs *int64
}

// IsActive returns true if the memory has not been superseded.
func (m *Memory) IsActive() bool {
	return m.SupersededBy == nil
}

// IsExpired returns true if the memory has an expiration timestamp in the past.
func (m *Memory) IsExpired(now time.Time) bool {
	return m.ExpiresTs != nil && *m.ExpiresTs <= now.Unix()
}

// FindMemory specifies the conditions for finding memories.
type FindMemory struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	// ActiveOnly filters to memories without a supersession pointer.
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CreateMemory is the creation payload for a memory row.
type CreateMemory struct {
	CreatorID int32
	Content   string
	ExpiresTs *int64
}
