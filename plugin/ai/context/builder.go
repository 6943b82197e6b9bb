// Package context assembles a user's personal records and derived memories
// into one bounded, privacy-redacted context object for the downstream
// reasoning consumer. It also answers "why does it know this" questions by
// reconstructing the redacted source records behind a memory.
package context

import (
	"context"
	"time"
)

// Source category names, also used as keys in the context object.
const (
	CategoryWorkouts        = "workouts"
	CategoryDailyMetrics    = "daily_metrics"
	CategoryCheckIns        = "check_ins"
	CategoryWorkoutFeedback = "workout_feedback"
	CategoryDiary           = "diary"
)

// SensitiveValue carries a sensitive free-text field in redacted output.
// Absence is explicit: a withheld value serializes as {"present": false},
// never as an empty string, so downstream consumers can distinguish
// "redacted" from "user wrote nothing".
type SensitiveValue struct {
	Present bool   `json:"present"`
	Value   string `json:"value,omitempty"`
}

// PresentValue returns a sensitive value that passed redaction.
// An empty raw value stays observable as absence.
func PresentValue(v string) SensitiveValue {
	return SensitiveValue{Present: v != "", Value: v}
}

// AbsentValue returns the explicit absence marker for a withheld value.
func AbsentValue() SensitiveValue {
	return SensitiveValue{Present: false}
}

// RawRecord is an adapter's projection of one source record: the owning
// category's name scheme in Name, the record's visibility tag, and its
// fields split into structural and sensitive. Raw records never leave this
// package unredacted.
type RawRecord struct {
	Name       string
	Timestamp  time.Time
	Visibility Visibility
	Structural map[string]any
	Sensitive  map[string]string
}

// RedactedRecord is the context-safe shape of a source record.
type RedactedRecord struct {
	Name       string                    `json:"name"`
	Timestamp  time.Time                 `json:"timestamp"`
	Structural map[string]any            `json:"structural"`
	Sensitive  map[string]SensitiveValue `json:"sensitive,omitempty"`
}

// Memory is the engine's view of a stored derived fact.
type Memory struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	CreatorID int32  `json:"-"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"created_ts"`
	Active    bool   `json:"active"`
}

// ContextObject is the bounded aggregate returned to the reasoning consumer.
// It is recomputed per request and never persisted. Memory content is
// first-party derived data and attached verbatim; everything under
// Categories has passed the visibility policy.
type ContextObject struct {
	UserID     int32                        `json:"user_id"`
	BuiltAt    time.Time                    `json:"built_at"`
	Categories map[string][]*RedactedRecord `json:"categories"`
	Memories   []*Memory                    `json:"memories"`
	// Omitted lists categories dropped because their source failed.
	// A non-empty list marks the context as a partial result.
	Omitted []string `json:"omitted,omitempty"`
}

// ProvenanceResult is the redacted set of source records that plausibly fed
// a memory, bounded by the extraction window around its creation time.
type ProvenanceResult struct {
	MemoryUID   string                       `json:"memory_uid"`
	WindowStart time.Time                    `json:"window_start"`
	WindowEnd   time.Time                    `json:"window_end"`
	Sources     map[string][]*RedactedRecord `json:"sources"`
	Omitted     []string                     `json:"omitted,omitempty"`
}

// SourceAdapter fetches and projects one category of source records.
// Adapters classify fields but never redact; redaction happens in exactly
// one place, the visibility policy.
type SourceAdapter interface {
	Category() string
	// FetchRecent returns up to limit records, most recent first.
	FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error)
	// FetchWindow returns up to limit records within [start, end], most recent first.
	FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error)
}

// MemoryProvider is the engine's access to the durable memory store.
type MemoryProvider interface {
	// ListActive returns memories without a supersession pointer, newest
	// first. Expired memories are excluded even before cleanup removes them.
	ListActive(ctx context.Context, userID int32, limit int) ([]*Memory, error)
	// Get returns a memory by uid regardless of supersession state, or nil.
	// Expired memories are treated as gone.
	Get(ctx context.Context, uid string) (*Memory, error)
	// CleanupExpired removes expired and retention-exceeded historical
	// memories of the user, returning the number removed.
	CleanupExpired(ctx context.Context, userID int32) (int, error)
}
