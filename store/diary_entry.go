package store

// Visibility is the per-record privacy classification controlling how much of
// a record the AI context engine may see. Diary entries carry it explicitly;
// other record types are implicitly FULL_ACCESS.
type Visibility string

const (
	// FullAccess passes structural and sensitive fields through unchanged.
	FullAccess Visibility = "FULL_ACCESS"
	// MetricsOnly passes structural fields through and withholds sensitive fields.
	MetricsOnly Visibility = "METRICS_ONLY"
	// Hidden drops the record from AI context entirely.
	Hidden Visibility = "HIDDEN"
)

func (v Visibility) String() string {
	return string(v)
}

// DiaryEntry represents a free-form diary entry with an explicit visibility tag.
type DiaryEntry struct {
	ID        int32
	UID       string
	CreatorID int32
	// Content is free-text and treated as a sensitive field by the context engine.
	Content    string
	Mood       int32 // 1-10, optional 0 when unset
	Visibility Visibility
	EntryTs    int64
	CreatedTs  int64
}

// FindDiaryEntry specifies the conditions for finding diary entries.
type FindDiaryEntry struct {
	ID          *int32
	UID         *string
	CreatorID   *int32
	EntryAfter  *int64
	EntryBefore *int64
	Limit       int
	Offset      int
}
