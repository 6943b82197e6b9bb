package store

// CheckIn represents a daily subjective wellbeing check-in.
type CheckIn struct {
	ID        int32
	CreatorID int32
	Mood      int32 // 1-10
	Energy    int32 // 1-10
	Stress    int32 // 1-10
	// Comment is free-text and treated as a sensitive field by the context engine.
	Comment    string
	RecordedTs int64
	CreatedTs  int64
}

// FindCheckIn specifies the conditions for finding check-ins.
type FindCheckIn struct {
	ID             *int32
	CreatorID      *int32
	RecordedAfter  *int64
	RecordedBefore *int64
	Limit          int
	Offset         int
}
