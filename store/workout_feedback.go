package store

// WorkoutFeedback represents post-workout feedback left by the user.
type WorkoutFeedback struct {
	ID              int32
	CreatorID       int32
	WorkoutID       int32
	Rating          int32 // 1-5
	PerceivedEffort int32 // 1-10 RPE
	// Comment is free-text and treated as a sensitive field by the context engine.
	Comment    string
	RecordedTs int64
	CreatedTs  int64
}

// FindWorkoutFeedback specifies the conditions for finding workout feedback.
type FindWorkoutFeedback struct {
	ID             *int32
	CreatorID      *int32
	WorkoutID      *int32
	RecordedAfter  *int64
	RecordedBefore *int64
	Limit          int
	Offset         int
}
