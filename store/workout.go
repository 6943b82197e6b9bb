package store

// Workout represents a logged training session.
type Workout struct {
	ID              int32
	UID             string
	CreatorID       int32
	Kind            string // run/ride/strength/yoga/...
	DurationSeconds int32
	DistanceMeters  int32
	Intensity       int32 // 1-10 subjective intensity
	PerformedTs     int64
	// Notes is free-text and treated as a sensitive field by the context engine.
	Notes     string
	CreatedTs int64
}

// FindWorkout specifies the conditions for finding workouts.
type FindWorkout struct {
	ID        *int32
	CreatorID *int32
	Kind      *string
	// PerformedAfter/PerformedBefore bound performed_ts (inclusive).
	PerformedAfter  *int64
	PerformedBefore *int64
	Limit           int
	Offset          int
}
