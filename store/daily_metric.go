package store

// DailyMetric represents one day of passively collected health metrics.
// All fields are structural; daily metrics carry no free-text.
type DailyMetric struct {
	ID               int32
	CreatorID        int32
	Steps            int32
	SleepHours       float32
	RestingHeartRate int32
	WeightKg         float32
	RecordedTs       int64
	CreatedTs        int64
}

// FindDailyMetric specifies the conditions for finding daily metrics.
type FindDailyMetric struct {
	ID             *int32
	CreatorID      *int32
	RecordedAfter  *int64
	RecordedBefore *int64
	Limit          int
	Offset         int
}
