package context

import (
	"context"
	"fmt"
	"time"

	"github.com/peakform/peakform/store"
)

// Store-backed adapters, one per source record type. Each adapter knows how
// to fetch its category most-recent-first and how to split a record into
// structural and sensitive fields. None of them touches the visibility
// policy; they only report the record's tag.

// NewStoreAdapters returns the full adapter set over the given store.
func NewStoreAdapters(s *store.Store) []SourceAdapter {
	return []SourceAdapter{
		&WorkoutAdapter{store: s},
		&DailyMetricAdapter{store: s},
		&CheckInAdapter{store: s},
		&WorkoutFeedbackAdapter{store: s},
		&DiaryAdapter{store: s},
	}
}

// WorkoutAdapter projects logged training sessions.
type WorkoutAdapter struct {
	store *store.Store
}

func (a *WorkoutAdapter) Category() string {
	return CategoryWorkouts
}

func (a *WorkoutAdapter) FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error) {
	return a.fetch(ctx, &store.FindWorkout{CreatorID: &userID, Limit: limit})
}

func (a *WorkoutAdapter) FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	startTs, endTs := start.Unix(), end.Unix()
	return a.fetch(ctx, &store.FindWorkout{
		CreatorID:       &userID,
		PerformedAfter:  &startTs,
		PerformedBefore: &endTs,
		Limit:           limit,
	})
}

func (a *WorkoutAdapter) fetch(ctx context.Context, find *store.FindWorkout) ([]*RawRecord, error) {
	workouts, err := a.store.ListWorkouts(ctx, find)
	if err != nil {
		return nil, err
	}

	records := make([]*RawRecord, 0, len(workouts))
	for _, w := range workouts {
		records = append(records, &RawRecord{
			Name:       fmt.Sprintf("%s/%s", CategoryWorkouts, w.UID),
			Timestamp:  time.Unix(w.PerformedTs, 0),
			Visibility: FullAccess,
			Structural: map[string]any{
				"kind":             w.Kind,
				"duration_seconds": w.DurationSeconds,
				"distance_meters":  w.DistanceMeters,
				"intensity":        w.Intensity,
			},
			Sensitive: map[string]string{
				"notes": w.Notes,
			},
		})
	}
	return records, nil
}

// DailyMetricAdapter projects passively collected daily health metrics.
// Metrics carry no free-text, so the sensitive field set is empty.
type DailyMetricAdapter struct {
	store *store.Store
}

func (a *DailyMetricAdapter) Category() string {
	return CategoryDailyMetrics
}

func (a *DailyMetricAdapter) FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error) {
	return a.fetch(ctx, &store.FindDailyMetric{CreatorID: &userID, Limit: limit})
}

func (a *DailyMetricAdapter) FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	startTs, endTs := start.Unix(), end.Unix()
	return a.fetch(ctx, &store.FindDailyMetric{
		CreatorID:      &userID,
		RecordedAfter:  &startTs,
		RecordedBefore: &endTs,
		Limit:          limit,
	})
}

func (a *DailyMetricAdapter) fetch(ctx context.Context, find *store.FindDailyMetric) ([]*RawRecord, error) {
	metrics, err := a.store.ListDailyMetrics(ctx, find)
	if err != nil {
		return nil, err
	}

	records := make([]*RawRecord, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, &RawRecord{
			Name:       fmt.Sprintf("%s/%d", CategoryDailyMetrics, m.ID),
			Timestamp:  time.Unix(m.RecordedTs, 0),
			Visibility: FullAccess,
			Structural: map[string]any{
				"steps":              m.Steps,
				"sleep_hours":        m.SleepHours,
				"resting_heart_rate": m.RestingHeartRate,
				"weight_kg":          m.WeightKg,
			},
		})
	}
	return records, nil
}

// CheckInAdapter projects daily subjective wellbeing check-ins.
type CheckInAdapter struct {
	store *store.Store
}

func (a *CheckInAdapter) Category() string {
	return CategoryCheckIns
}

func (a *CheckInAdapter) FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error) {
	return a.fetch(ctx, &store.FindCheckIn{CreatorID: &userID, Limit: limit})
}

func (a *CheckInAdapter) FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	startTs, endTs := start.Unix(), end.Unix()
	return a.fetch(ctx, &store.FindCheckIn{
		CreatorID:      &userID,
		RecordedAfter:  &startTs,
		RecordedBefore: &endTs,
		Limit:          limit,
	})
}

func (a *CheckInAdapter) fetch(ctx context.Context, find *store.FindCheckIn) ([]*RawRecord, error) {
	checkins, err := a.store.ListCheckIns(ctx, find)
	if err != nil {
		return nil, err
	}

	records := make([]*RawRecord, 0, len(checkins))
	for _, c := range checkins {
		records = append(records, &RawRecord{
			Name:       fmt.Sprintf("%s/%d", CategoryCheckIns, c.ID),
			Timestamp:  time.Unix(c.RecordedTs, 0),
			Visibility: FullAccess,
			Structural: map[string]any{
				"mood":   c.Mood,
				"energy": c.Energy,
				"stress": c.Stress,
			},
			Sensitive: map[string]string{
				"comment": c.Comment,
			},
		})
	}
	return records, nil
}

// WorkoutFeedbackAdapter projects post-workout feedback.
type WorkoutFeedbackAdapter struct {
	store *store.Store
}

func (a *WorkoutFeedbackAdapter) Category() string {
	return CategoryWorkoutFeedback
}

func (a *WorkoutFeedbackAdapter) FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error) {
	return a.fetch(ctx, &store.FindWorkoutFeedback{CreatorID: &userID, Limit: limit})
}

func (a *WorkoutFeedbackAdapter) FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	startTs, endTs := start.Unix(), end.Unix()
	return a.fetch(ctx, &store.FindWorkoutFeedback{
		CreatorID:      &userID,
		RecordedAfter:  &startTs,
		RecordedBefore: &endTs,
		Limit:          limit,
	})
}

func (a *WorkoutFeedbackAdapter) fetch(ctx context.Context, find *store.FindWorkoutFeedback) ([]*RawRecord, error) {
	feedback, err := a.store.ListWorkoutFeedback(ctx, find)
	if err != nil {
		return nil, err
	}

	records := make([]*RawRecord, 0, len(feedback))
	for _, f := range feedback {
		records = append(records, &RawRecord{
			Name:       fmt.Sprintf("%s/%d", CategoryWorkoutFeedback, f.ID),
			Timestamp:  time.Unix(f.RecordedTs, 0),
			Visibility: FullAccess,
			Structural: map[string]any{
				"workout_id":       f.WorkoutID,
				"rating":           f.Rating,
				"perceived_effort": f.PerceivedEffort,
			},
			Sensitive: map[string]string{
				"comment": f.Comment,
			},
		})
	}
	return records, nil
}

// DiaryAdapter projects free-form diary entries. Diary entries are the one
// record type with an explicit per-record visibility tag.
type DiaryAdapter struct {
	store *store.Store
}

func (a *DiaryAdapter) Category() string {
	return CategoryDiary
}

func (a *DiaryAdapter) FetchRecent(ctx context.Context, userID int32, limit int) ([]*RawRecord, error) {
	return a.fetch(ctx, &store.FindDiaryEntry{CreatorID: &userID, Limit: limit})
}

func (a *DiaryAdapter) FetchWindow(ctx context.Context, userID int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	startTs, endTs := start.Unix(), end.Unix()
	return a.fetch(ctx, &store.FindDiaryEntry{
		CreatorID:   &userID,
		EntryAfter:  &startTs,
		EntryBefore: &endTs,
		Limit:       limit,
	})
}

func (a *DiaryAdapter) fetch(ctx context.Context, find *store.FindDiaryEntry) ([]*RawRecord, error) {
	entries, err := a.store.ListDiaryEntries(ctx, find)
	if err != nil {
		return nil, err
	}

	records := make([]*RawRecord, 0, len(entries))
	for _, e := range entries {
		structural := map[string]any{}
		if e.Mood > 0 {
			structural["mood"] = e.Mood
		}
		records = append(records, &RawRecord{
			Name:       fmt.Sprintf("%s/%s", CategoryDiary, e.UID),
			Timestamp:  time.Unix(e.EntryTs, 0),
			Visibility: Visibility(e.Visibility),
			Structural: structural,
			Sensitive: map[string]string{
				"content": e.Content,
			},
		})
	}
	return records, nil
}
