package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/peakform/peakform/store"
)

func (d *DB) ListWorkoutFeedback(ctx context.Context, find *store.FindWorkoutFeedback) ([]*store.WorkoutFeedback, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}
	if find.WorkoutID != nil {
		where, args = append(where, "workout_id = "+placeholder(len(args)+1)), append(args, *find.WorkoutID)
	}
	if find.RecordedAfter != nil {
		where, args = append(where, "recorded_ts >= "+placeholder(len(args)+1)), append(args, *find.RecordedAfter)
	}
	if find.RecordedBefore != nil {
		where, args = append(where, "recorded_ts <= "+placeholder(len(args)+1)), append(args, *find.RecordedBefore)
	}

	query := `SELECT id, creator_id, workout_id, rating, perceived_effort, comment, recorded_ts, created_ts
		FROM workout_feedback WHERE ` + strings.Join(where, " AND ") + ` ORDER BY recorded_ts DESC, id DESC`

	limit := find.Limit
	if limit > 0 {
		if limit > 1000 {
			limit = 1000
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if find.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", find.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout feedback: %w", err)
	}
	defer rows.Close()

	list := make([]*store.WorkoutFeedback, 0)
	for rows.Next() {
		f := &store.WorkoutFeedback{}
		if err := rows.Scan(
			&f.ID,
			&f.CreatorID,
			&f.WorkoutID,
			&f.Rating,
			&f.PerceivedEffort,
			&f.Comment,
			&f.RecordedTs,
			&f.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workout feedback: %w", err)
		}
		list = append(list, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workout feedback: %w", err)
	}

	return list, nil
}
