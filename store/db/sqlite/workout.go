package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/peakform/peakform/store"
)

func (d *DB) ListWorkouts(ctx context.Context, find *store.FindWorkout) ([]*store.Workout, error) {
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
	if find.Kind != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *find.Kind)
	}
	if find.PerformedAfter != nil {
		where, args = append(where, "performed_ts >= "+placeholder(len(args)+1)), append(args, *find.PerformedAfter)
	}
	if find.PerformedBefore != nil {
		where, args = append(where, "performed_ts <= "+placeholder(len(args)+1)), append(args, *find.PerformedBefore)
	}

	query := `SELECT id, uid, creator_id, kind, duration_seconds, distance_meters, intensity, performed_ts, notes, created_ts
		FROM workout WHERE ` + strings.Join(where, " AND ") + ` ORDER BY performed_ts DESC, id DESC`

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
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Workout, 0)
	for rows.Next() {
		w := &store.Workout{}
		if err := rows.Scan(
			&w.ID,
			&w.UID,
			&w.CreatorID,
			&w.Kind,
			&w.DurationSeconds,
			&w.DistanceMeters,
			&w.Intensity,
			&w.PerformedTs,
			&w.Notes,
			&w.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		list = append(list, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workouts: %w", err)
	}

	return list, nil
}
