package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/peakform/peakform/store"
)

func (d *DB) ListCheckIns(ctx context.Context, find *store.FindCheckIn) ([]*store.CheckIn, error) {
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
	if find.RecordedAfter != nil {
		where, args = append(where, "recorded_ts >= "+placeholder(len(args)+1)), append(args, *find.RecordedAfter)
	}
	if find.RecordedBefore != nil {
		where, args = append(where, "recorded_ts <= "+placeholder(len(args)+1)), append(args, *find.RecordedBefore)
	}

	query := `SELECT id, creator_id, mood, energy, stress, comment, recorded_ts, created_ts
		FROM checkin WHERE ` + strings.Join(where, " AND ") + ` ORDER BY recorded_ts DESC, id DESC`

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
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CheckIn, 0)
	for rows.Next() {
		c := &store.CheckIn{}
		if err := rows.Scan(
			&c.ID,
			&c.CreatorID,
			&c.Mood,
			&c.Energy,
			&c.Stress,
			&c.Comment,
			&c.RecordedTs,
			&c.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-ins: %w", err)
	}

	return list, nil
}
