package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/peakform/peakform/store"
)

func (d *DB) ListDiaryEntries(ctx context.Context, find *store.FindDiaryEntry) ([]*store.DiaryEntry, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}
	if find.EntryAfter != nil {
		where, args = append(where, "entry_ts >= "+placeholder(len(args)+1)), append(args, *find.EntryAfter)
	}
	if find.EntryBefore != nil {
		where, args = append(where, "entry_ts <= "+placeholder(len(args)+1)), append(args, *find.EntryBefore)
	}

	query := `SELECT id, uid, creator_id, content, mood, visibility, entry_ts, created_ts
		FROM diary_entry WHERE ` + strings.Join(where, " AND ") + ` ORDER BY entry_ts DESC, id DESC`

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
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	defer rows.Close()

	list := make([]*store.DiaryEntry, 0)
	for rows.Next() {
		e := &store.DiaryEntry{}
		if err := rows.Scan(
			&e.ID,
			&e.UID,
			&e.CreatorID,
			&e.Content,
			&e.Mood,
			&e.Visibility,
			&e.EntryTs,
			&e.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diary entries: %w", err)
	}

	return list, nil
}
