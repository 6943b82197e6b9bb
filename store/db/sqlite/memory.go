package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/peakform/peakform/store"
)

func (d *DB) CreateMemory(ctx context.Context, create *store.Memory) (*store.Memory, error) {
	fields := []string{"uid", "creator_id", "content", "created_ts", "expires_ts"}

	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	args := []any{
		create.UID,
		create.CreatorID,
		create.Content,
		create.CreatedTs,
		create.ExpiresTs,
	}

	stmt := `INSERT INTO memory (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	return create, nil
}

func (d *DB) ListMemories(ctx context.Context, find *store.FindMemory) ([]*store.Memory, error) {
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
	if find.ActiveOnly {
		where = append(where, "superseded_by IS NULL")
	}

	query := `SELECT id, uid, creator_id, content, created_ts, expires_ts, superseded_by, superseded_ts
		FROM memory WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`

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
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Memory, 0)
	for rows.Next() {
		m := &store.Memory{}
		if err := rows.Scan(
			&m.ID,
			&m.UID,
			&m.CreatorID,
			&m.Content,
			&m.CreatedTs,
			&m.ExpiresTs,
			&m.SupersededBy,
			&m.SupersededTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		list = append(list, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memories: %w", err)
	}

	return list, nil
}

func (d *DB) SupersedeMemory(ctx context.Context, oldID, newID int32, supersededTs int64) error {
	if oldID == newID {
		return fmt.Errorf("memory cannot supersede itself")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite has no row locks. Touch both rows first so the transaction takes
	// the database write lock before any read; concurrent supersessions
	// serialize here and the chain walk below always sees committed state.
	if _, err := tx.ExecContext(ctx,
		"UPDATE memory SET superseded_ts = superseded_ts WHERE id IN (?, ?)", oldID, newID); err != nil {
		return fmt.Errorf("failed to lock memories: %w", err)
	}

	var oldCreator, newCreator int32
	if err := tx.QueryRowContext(ctx, "SELECT creator_id FROM memory WHERE id = ?", oldID).Scan(&oldCreator); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("memory %d not found", oldID)
		}
		return fmt.Errorf("failed to load memory %d: %w", oldID, err)
	}
	if err := tx.QueryRowContext(ctx, "SELECT creator_id FROM memory WHERE id = ?", newID).Scan(&newCreator); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("memory %d not found", newID)
		}
		return fmt.Errorf("failed to load memory %d: %w", newID, err)
	}
	if oldCreator != newCreator {
		return fmt.Errorf("memories belong to different users")
	}

	// Supersession pointers must stay a forward-only chain. Walking the chain
	// from the new memory must never reach the old one.
	var cycle bool
	cycleQuery := `WITH RECURSIVE chain AS (
			SELECT id, superseded_by FROM memory WHERE id = ?
			UNION ALL
			SELECT m.id, m.superseded_by FROM memory m JOIN chain c ON m.id = c.superseded_by
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE id = ?)`
	if err := tx.QueryRowContext(ctx, cycleQuery, newID, oldID).Scan(&cycle); err != nil {
		return fmt.Errorf("failed to check supersession chain: %w", err)
	}
	if cycle {
		return fmt.Errorf("superseding memory %d with %d would create a cycle", oldID, newID)
	}

	// Write-once: the guard on superseded_by makes a second supersession a no-op
	// that we surface as a conflict.
	result, err := tx.ExecContext(ctx,
		"UPDATE memory SET superseded_by = ?, superseded_ts = ? WHERE id = ? AND superseded_by IS NULL",
		newID, supersededTs, oldID)
	if err != nil {
		return fmt.Errorf("failed to supersede memory: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrMemoryAlreadySuperseded
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit supersession: %w", err)
	}
	return nil
}

func (d *DB) DeleteMemory(ctx context.Context, id int32) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM memory WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

func (d *DB) CleanupExpiredMemories(ctx context.Context, creatorID int32, now time.Time, retention time.Duration) (int, error) {
	retentionCutoff := now.Add(-retention).Unix()

	stmt := `DELETE FROM memory WHERE creator_id = ? AND (
			(expires_ts IS NOT NULL AND expires_ts <= ?)
			OR (superseded_ts IS NOT NULL AND superseded_ts <= ?)
		)`

	result, err := d.db.ExecContext(ctx, stmt, creatorID, now.Unix(), retentionCutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired memories: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}
