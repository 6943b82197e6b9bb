package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/peakform/peakform/store"
)

// SQLite stores embeddings as JSON for round-tripping only; similarity search
// is not available without pgvector.

func (d *DB) UpsertMemoryEmbedding(ctx context.Context, embedding *store.MemoryEmbedding) (*store.MemoryEmbedding, error) {
	now := time.Now().Unix()
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = now
	}
	embedding.UpdatedTs = now

	buf, err := json.Marshal(embedding.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding: %w", err)
	}

	stmt := `INSERT INTO memory_embedding (memory_id, embedding, model, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (memory_id, model)
		DO UPDATE SET embedding = excluded.embedding, updated_ts = excluded.updated_ts
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt,
		embedding.MemoryID,
		string(buf),
		embedding.Model,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.ID); err != nil {
		return nil, fmt.Errorf("failed to upsert memory_embedding: %w", err)
	}

	return embedding, nil
}

func (d *DB) ListMemoryEmbeddings(ctx context.Context, find *store.FindMemoryEmbedding) ([]*store.MemoryEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.MemoryID != nil {
		where, args = append(where, "memory_id = "+placeholder(len(args)+1)), append(args, *find.MemoryID)
	}
	if find.Model != nil {
		where, args = append(where, "model = "+placeholder(len(args)+1)), append(args, *find.Model)
	}

	query := `SELECT id, memory_id, embedding, model, created_ts, updated_ts
		FROM memory_embedding WHERE ` + strings.Join(where, " AND ")

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memory_embeddings: %w", err)
	}
	defer rows.Close()

	list := make([]*store.MemoryEmbedding, 0)
	for rows.Next() {
		e := &store.MemoryEmbedding{}
		var raw string
		if err := rows.Scan(&e.ID, &e.MemoryID, &raw, &e.Model, &e.CreatedTs, &e.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan memory_embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memory_embeddings: %w", err)
	}

	return list, nil
}

func (d *DB) FindMemoriesWithoutEmbedding(ctx context.Context, find *store.FindMemoriesWithoutEmbedding) ([]*store.Memory, error) {
	limit := find.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT m.id, m.uid, m.creator_id, m.content, m.created_ts, m.expires_ts, m.superseded_by, m.superseded_ts
		FROM memory m
		LEFT JOIN memory_embedding e ON e.memory_id = m.id AND e.model = ?
		WHERE e.id IS NULL AND m.superseded_by IS NULL
		ORDER BY m.created_ts DESC
		LIMIT ?`

	rows, err := d.db.QueryContext(ctx, query, find.Model, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find memories without embedding: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Memory, 0)
	for rows.Next() {
		m := &store.Memory{}
		if err := rows.Scan(&m.ID, &m.UID, &m.CreatorID, &m.Content, &m.CreatedTs, &m.ExpiresTs, &m.SupersededBy, &m.SupersededTs); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		list = append(list, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memories: %w", err)
	}

	return list, nil
}

func (d *DB) SearchMemoriesByVector(_ context.Context, _ *store.VectorSearchOptions) ([]*store.MemoryWithScore, error) {
	return nil, store.ErrVectorSearchNotSupported
}
