package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/peakform/peakform/store"
)

func (d *DB) UpsertMemoryEmbedding(ctx context.Context, embedding *store.MemoryEmbedding) (*store.MemoryEmbedding, error) {
	now := time.Now().Unix()
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = now
	}
	embedding.UpdatedTs = now

	stmt := `INSERT INTO memory_embedding (memory_id, embedding, model, created_ts, updated_ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (memory_id, model)
		DO UPDATE SET embedding = EXCLUDED.embedding, updated_ts = EXCLUDED.updated_ts
		RETURNING id`

	vec := pgvector.NewVector(embedding.Embedding)
	if err := d.db.QueryRowContext(ctx, stmt,
		embedding.MemoryID,
		vec,
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
		var vec pgvector.Vector
		if err := rows.Scan(&e.ID, &e.MemoryID, &vec, &e.Model, &e.CreatedTs, &e.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan memory_embedding: %w", err)
		}
		e.Embedding = vec.Slice()
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

	// Superseded memories are excluded; historical facts are not searchable.
	query := `SELECT m.id, m.uid, m.creator_id, m.content, m.created_ts, m.expires_ts, m.superseded_by, m.superseded_ts
		FROM memory m
		LEFT JOIN memory_embedding e ON e.memory_id = m.id AND e.model = $1
		WHERE e.id IS NULL AND m.superseded_by IS NULL
		ORDER BY m.created_ts DESC
		LIMIT $2`

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

func (d *DB) SearchMemoriesByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MemoryWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT m.id, m.uid, m.creator_id, m.content, m.created_ts, m.expires_ts, m.superseded_by, m.superseded_ts,
			1 - (e.embedding <=> $1) AS score
		FROM memory m
		JOIN memory_embedding e ON e.memory_id = m.id
		WHERE m.creator_id = $2 AND m.superseded_by IS NULL
		ORDER BY e.embedding <=> $1
		LIMIT $3`

	rows, err := d.db.QueryContext(ctx, query, pgvector.NewVector(opts.Vector), opts.CreatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories by vector: %w", err)
	}
	defer rows.Close()

	list := make([]*store.MemoryWithScore, 0)
	for rows.Next() {
		m := &store.Memory{}
		var score float32
		if err := rows.Scan(&m.ID, &m.UID, &m.CreatorID, &m.Content, &m.CreatedTs, &m.ExpiresTs, &m.SupersededBy, &m.SupersededTs, &score); err != nil {
			return nil, fmt.Errorf("failed to scan memory with score: %w", err)
		}
		list = append(list, &store.MemoryWithScore{Memory: m, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memories with score: %w", err)
	}

	return list, nil
}
