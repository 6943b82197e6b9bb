package store

import (
	"context"
	"errors"
)

// ErrVectorSearchNotSupported is returned by drivers without vector support
// (SQLite). Semantic memory search requires PostgreSQL with pgvector.
var ErrVectorSearchNotSupported = errors.New("vector search not supported by this database driver (requires PostgreSQL)")

// MemoryEmbedding represents the vector embedding of a memory.
type MemoryEmbedding struct {
	ID        int32
	MemoryID  int32
	Embedding []float32
	Model     string // Model identifier, e.g. "text-embedding-3-small"
	CreatedTs int64
	UpdatedTs int64
}

// FindMemoryEmbedding is the find condition for memory embeddings.
type FindMemoryEmbedding struct {
	MemoryID *int32
	Model    *string
}

// MemoryWithScore represents a vector search result with similarity score.
type MemoryWithScore struct {
	Memory *Memory
	Score  float32 // Similarity score (0-1, higher is more similar)
}

// VectorSearchOptions represents the options for memory vector search.
type VectorSearchOptions struct {
	CreatorID int32     // Required, only search memories of this user
	Vector    []float32 // Query vector
	Limit     int       // Number of results to return, default 10
}

// FindMemoriesWithoutEmbedding is the find condition for memories lacking a vector.
type FindMemoriesWithoutEmbedding struct {
	Model string
	Limit int
}

// UpsertMemoryEmbedding inserts or updates a memory embedding.
func (s *Store) UpsertMemoryEmbedding(ctx context.Context, embedding *MemoryEmbedding) (*MemoryEmbedding, error) {
	return s.driver.UpsertMemoryEmbedding(ctx, embedding)
}

// ListMemoryEmbeddings lists memory embeddings.
func (s *Store) ListMemoryEmbeddings(ctx context.Context, find *FindMemoryEmbedding) ([]*MemoryEmbedding, error) {
	return s.driver.ListMemoryEmbeddings(ctx, find)
}

// FindMemoriesWithoutEmbedding finds memories that do not have an embedding yet.
// Superseded memories are skipped; they are no longer searchable.
func (s *Store) FindMemoriesWithoutEmbedding(ctx context.Context, find *FindMemoriesWithoutEmbedding) ([]*Memory, error) {
	return s.driver.FindMemoriesWithoutEmbedding(ctx, find)
}

// SearchMemoriesByVector performs semantic search over a user's active memories.
// Only supported by the PostgreSQL driver (pgvector); SQLite returns an error.
func (s *Store) SearchMemoriesByVector(ctx context.Context, opts *VectorSearchOptions) ([]*MemoryWithScore, error) {
	return s.driver.SearchMemoriesByVector(ctx, opts)
}
