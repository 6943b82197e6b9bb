package v1

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peakform/peakform/server/internal/errors"
	"github.com/peakform/peakform/server/internal/observability"
	"github.com/peakform/peakform/store"
)

// memoryResponse is the API shape of a memory. Historical memories keep
// their supersession metadata; there is no delete, supersession is the only
// way a memory leaves the active set.
type memoryResponse struct {
	UID             string `json:"uid"`
	Content         string `json:"content"`
	CreatedTs       int64  `json:"created_ts"`
	ExpiresTs       *int64 `json:"expires_ts,omitempty"`
	Active          bool   `json:"active"`
	SupersededByUID string `json:"superseded_by_uid,omitempty"`
	SupersededTs    *int64 `json:"superseded_ts,omitempty"`
}

type createMemoryRequest struct {
	Content string `json:"content"`
	// ExpiresTs optionally marks the memory as short-lived.
	ExpiresTs *int64 `json:"expires_ts,omitempty"`
	// SupersedesUID optionally names the memory this one replaces.
	SupersedesUID string `json:"supersedes_uid,omitempty"`
}

// CreateMemory ingests one derived fact from the extraction producer on
// behalf of the calling user. When supersedes_uid is set, the replaced
// memory transitions to historical in the same request.
func (s *APIV1Service) CreateMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	request := &createMemoryRequest{}
	if err := c.Bind(request); err != nil {
		return toHTTPError(errors.InvalidArgument("malformed request body"))
	}
	if request.Content == "" {
		return toHTTPError(errors.InvalidArgument("content is required"))
	}
	if request.ExpiresTs != nil && *request.ExpiresTs <= time.Now().Unix() {
		return toHTTPError(errors.InvalidArgument("expires_ts must be in the future"))
	}

	var predecessor *store.Memory
	if request.SupersedesUID != "" {
		var err error
		predecessor, err = s.findOwnMemory(ctx, user.ID, request.SupersedesUID)
		if err != nil {
			return toHTTPError(err)
		}
	}

	memory, err := s.Store.CreateMemory(ctx, &store.CreateMemory{
		CreatorID: user.ID,
		Content:   request.Content,
		ExpiresTs: request.ExpiresTs,
	})
	if err != nil {
		return toHTTPError(err)
	}

	if predecessor != nil {
		// The write-once guard in the store is the authoritative conflict
		// check. Roll the successor back on failure so the request leaves no
		// orphaned active memory behind.
		if err := s.Store.SupersedeMemory(ctx, predecessor.ID, memory.ID); err != nil {
			if derr := s.Store.DeleteMemory(ctx, memory.ID); derr != nil {
				slog.Error("failed to roll back orphaned successor",
					slog.Int("memory", int(memory.ID)), slog.Any("err", derr))
			}
			return toHTTPError(err)
		}
	}
	return c.JSON(http.StatusCreated, convertMemory(memory, ""))
}

// ListMemories lists the caller's memories, newest first. By default only
// active memories are returned; ?state=all includes historical ones.
func (s *APIV1Service) ListMemories(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	find := &store.FindMemory{
		CreatorID:  &user.ID,
		ActiveOnly: c.QueryParam("state") != "all",
		Limit:      100,
	}
	memories, err := s.Store.ListMemories(ctx, find)
	if err != nil {
		return toHTTPError(err)
	}

	now := time.Now()
	responses := []*memoryResponse{}
	for _, m := range memories {
		if m.IsExpired(now) {
			continue
		}
		responses = append(responses, convertMemory(m, ""))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetMemory returns one of the caller's memories by uid. Historical
// memories remain readable until retention removes them.
func (s *APIV1Service) GetMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	memory, err := s.findOwnMemory(ctx, user.ID, c.Param("uid"))
	if err != nil {
		return toHTTPError(err)
	}

	successorUID := ""
	if memory.SupersededBy != nil {
		successor, err := s.Store.GetMemory(ctx, &store.FindMemory{ID: memory.SupersededBy})
		if err != nil {
			return toHTTPError(err)
		}
		if successor != nil {
			successorUID = successor.UID
		}
	}
	return c.JSON(http.StatusOK, convertMemory(memory, successorUID))
}

type supersedeMemoryRequest struct {
	SuccessorUID string `json:"successor_uid"`
}

// SupersedeMemory marks the memory as replaced by an existing successor.
// The pointer is write-once: repeating the call fails with a conflict and
// leaves the original pointer unchanged.
func (s *APIV1Service) SupersedeMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	request := &supersedeMemoryRequest{}
	if err := c.Bind(request); err != nil {
		return toHTTPError(errors.InvalidArgument("malformed request body"))
	}
	if request.SuccessorUID == "" {
		return toHTTPError(errors.InvalidArgument("successor_uid is required"))
	}

	memory, err := s.findOwnMemory(ctx, user.ID, c.Param("uid"))
	if err != nil {
		return toHTTPError(err)
	}
	successor, err := s.findOwnMemory(ctx, user.ID, request.SuccessorUID)
	if err != nil {
		return toHTTPError(err)
	}

	if err := s.Store.SupersedeMemory(ctx, memory.ID, successor.ID); err != nil {
		if stderrors.Is(err, store.ErrMemoryAlreadySuperseded) {
			return toHTTPError(err)
		}
		return toHTTPError(errors.StorageError("failed to supersede memory", err))
	}
	return c.NoContent(http.StatusNoContent)
}

// ExplainMemory answers "why does it know this": the redacted source records
// within the extraction window behind the memory. Memories of other users
// are reported as not found.
func (s *APIV1Service) ExplainMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(observability.OperationProvenance)

	result, err := s.Engine.Explain(ctx, user.ID, c.Param("uid"))
	if err != nil {
		metrics.RecordFailure(observability.OperationProvenance)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchMemories performs semantic search over the caller's active
// memories. Requires a PRO plan and a configured embedding provider.
func (s *APIV1Service) SearchMemories(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	query := c.QueryParam("q")
	if query == "" {
		return toHTTPError(errors.InvalidArgument("q is required"))
	}
	if user.Plan != store.PlanPro {
		return echo.NewHTTPError(http.StatusForbidden, "semantic search requires a PRO plan")
	}
	if s.EmbeddingService == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "semantic search is not configured")
	}

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(observability.OperationSemanticSearch)

	vector, err := s.EmbeddingService.Embed(ctx, query)
	if err != nil {
		metrics.RecordFailure(observability.OperationSemanticSearch)
		return toHTTPError(errors.SourceUnavailable("embedding", err))
	}

	results, err := s.Store.SearchMemoriesByVector(ctx, &store.VectorSearchOptions{
		CreatorID: user.ID,
		Vector:    vector,
		Limit:     20,
	})
	if err != nil {
		if stderrors.Is(err, store.ErrVectorSearchNotSupported) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "semantic search is not supported by this deployment")
		}
		return toHTTPError(err)
	}

	type scoredMemory struct {
		*memoryResponse
		Score float32 `json:"score"`
	}
	responses := []*scoredMemory{}
	for _, r := range results {
		responses = append(responses, &scoredMemory{
			memoryResponse: convertMemory(r.Memory, ""),
			Score:          r.Score,
		})
	}
	return c.JSON(http.StatusOK, responses)
}

// findOwnMemory loads a memory by uid and verifies ownership. A foreign or
// expired memory is indistinguishable from a missing one.
func (s *APIV1Service) findOwnMemory(ctx context.Context, userID int32, uid string) (*store.Memory, error) {
	memory, err := s.Store.GetMemory(ctx, &store.FindMemory{UID: &uid})
	if err != nil {
		return nil, errors.StorageError("failed to get memory", err)
	}
	if memory == nil || memory.IsExpired(time.Now()) {
		return nil, errors.NotFound("memory")
	}
	if memory.CreatorID != userID {
		return nil, errors.Forbidden("memory")
	}
	return memory, nil
}

func convertMemory(m *store.Memory, successorUID string) *memoryResponse {
	return &memoryResponse{
		UID:             m.UID,
		Content:         m.Content,
		CreatedTs:       m.CreatedTs,
		ExpiresTs:       m.ExpiresTs,
		Active:          m.IsActive(),
		SupersededByUID: successorUID,
		SupersededTs:    m.SupersededTs,
	}
}
