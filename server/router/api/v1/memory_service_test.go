package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakform/peakform/internal/profile"
	"github.com/peakform/peakform/server/auth"
	"github.com/peakform/peakform/store"
	storetest "github.com/peakform/peakform/store/test"
)

func newTestServer(t *testing.T) (*echo.Echo, *store.Store) {
	t.Helper()
	ctx := context.Background()
	s := storetest.NewTestingStore(ctx, t)

	p := &profile.Profile{
		Mode:                 "dev",
		Driver:               "sqlite",
		ContextRecordLimit:   200,
		MemoryRetentionDays:  30,
		ProvenanceWindowDays: 7,
	}
	echoServer := echo.New()
	NewAPIV1Service(p, s).Register(echoServer)
	return echoServer, s
}

func seedUser(t *testing.T, s *store.Store, username string, plan store.Plan) int32 {
	t.Helper()
	result, err := s.GetDriver().GetDB().Exec(
		`INSERT INTO "user" (username, plan) VALUES (?, ?)`, username, string(plan))
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return int32(id)
}

func doRequest(e *echo.Echo, method, path string, userID int32, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID > 0 {
		req.Header.Set(auth.UserIDHeader, fmt.Sprintf("%d", userID))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMemoryEndpoints(t *testing.T) {
	e, s := newTestServer(t)
	alice := seedUser(t, s, "alice", store.PlanFree)
	bob := seedUser(t, s, "bob", store.PlanFree)

	t.Run("UnauthenticatedRejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories", 0, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownUserRejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories", 9999, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var firstUID string
	t.Run("Create", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/memories", alice,
			`{"content":"prefers morning workouts"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created memoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.UID)
		assert.True(t, created.Active)
		firstUID = created.UID
	})

	t.Run("CreateEmptyContentRejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/memories", alice, `{"content":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Get", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories/"+firstUID, alice, "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ForeignMemoryLooksMissing", func(t *testing.T) {
		ownRec := doRequest(e, http.MethodGet, "/api/v1/memories/no-such-uid", alice, "")
		foreignRec := doRequest(e, http.MethodGet, "/api/v1/memories/"+firstUID, bob, "")

		assert.Equal(t, http.StatusNotFound, ownRec.Code)
		assert.Equal(t, http.StatusNotFound, foreignRec.Code)
		// Identical body: existence is not observable across users.
		assert.JSONEq(t, ownRec.Body.String(), foreignRec.Body.String())
	})

	t.Run("CreateWithSupersession", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/memories", alice,
			fmt.Sprintf(`{"content":"prefers evening workouts","supersedes_uid":%q}`, firstUID))
		require.Equal(t, http.StatusCreated, rec.Code)

		// The predecessor is now historical but still readable.
		getRec := doRequest(e, http.MethodGet, "/api/v1/memories/"+firstUID, alice, "")
		require.Equal(t, http.StatusOK, getRec.Code)
		var got memoryResponse
		require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
		assert.False(t, got.Active)
		assert.NotEmpty(t, got.SupersededByUID)
	})

	t.Run("SupersedeWriteOnce", func(t *testing.T) {
		another := doRequest(e, http.MethodPost, "/api/v1/memories", alice, `{"content":"third fact"}`)
		require.Equal(t, http.StatusCreated, another.Code)
		var third memoryResponse
		require.NoError(t, json.Unmarshal(another.Body.Bytes(), &third))

		rec := doRequest(e, http.MethodPost, "/api/v1/memories/"+firstUID+"/supersede", alice,
			fmt.Sprintf(`{"successor_uid":%q}`, third.UID))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("SupersededPredecessorLeavesNoOrphan", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/memories", alice,
			fmt.Sprintf(`{"content":"orphan candidate","supersedes_uid":%q}`, firstUID))
		assert.Equal(t, http.StatusConflict, rec.Code)

		// The rejected successor was rolled back, not left behind as an
		// active memory.
		allRec := doRequest(e, http.MethodGet, "/api/v1/memories?state=all", alice, "")
		require.Equal(t, http.StatusOK, allRec.Code)
		assert.NotContains(t, allRec.Body.String(), "orphan candidate")
	})

	t.Run("ListActiveOnlyByDefault", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories", alice, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []*memoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		for _, m := range list {
			assert.True(t, m.Active)
			assert.NotEqual(t, firstUID, m.UID)
		}

		allRec := doRequest(e, http.MethodGet, "/api/v1/memories?state=all", alice, "")
		require.Equal(t, http.StatusOK, allRec.Code)
		var all []*memoryResponse
		require.NoError(t, json.Unmarshal(allRec.Body.Bytes(), &all))
		assert.Greater(t, len(all), len(list))
	})

	t.Run("SemanticSearchRequiresProPlan", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories/search?q=running", alice, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestContextEndpoint(t *testing.T) {
	e, s := newTestServer(t)
	alice := seedUser(t, s, "alice", store.PlanFree)

	_, err := s.GetDriver().GetDB().Exec(
		`INSERT INTO diary_entry (uid, creator_id, content, mood, visibility, entry_ts)
		 VALUES ('d1', ?, 'hidden text', 9, 'HIDDEN', strftime('%s','now')),
		        ('d2', ?, 'quiet text', 3, 'METRICS_ONLY', strftime('%s','now')),
		        ('d3', ?, 'great session', 7, 'FULL_ACCESS', strftime('%s','now'))`,
		alice, alice, alice)
	require.NoError(t, err)

	createRec := doRequest(e, http.MethodPost, "/api/v1/memories", alice, `{"content":"likes yoga"}`)
	require.Equal(t, http.StatusCreated, createRec.Code)

	rec := doRequest(e, http.MethodGet, "/api/v1/context", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var object struct {
		UserID     int32 `json:"user_id"`
		Categories map[string][]struct {
			Name      string `json:"name"`
			Sensitive map[string]struct {
				Present bool   `json:"present"`
				Value   string `json:"value"`
			} `json:"sensitive"`
		} `json:"categories"`
		Memories []struct {
			Content string `json:"content"`
		} `json:"memories"`
		Omitted []string `json:"omitted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &object))

	assert.Equal(t, alice, object.UserID)
	assert.Empty(t, object.Omitted)
	require.Len(t, object.Memories, 1)
	assert.Equal(t, "likes yoga", object.Memories[0].Content)

	diary := object.Categories["diary"]
	require.Len(t, diary, 2)
	for _, entry := range diary {
		switch entry.Name {
		case "diary/d2":
			assert.False(t, entry.Sensitive["content"].Present)
			assert.Empty(t, entry.Sensitive["content"].Value)
		case "diary/d3":
			assert.True(t, entry.Sensitive["content"].Present)
			assert.Equal(t, "great session", entry.Sensitive["content"].Value)
		default:
			t.Fatalf("unexpected diary entry in context: %s", entry.Name)
		}
	}
}

func TestProvenanceEndpoint(t *testing.T) {
	e, s := newTestServer(t)
	alice := seedUser(t, s, "alice", store.PlanFree)
	bob := seedUser(t, s, "bob", store.PlanFree)

	_, err := s.GetDriver().GetDB().Exec(
		`INSERT INTO workout (uid, creator_id, kind, performed_ts, notes)
		 VALUES ('w1', ?, 'run', strftime('%s','now') - 3600, 'tempo run')`, alice)
	require.NoError(t, err)

	createRec := doRequest(e, http.MethodPost, "/api/v1/memories", alice, `{"content":"building run volume"}`)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var memory memoryResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &memory))

	t.Run("OwnerSeesWindowedSources", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/memories/"+memory.UID+"/provenance", alice, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			MemoryUID string `json:"memory_uid"`
			Sources   map[string][]struct {
				Name string `json:"name"`
			} `json:"sources"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, memory.UID, result.MemoryUID)
		require.Len(t, result.Sources["workouts"], 1)
		assert.Equal(t, "workouts/w1", result.Sources["workouts"][0].Name)
	})

	t.Run("ForeignProvenanceLooksMissing", func(t *testing.T) {
		missingRec := doRequest(e, http.MethodGet, "/api/v1/memories/no-such-uid/provenance", alice, "")
		foreignRec := doRequest(e, http.MethodGet, "/api/v1/memories/"+memory.UID+"/provenance", bob, "")

		assert.Equal(t, http.StatusNotFound, missingRec.Code)
		assert.Equal(t, http.StatusNotFound, foreignRec.Code)
		assert.JSONEq(t, missingRec.Body.String(), foreignRec.Body.String())
	})
}

func TestCleanupEndpoint(t *testing.T) {
	e, s := newTestServer(t)
	alice := seedUser(t, s, "alice", store.PlanFree)

	_, err := s.GetDriver().GetDB().Exec(
		`INSERT INTO memory (uid, creator_id, content, expires_ts)
		 VALUES ('stale', ?, 'stale fact', strftime('%s','now') - 60)`, alice)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodPost, "/api/v1/maintenance/cleanup", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result cleanupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Removed)

	again := doRequest(e, http.MethodPost, "/api/v1/maintenance/cleanup", alice, "")
	require.Equal(t, http.StatusOK, again.Code)
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Removed)
}
