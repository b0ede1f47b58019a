package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/orgdex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/services"
)

func newTestServer(t *testing.T, seed []domain.Project) *Server {
	t.Helper()

	store := memory.NewProjectStore()
	require.NoError(t, store.UpsertMany(context.Background(), seed))

	catalog := services.NewCatalogService(store)
	discovery := services.NewDiscoveryOrchestrator(nil, store, "", 0)
	return NewServer(catalog, discovery)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func seedProjects() []domain.Project {
	base := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Project{
		{
			ID:         "api-gateway",
			FullName:   "acme/api-gateway",
			Language:   "Go",
			Visibility: "private",
			UpdatedAt:  base.Add(48 * time.Hour),
			Branches: []domain.Branch{
				{Name: "main", IsDefault: true, CommitSHA: "abc123"},
				{Name: "feature/auth", CommitSHA: "def456"},
			},
			LastRun: &domain.ActionsRun{ID: 77, Status: "completed", Conclusion: "success"},
			Tags:    domain.Tags{Category: "service", Status: "active"},
		},
		{
			ID:         "shader-lab",
			FullName:   "acme/shader-lab",
			Language:   "Rust",
			Visibility: "public",
			Topics:     []string{"webgl", "graphics"},
			UpdatedAt:  base.Add(24 * time.Hour),
			Tags:       domain.Tags{Category: "experiment", Status: "active"},
		},
		{
			ID:         "legacy-importer",
			FullName:   "acme/legacy-importer",
			Language:   "Python",
			Visibility: "public",
			UpdatedAt:  base,
			Tags:       domain.Tags{Category: "service", Status: "archived"},
		},
	}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_ListProjects(t *testing.T) {
	s := newTestServer(t, seedProjects())

	t.Run("returns all sorted by recency", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Projects []projectResponse `json:"projects"`
			Count    int               `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, 3, body.Count)
		assert.Equal(t, "api-gateway", body.Projects[0].ID)
		assert.Equal(t, "shader-lab", body.Projects[1].ID)
		assert.Equal(t, "legacy-importer", body.Projects[2].ID)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects?category=service&status=active", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Projects []projectResponse `json:"projects"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Projects, 1)
		assert.Equal(t, "api-gateway", body.Projects[0].ID)
	})

	t.Run("search matches topics case-insensitively", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects?search=WEBGL", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Projects []projectResponse `json:"projects"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Projects, 1)
		assert.Equal(t, "shader-lab", body.Projects[0].ID)
	})

	t.Run("pagination window", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects?offset=1&limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Projects []projectResponse `json:"projects"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Projects, 1)
		assert.Equal(t, "shader-lab", body.Projects[0].ID)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects?limit=lots", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetProject(t *testing.T) {
	s := newTestServer(t, seedProjects())

	t.Run("derived fields", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects/api-gateway", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got projectResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "api-gateway", got.DisplayName)
		assert.True(t, got.Private)
		require.Len(t, got.Branches, 2)
		assert.True(t, got.Branches[0].Default)
		assert.True(t, got.Branches[0].Protected)
		assert.False(t, got.Branches[1].Default)
		require.NotNil(t, got.LastRun)
		assert.Equal(t, "success", got.LastRun.Conclusion)
	})

	t.Run("missing run serialized as null", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects/shader-lab", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Equal(t, "null", string(raw["lastWorkflowRun"]))
	})

	t.Run("unknown project", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/projects/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_UpdateTags(t *testing.T) {
	t.Run("partial patch preserves other fields", func(t *testing.T) {
		s := newTestServer(t, seedProjects())

		rec := doRequest(t, s, http.MethodPatch, "/api/v1/projects/api-gateway/tags",
			`{"priority":"high","custom":["owned-by-platform"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got projectResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "service", got.Tags.Category)
		assert.Equal(t, "active", got.Tags.Status)
		assert.Equal(t, "high", got.Tags.Priority)
		assert.Equal(t, []string{"owned-by-platform"}, got.Tags.Custom)
	})

	t.Run("unknown project", func(t *testing.T) {
		s := newTestServer(t, seedProjects())

		rec := doRequest(t, s, http.MethodPatch, "/api/v1/projects/ghost/tags", `{"status":"archived"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed payload names the field", func(t *testing.T) {
		s := newTestServer(t, seedProjects())

		rec := doRequest(t, s, http.MethodPatch, "/api/v1/projects/api-gateway/tags",
			`{"category":42}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Fields, "category")
	})
}

func TestServer_Stats(t *testing.T) {
	s := newTestServer(t, seedProjects())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total      int            `json:"total"`
		ByCategory map[string]int `json:"byCategory"`
		ByStatus   map[string]int `json:"byStatus"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.ByCategory["service"])
	assert.Equal(t, 1, body.ByCategory["experiment"])
	assert.Equal(t, 2, body.ByStatus["active"])
}

func TestServer_Discover_DemoMode(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/discover", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
		Mode    string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "demo", body.Mode)
	assert.Equal(t, 5, body.Count)

	list := doRequest(t, s, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, list.Code)

	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
	assert.Equal(t, 5, listed.Count)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodOptions, "/api/v1/projects", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
