package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/search"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	searcher := search.New(st, tenant.ContextProvider{})

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080, Mode: "test"},
	}
	srv := New(cfg, searcher, st, nil)
	srv.Setup()
	return srv, st
}

func seedProject(t *testing.T, st *store.MemoryStore, id, workspaceID, name string) {
	t.Helper()
	rec, err := store.EncodeRecord(types.Project{ID: id, WorkspaceID: workspaceID, Name: name})
	require.NoError(t, err)
	require.NoError(t, st.PutEntity(context.Background(), types.EntityProject, rec))
}

func doJSON(t *testing.T, srv *Server, method, path, body string, identified bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if identified {
		req.Header.Set("X-User-ID", "u-1")
		req.Header.Set("X-Workspace-ID", "ws-1")
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "scout", body["service"])
}

func TestReadinessProbesStore(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestUnifiedSearchEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedProject(t, st, "P1", "ws-1", "Launch")

	w := doJSON(t, srv, http.MethodPost, "/search", `{"search_text":"launch"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Data types.UnifiedSearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Data, 1)
	assert.Equal(t, "P1", body.Data.Data[0].ID)
}

func TestMissingIdentityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/search", `{"search_text":"x"}`, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestTypedSearchEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedProject(t, st, "P1", "ws-1", "Launch")
	seedProject(t, st, "P2", "ws-2", "Launch")

	w := doJSON(t, srv, http.MethodPost, "/search/project", `{"search_text":"launch"}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []types.ProjectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "P1", body.Data[0].ID)
}

func TestTypedSearchUnknownType(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/search/widget", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedProject(t, st, "P1", "ws-1", "Launch")

	w := doJSON(t, srv, http.MethodPost, "/resolve", `{"entity_type":"project","name":"Launch"}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []types.ResolvedEntity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)
	assert.Equal(t, "P1", body.Data[0].ID)
	assert.Equal(t, types.ConfidenceExact, body.Data[0].Confidence)
}

func TestResolveRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/resolve", `{"entity_type":"project"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveFieldValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/resolve/field", `{"name":"Qty"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/missing", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-Workspace-ID", "ws-1")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
