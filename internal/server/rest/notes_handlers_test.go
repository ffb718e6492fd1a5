package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotes_OwnershipScenario(t *testing.T) {
	ts := newTestServer(t)
	aToken, _ := ts.registerUser(t, "a@example.com")
	bToken, _ := ts.registerUser(t, "b@example.com")
	adminToken, _ := ts.loginAdmin(t, "root@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/notes", aToken, map[string]string{"title": "groceries", "content": "milk"})
	require.Equal(t, http.StatusCreated, r.status, r.body)
	noteID := r.body["id"].(string)
	assert.Equal(t, "groceries", r.body["title"])
	assert.NotEmpty(t, r.body["owner_id"])

	r = ts.do(t, http.MethodGet, "/api/v1/notes/"+noteID, bToken, nil)
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "forbidden", r.errorCode())
	assert.Equal(t, noteID, r.errorDetails()["note_id"])

	r = ts.do(t, http.MethodGet, "/api/v1/notes/"+noteID, adminToken, nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, noteID, r.body["id"])

	r = ts.do(t, http.MethodDelete, "/api/v1/notes/"+noteID, bToken, nil)
	assert.Equal(t, http.StatusForbidden, r.status)

	r = ts.do(t, http.MethodPatch, "/api/v1/notes/"+noteID, bToken, map[string]string{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, r.status)
}

func TestNotes_CRUD(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "crud@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/notes", token, map[string]string{"title": "draft", "content": "v1"})
	require.Equal(t, http.StatusCreated, r.status)
	id := r.body["id"].(string)

	r = ts.do(t, http.MethodPatch, "/api/v1/notes/"+id, token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation_error", r.errorCode())

	r = ts.do(t, http.MethodPatch, "/api/v1/notes/"+id, token, map[string]string{"title": "final"})
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "final", r.body["title"])
	assert.Equal(t, "v1", r.body["content"])

	r = ts.do(t, http.MethodDelete, "/api/v1/notes/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, r.status)

	r = ts.do(t, http.MethodGet, "/api/v1/notes/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "not_found", r.errorCode())
	assert.Equal(t, id, r.errorDetails()["note_id"])
}

func TestNotes_CreateValidation(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "v@example.com")

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"missing title", map[string]string{"content": "x"}, "title"},
		{"missing content", map[string]string{"title": "x"}, "content"},
		{"title too long", map[string]string{"title": strings.Repeat("t", 201), "content": "x"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ts.do(t, http.MethodPost, "/api/v1/notes", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, r.status)
			assert.Contains(t, r.errorDetails(), tt.field)
		})
	}
}

func TestNotes_NonUUIDIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "ids@example.com")

	r := ts.do(t, http.MethodGet, "/api/v1/notes/42", token, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "not_found", r.errorCode())
}

func TestNotes_RequireAccessToken(t *testing.T) {
	ts := newTestServer(t)
	_, refresh := ts.registerUser(t, "noauth@example.com")

	r := ts.do(t, http.MethodGet, "/api/v1/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "authorization_required", r.errorCode())

	r = ts.do(t, http.MethodGet, "/api/v1/notes", refresh, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, r.status)
}

func TestNotes_ListScopesAndPaginates(t *testing.T) {
	ts := newTestServer(t)
	aToken, _ := ts.registerUser(t, "list-a@example.com")
	bToken, _ := ts.registerUser(t, "list-b@example.com")
	adminToken, _ := ts.loginAdmin(t, "list-admin@example.com")

	for _, title := range []string{"one", "two", "three"} {
		r := ts.do(t, http.MethodPost, "/api/v1/notes", aToken, map[string]string{"title": title, "content": "c"})
		require.Equal(t, http.StatusCreated, r.status)
	}

	r := ts.do(t, http.MethodGet, "/api/v1/notes?page=1&per_page=2", aToken, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "success", r.body["status"])
	assert.Len(t, r.body["data"], 2)
	assert.Equal(t, map[string]any{"page": float64(1), "per_page": float64(2), "total": float64(3)}, r.body["meta"])

	r = ts.do(t, http.MethodGet, "/api/v1/notes?page=2&per_page=2", aToken, nil)
	assert.Len(t, r.body["data"], 1)

	r = ts.do(t, http.MethodGet, "/api/v1/notes", bToken, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.body["data"], 0)
	assert.Equal(t, float64(0), r.body["meta"].(map[string]any)["total"])

	r = ts.do(t, http.MethodGet, "/api/v1/notes?per_page=1000", adminToken, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.body["data"], 3)
	assert.Equal(t, float64(100), r.body["meta"].(map[string]any)["per_page"])

	r = ts.do(t, http.MethodGet, "/api/v1/notes?page=abc", aToken, nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation_error", r.errorCode())
	assert.Contains(t, r.errorDetails(), "page")
}

func TestNotes_PatchChecksAccessBeforeBody(t *testing.T) {
	ts := newTestServer(t)
	aToken, _ := ts.registerUser(t, "owner@example.com")
	bToken, _ := ts.registerUser(t, "other@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/notes", aToken, map[string]string{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, r.status)
	id := r.body["id"].(string)

	r = ts.do(t, http.MethodPatch, "/api/v1/notes/"+id, bToken, map[string]string{})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "forbidden", r.errorCode())

	r = ts.do(t, http.MethodPatch, "/api/v1/notes/"+id, bToken, map[string]string{"title": ""})
	assert.Equal(t, http.StatusForbidden, r.status)

	missing := "/api/v1/notes/00000000-0000-4000-8000-000000000000"
	req := httptest.NewRequest(http.MethodPatch, missing, strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aToken)
	r = ts.send(t, req)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "not_found", r.errorCode())

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/notes/"+id, strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aToken)
	r = ts.send(t, req)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation_error", r.errorCode())
}

func TestNotes_ListFarPage(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "far@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/notes", token, map[string]string{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, r.status)

	r = ts.do(t, http.MethodGet, "/api/v1/notes?page=9223372036854775807&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Len(t, r.body["data"], 0)
	assert.Equal(t, float64(1), r.body["meta"].(map[string]any)["total"])
}
