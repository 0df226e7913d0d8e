package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usaspending-mcp/internal/tools"
	"usaspending-mcp/internal/usaspending"
)

// newTestServer wires a Server whose tools call a fake upstream.
func newTestServer(t *testing.T, cfg Config, upstream http.Handler) (*Server, *atomic.Int32) {
	t.Helper()
	var upstreamCalls atomic.Int32
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(fake.Close)

	client := usaspending.New(fake.URL, 0, zerolog.Nop())
	registry := tools.NewRegistry(zerolog.Nop())
	require.NoError(t, tools.RegisterAll(registry, client))
	return New(cfg, registry, zerolog.Nop()), &upstreamCalls
}

func okUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})
}

func doJSON(s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Config{}, okUpstream())
	rr := doJSON(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuth(t *testing.T) {
	s, _ := newTestServer(t, Config{Token: "secret"}, okUpstream())

	rr := doJSON(s, http.MethodGet, "/mcp/tools", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(s, http.MethodGet, "/mcp/tools", "wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(s, http.MethodGet, "/mcp/tools", "secret", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t, Config{}, okUpstream())
	rr := doJSON(s, http.MethodGet, "/mcp/tools", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Tools, 12)
}

func TestCallUnknownTool(t *testing.T) {
	s, _ := newTestServer(t, Config{}, okUpstream())
	rr := doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{"name": "nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCallValidationError(t *testing.T) {
	s, calls := newTestServer(t, Config{}, okUpstream())
	rr := doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{
		"name":      "search_spending_by_geography",
		"arguments": map[string]any{"geo_layer": "state", "geo_layer_filters": []string{"WA"}},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "scope")
	assert.EqualValues(t, 0, calls.Load())
}

func TestCallUpstreamError(t *testing.T) {
	s, _ := newTestServer(t, Config{}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "upstream sad"})
	}))

	rr := doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{
		"name":      "search_recipients",
		"arguments": map[string]any{"keyword": "Boeing"},
	})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.EqualValues(t, http.StatusInternalServerError, resp["upstream_status"])
	assert.Equal(t, "upstream sad", resp["message"])
}

func TestReferenceCallsAreCached(t *testing.T) {
	s, calls := newTestServer(t, Config{CacheTTL: time.Hour}, okUpstream())

	rr := doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{"name": "get_agencies"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, calls.Load())

	rr = doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{"name": "get_agencies"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, calls.Load(), "second call should hit the cache")
	assert.Contains(t, rr.Body.String(), `"cached":true`)
}

func TestSearchCallsAreNotCached(t *testing.T) {
	s, calls := newTestServer(t, Config{CacheTTL: time.Hour}, okUpstream())

	body := map[string]any{
		"name":      "search_recipients",
		"arguments": map[string]any{"keyword": "Boeing"},
	}
	for range 2 {
		rr := doJSON(s, http.MethodPost, "/mcp/call", "", body)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestScheduledWarmsReferenceCache(t *testing.T) {
	s, calls := newTestServer(t, Config{CacheTTL: time.Hour}, okUpstream())

	rr := doJSON(s, http.MethodPost, "/mcp/scheduled", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, len(tools.ReferenceToolNames), calls.Load())

	// Warmed entries serve the interactive path without upstream calls.
	rr = doJSON(s, http.MethodPost, "/mcp/call", "", map[string]any{"name": "get_glossary"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, len(tools.ReferenceToolNames), calls.Load())
}

func TestWarmReferenceCachePropagatesUpstreamFailure(t *testing.T) {
	s, _ := newTestServer(t, Config{}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	err := s.WarmReferenceCache(context.Background())
	var serr *usaspending.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.Code)
}

func TestCallInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t, Config{}, okUpstream())
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
