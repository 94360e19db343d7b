package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jontk/fsdash/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	s := NewServer(0, logging.Nop())
	s.memoryReader = func() float64 { return 64 }
	return s
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer().Handler()

	w, body := get(t, h, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBasicNeverHitsCache(t *testing.T) {
	h := newTestServer().Handler()

	for i := 0; i < 2; i++ {
		w, body := get(t, h, "/basic/5")
		require.Equal(t, http.StatusOK, w.Code)

		metrics := body["metrics"].(map[string]interface{})
		assert.Equal(t, false, metrics["cache_hit"])
		assert.Equal(t, 64.0, metrics["memory_usage_mb"])
		assert.Contains(t, body, "computation_time")
	}
}

func TestOptimizedHitsAfterFirstRequest(t *testing.T) {
	h := newTestServer().Handler()

	_, first := get(t, h, "/optimized/9")
	_, second := get(t, h, "/optimized/9")

	assert.Equal(t, false, first["metrics"].(map[string]interface{})["cache_hit"])
	assert.Equal(t, true, second["metrics"].(map[string]interface{})["cache_hit"])
	assert.Equal(t, first["features"], second["features"])
}

func TestUnknownUser(t *testing.T) {
	h := newTestServer().Handler()

	w, body := get(t, h, "/basic/1000")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["detail"])

	w, _ = get(t, h, "/optimized/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsTracksRequests(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	get(t, h, "/basic/1")
	get(t, h, "/basic/2")
	get(t, h, "/optimized/1")
	get(t, h, "/optimized/1")

	w, body := get(t, h, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	basic := body["basic"].(map[string]interface{})
	optimized := body["optimized"].(map[string]interface{})
	assert.Equal(t, 2.0, basic["total_requests"])
	assert.Equal(t, 2.0, optimized["total_requests"])
	assert.Equal(t, 1.0, optimized["cache_size"])
	assert.Equal(t, 64.0, body["memory_usage_mb"])
}

func TestFailNext(t *testing.T) {
	s := newTestServer()
	h := s.Handler()
	s.FailNext("stats", 1)

	w, _ := get(t, h, "/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = get(t, h, "/stats")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicLatency(t *testing.T) {
	s := NewServer(20*time.Millisecond, logging.Nop())
	h := s.Handler()

	_, body := get(t, h, "/basic/3")
	assert.GreaterOrEqual(t, body["computation_time"].(float64), 20.0)
}

func TestComputeFeaturesIsStable(t *testing.T) {
	a := computeFeatures(42)
	b := computeFeatures(42)

	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.ChurnRisk, 0.0)
	assert.LessOrEqual(t, a.ChurnRisk, 100.0)
}

func TestListenAndServe(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", ready) }()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
