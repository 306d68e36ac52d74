package http

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

	"github.com/radiofm/stagehand/internal/adapters/memory"
	"github.com/radiofm/stagehand/internal/observability"
	"github.com/radiofm/stagehand/internal/status"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.New(testStart)
	handler := NewHandler(store, observability.New(),
		WithClock(func() time.Time { return testStart.Add(90 * time.Second) }),
	)
	return handler, store
}

func TestGetHealth(t *testing.T) {
	handler, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, status.StateStarting, resp["bot_status"])
}

func TestGetBotStatus(t *testing.T) {
	handler, store := newTestHandler(t)
	require.NoError(t, store.Update(context.Background(), func(s *status.Snapshot) {
		s.State = status.StateOnline
		s.Connection = "connected"
		s.PlayCount = 4
	}))

	req, _ := http.NewRequest("GET", "/bot-status", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "online", resp["status"])
	assert.Equal(t, "00:01:30", resp["uptime"])
	assert.Equal(t, float64(90), resp["uptime_seconds"])
	assert.Equal(t, "connected", resp["discord_connection"])
	assert.Equal(t, float64(4), resp["play_count"])
}

func TestPostLog(t *testing.T) {
	t.Run("Error Event Is Recorded", func(t *testing.T) {
		handler, store := newTestHandler(t)

		body := `{"type":"error","message":"voice connection dropped"}`
		req, _ := http.NewRequest("POST", "/log", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		snap, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "voice connection dropped", snap.LastError)
		require.Len(t, snap.Errors, 1)
	})

	t.Run("Status Event Updates Snapshot", func(t *testing.T) {
		handler, store := newTestHandler(t)

		body := `{"type":"status","status":"online","discord_connection":"connected","voice_connections":2,"play_count":11}`
		req, _ := http.NewRequest("POST", "/log", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		snap, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, status.StateOnline, snap.State)
		assert.Equal(t, "connected", snap.Connection)
		assert.Equal(t, 2, snap.VoiceConnections)
		assert.Equal(t, int64(11), snap.PlayCount)
	})

	t.Run("Info Event Changes Nothing", func(t *testing.T) {
		handler, store := newTestHandler(t)

		body := `{"message":"just saying"}`
		req, _ := http.NewRequest("POST", "/log", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		snap, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, status.StateStarting, snap.State)
	})

	t.Run("Invalid Body Is Rejected", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		req, _ := http.NewRequest("POST", "/log", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetMetrics(t *testing.T) {
	handler, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "stagehand_play_count")
}

func TestGetIndex(t *testing.T) {
	handler, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Radio FM")
}
