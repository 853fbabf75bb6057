package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This file contains unit tests for each ops api handler.

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	ts := newTestShelf(nil)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	ts.api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	m := decodeResponse(t, res)
	_, ok := m["requestid"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", m["status"])
	assert.Equal(t, "Hello. Bookshelf api is available. Enjoy :)", m["message"])
}

func TestIndexHandler(t *testing.T) {
	ts := newTestShelf(nil)
	w := httptest.NewRecorder()
	ts.api.Index(w, httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/status", w.Header().Get("Location"))
}

func TestNotFoundHandler(t *testing.T) {
	ts := newTestShelf(nil)
	w := httptest.NewRecorder()
	ts.api.NotFound().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/books", nil))
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	m := decodeResponse(t, res)
	assert.Equal(t, "r:abc", m["requestid"])
	assert.Equal(t, "route does not exist", m["message"])
	assert.Equal(t, "GET /v2/books", m["path"])
}

// TestMaintenanceHandler ensures the maintenance mode can be enabled,
// noticed by shelf requests then disabled.
func TestMaintenanceHandler(t *testing.T) {
	ts := newTestShelf(nil)

	w := httptest.NewRecorder()
	ts.api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=enable&msg=upgrade", nil), httprouter.Params{})
	assert.Equal(t, http.StatusOK, w.Code)
	m := decodeResponse(t, w.Result())
	assert.Equal(t, "Maintenance mode enabled successfully.", m["message"])
	data, ok := m["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "upgrade", data["reason"])
	assert.Equal(t, NewMockClocker().Now().Format(time.RFC1123), data["since"])
	assert.True(t, ts.api.mode.enabled.Load())

	w = httptest.NewRecorder()
	handler := ts.api.MaintenanceModeMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler should not be called in maintenance mode")
	})
	handler(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil), httprouter.Params{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	m = decodeResponse(t, w.Result())
	assert.Equal(t, "service currently unavailable.", m["message"])
	data, ok = m["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "upgrade", data["reason"])

	w = httptest.NewRecorder()
	ts.api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=disable", nil), httprouter.Params{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ts.api.mode.enabled.Load())
	reason, since := ts.api.mode.state()
	assert.Empty(t, reason)
	assert.Empty(t, since)

	w = httptest.NewRecorder()
	ts.api.Maintenance(w, httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=show", nil), httprouter.Params{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, ts.api.mode.enabled.Load())
}

func TestGetStatisticsHandler(t *testing.T) {
	ts := newTestShelf(nil)
	_, err := ts.repo.Add(context.Background(), "Dune", "Herbert", NewYear(1965), false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ts.api.GetStatistics(w, httptest.NewRequest(http.MethodGet, "/ops/stats", nil), httprouter.Params{})
	assert.Equal(t, http.StatusOK, w.Code)
	m := decodeResponse(t, w.Result())
	data, ok := m["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["books"])
	assert.Equal(t, "0 mins", data["uptime"])
	assert.Equal(t, NewMockClocker().Now().Format(time.RFC1123), data["started"])
}

func TestGetConfigsHandler(t *testing.T) {
	ts := newTestShelf(nil)
	ts.api.config.Redis.Password = "secret"

	w := httptest.NewRecorder()
	ts.api.GetConfigs(w, httptest.NewRequest(http.MethodGet, "/ops/configs", nil), httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var m struct {
		Configs Config `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "*****", m.Configs.Redis.Password)
	assert.Equal(t, "secret", ts.api.config.Redis.Password)
}

// TestGetDebugVarsHandler ensures the expvar output carries the shelf size.
func TestGetDebugVarsHandler(t *testing.T) {
	ts := newTestShelf(nil)
	_, err := ts.repo.Add(context.Background(), "Dune", "Herbert", NewYear(1965), false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ts.api.GetDebugVars(w, httptest.NewRequest(http.MethodGet, "/ops/debug/vars", nil), httprouter.Params{})
	assert.Equal(t, http.StatusOK, w.Code)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, float64(1), m["books"])
	assert.Greater(t, m["goroutines"], float64(0))
}

// TestGetProfileHandler ensures only the exposed profiles are served.
func TestGetProfileHandler(t *testing.T) {
	ts := newTestShelf(nil)
	testCases := []struct {
		profile string
		status  int
	}{
		{"/", http.StatusOK},
		{"/heap", http.StatusOK},
		{"/goroutine", http.StatusOK},
		{"/mutex", http.StatusOK},
		{"/cmdline", http.StatusNotFound},
		{"/trace", http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.profile, func(t *testing.T) {
			w := httptest.NewRecorder()
			ts.api.GetProfile(w, httptest.NewRequest(http.MethodGet, "/ops/debug/pprof"+tc.profile, nil), httprouter.Params{{Key: "profile", Value: tc.profile}})
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
