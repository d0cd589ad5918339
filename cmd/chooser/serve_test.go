package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/telemetry"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestServeHandler(t *testing.T) {
	hub := telemetry.NewHub("test")
	defer hub.Close()
	h := newServeHandler(config.DefaultConfig(), hub, prometheus.NewRegistry(), nil)

	code, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	code, body = get(t, h, "/api/filesystem/browse?path="+t.TempDir())
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"directories": []`)

	code, _ = get(t, h, "/api/filesystem/browse?path=/definitely/not/here")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `chooser_directory_browse_total{result="ok"} 1`)
	assert.Contains(t, body, `chooser_directory_browse_total{result="error"} 1`)
}
