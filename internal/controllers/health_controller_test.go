package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Connected(t *testing.T) {
	store := &testutil.MockVisitStore{}
	hc := NewHealthController(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "Connected", resp["database"])
	assert.Equal(t, float64(0), resp["total_visits"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestHealth_Disconnected(t *testing.T) {
	store := &testutil.MockVisitStore{PingErr: errors.New("db gone")}
	hc := NewHealthController(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Disconnected", resp["database"])
}

func TestHealth_CountFailureStillOK(t *testing.T) {
	store := &testutil.MockVisitStore{QueryErr: errors.New("db gone")}
	hc := NewHealthController(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&testutil.MockVisitStore{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()

	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m0s", formatDuration(0))
	assert.Equal(t, "1h1m5s", formatDuration(time.Hour+time.Minute+5*time.Second))
	assert.Equal(t, "25h0m30s", formatDuration(25*time.Hour+30*time.Second))
}
