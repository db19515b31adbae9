package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockService struct {
	overview     *models.OverviewStats
	realTime     *models.RealTimeStats
	rangeStats   *models.RangeStats
	activities   []models.Activity
	err          error
	rangeCalls   [][2]time.Time
	activityLims []int
}

func (m *mockService) Overview(_ context.Context) (*models.OverviewStats, error) {
	return m.overview, m.err
}
func (m *mockService) RealTime(_ context.Context) (*models.RealTimeStats, error) {
	return m.realTime, m.err
}
func (m *mockService) Range(_ context.Context, start, end time.Time) (*models.RangeStats, error) {
	m.rangeCalls = append(m.rangeCalls, [2]time.Time{start, end})
	return m.rangeStats, m.err
}
func (m *mockService) Activity(_ context.Context, limit int) ([]models.Activity, error) {
	m.activityLims = append(m.activityLims, limit)
	return m.activities, m.err
}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

func newTestController(svc *mockService, cache *mockCache) *AnalyticsController {
	return NewAnalyticsController(&mockLogger{}, svc, cache)
}

// --- GetVisitorStats tests ---

func TestGetVisitorStats_ReturnsJSON(t *testing.T) {
	svc := &mockService{overview: &models.OverviewStats{
		TotalVisitors: 42,
		TopPages:      []models.CountEntry{{Label: "/a", Count: 10}},
	}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	rr := httptest.NewRecorder()

	ac.GetVisitorStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var result models.OverviewStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 42, result.TotalVisitors)
	require.Len(t, result.TopPages, 1)
	assert.Equal(t, "/a", result.TopPages[0].Label)
}

func TestGetVisitorStats_ServiceError(t *testing.T) {
	svc := &mockService{err: errors.New("db gone")}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	rr := httptest.NewRecorder()

	ac.GetVisitorStats(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Error fetching visitor statistics")
}

// --- GetRealTimeStats tests ---

func TestGetRealTimeStats_ReturnsJSON(t *testing.T) {
	svc := &mockService{realTime: &models.RealTimeStats{CurrentVisitors: 3}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors/realtime", nil)
	rr := httptest.NewRecorder()

	ac.GetRealTimeStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result models.RealTimeStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 3, result.CurrentVisitors)
}

// --- GetRangeStats tests ---

func TestGetRangeStats_MissingParams(t *testing.T) {
	for _, query := range []string{"", "?startDate=2026-08-01", "?endDate=2026-08-02"} {
		t.Run("query="+query, func(t *testing.T) {
			svc := &mockService{rangeStats: &models.RangeStats{}}
			ac := newTestController(svc, newMockCache())

			req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors/range"+query, nil)
			rr := httptest.NewRecorder()

			ac.GetRangeStats(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "Start date and end date are required")
			assert.Empty(t, svc.rangeCalls)
		})
	}
}

func TestGetRangeStats_InvalidDates(t *testing.T) {
	svc := &mockService{rangeStats: &models.RangeStats{}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors/range?startDate=not-a-date&endDate=2026-08-02", nil)
	rr := httptest.NewRecorder()

	ac.GetRangeStats(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid start date")
	assert.Empty(t, svc.rangeCalls)
}

func TestGetRangeStats_DateOnlyFormat(t *testing.T) {
	svc := &mockService{rangeStats: &models.RangeStats{TotalVisitors: 7}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors/range?startDate=2026-08-01&endDate=2026-08-02", nil)
	rr := httptest.NewRecorder()

	ac.GetRangeStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, svc.rangeCalls, 1)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), svc.rangeCalls[0][0])
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), svc.rangeCalls[0][1])
}

func TestGetRangeStats_RFC3339Format(t *testing.T) {
	svc := &mockService{rangeStats: &models.RangeStats{}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet,
		"/api/analytics/visitors/range?startDate=2026-08-01T10:00:00Z&endDate=2026-08-01T12:00:00Z", nil)
	rr := httptest.NewRecorder()

	ac.GetRangeStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, svc.rangeCalls, 1)
	assert.Equal(t, 10, svc.rangeCalls[0][0].Hour())
}

// --- GetActivity tests ---

func TestGetActivity_ReturnsJSON(t *testing.T) {
	svc := &mockService{activities: []models.Activity{
		{ID: 1, Type: "visit", Title: "New visitor from Mongolia"},
	}}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity", nil)
	rr := httptest.NewRecorder()

	ac.GetActivity(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result []models.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "New visitor from Mongolia", result[0].Title)
}

func TestGetActivity_LimitParam(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity?limit=5", nil)
	rr := httptest.NewRecorder()

	ac.GetActivity(rr, req)

	require.Len(t, svc.activityLims, 1)
	assert.Equal(t, 5, svc.activityLims[0])
}

func TestGetActivity_MissingLimitPassesZero(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity", nil)
	rr := httptest.NewRecorder()

	ac.GetActivity(rr, req)

	require.Len(t, svc.activityLims, 1)
	assert.Equal(t, 0, svc.activityLims[0])
}

func TestGetActivity_ServiceError(t *testing.T) {
	svc := &mockService{err: errors.New("db gone")}
	ac := newTestController(svc, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity", nil)
	rr := httptest.NewRecorder()

	ac.GetActivity(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Error fetching recent activity")
}

// --- Cache behavior tests ---

func TestCacheHit_ServiceNotCalled(t *testing.T) {
	cache := newMockCache()
	cached, _ := json.Marshal(models.OverviewStats{TotalVisitors: 99})
	cache.Set("analytics:overview", cached)

	svc := &mockService{err: errors.New("service must not be called")}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	rr := httptest.NewRecorder()

	ac.GetVisitorStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(cached), rr.Body.String())
}

func TestCacheMiss_SavesResult(t *testing.T) {
	cache := newMockCache()
	svc := &mockService{overview: &models.OverviewStats{TotalVisitors: 1}}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	rr := httptest.NewRecorder()

	ac.GetVisitorStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	val, ok := cache.Get("analytics:overview")
	assert.True(t, ok)
	assert.NotEmpty(t, val)
}

func TestCacheKey_RangeIncludesBounds(t *testing.T) {
	cache := newMockCache()
	svc := &mockService{rangeStats: &models.RangeStats{}}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors/range?startDate=2026-08-01&endDate=2026-08-02", nil)
	rr := httptest.NewRecorder()

	ac.GetRangeStats(rr, req)

	_, ok := cache.Get("analytics:range:2026-08-01:2026-08-02")
	assert.True(t, ok)
}

func TestActivity_NotCached(t *testing.T) {
	cache := newMockCache()
	svc := &mockService{activities: []models.Activity{}}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity", nil)
	rr := httptest.NewRecorder()

	ac.GetActivity(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, cache.data)
}

func TestErrorResponse_NotCached(t *testing.T) {
	cache := newMockCache()
	svc := &mockService{err: errors.New("db gone")}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	rr := httptest.NewRecorder()

	ac.GetVisitorStats(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, cache.data)
}
