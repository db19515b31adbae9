package controllers

import (
	"net/http"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/services"
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Accepted formats for the startDate/endDate query parameters.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

type AnalyticsController struct {
	logger  providers.Logger
	service services.AnalyticsServiceInterface
	cache   providers.CacheProviderInterface
}

func NewAnalyticsController(logger providers.Logger, service services.AnalyticsServiceInterface, cache providers.CacheProviderInterface) *AnalyticsController {
	return &AnalyticsController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	gson, _ := json.Marshal(map[string]string{"message": message})
	writeJSON(w, status, gson)
}

func (ac *AnalyticsController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeStats, "Error computing %s: %s", cacheKey, err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching visitor statistics")
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching visitor statistics")
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// GetVisitorStats serves the overall dashboard statistics.
func (ac *AnalyticsController) GetVisitorStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "analytics:overview", func() (any, error) {
		return ac.service.Overview(r.Context())
	})
}

// GetRealTimeStats serves the last-5-minutes / last-hour counters.
func (ac *AnalyticsController) GetRealTimeStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "analytics:realtime", func() (any, error) {
		return ac.service.RealTime(r.Context())
	})
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetRangeStats serves statistics constrained to an explicit window.
// Both boundaries are required; a missing or malformed one is a client
// error, never a silent default.
func (ac *AnalyticsController) GetRangeStats(w http.ResponseWriter, r *http.Request) {
	startParam := r.URL.Query().Get("startDate")
	endParam := r.URL.Query().Get("endDate")
	if startParam == "" || endParam == "" {
		writeMessage(w, http.StatusBadRequest, "Start date and end date are required")
		return
	}

	start, ok := parseDate(startParam)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid start date")
		return
	}
	end, ok := parseDate(endParam)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid end date")
		return
	}

	ac.serveFromCacheOrCompute(w, "analytics:range:"+startParam+":"+endParam, func() (any, error) {
		return ac.service.Range(r.Context(), start, end)
	})
}

// GetActivity serves the recent-activity feed. Served uncached so the
// feed stays live.
func (ac *AnalyticsController) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	activities, err := ac.service.Activity(r.Context(), limit)
	if err != nil {
		ac.logger.Errorf(providers.TypeStats, "Error fetching recent activity: %s", err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching recent activity")
		return
	}

	gson, err := json.Marshal(activities)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching recent activity")
		return
	}
	writeJSON(w, http.StatusOK, gson)
}
