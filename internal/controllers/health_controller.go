package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/store"
	json "github.com/goccy/go-json"
)

type HealthController struct {
	store     store.VisitStoreInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Database      string  `json:"database"`
	TotalVisits   int     `json:"total_visits"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	dbStatus := "Connected"
	if err := hc.store.Ping(r.Context()); err != nil {
		dbStatus = "Disconnected"
	}

	// Best-effort; a count failure does not fail the health check.
	total, _ := hc.store.Count(r.Context())

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Database:      dbStatus,
		TotalVisits:   total,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(visitStore store.VisitStoreInterface) *HealthController {
	return &HealthController{
		store:     visitStore,
		startTime: time.Now(),
	}
}
