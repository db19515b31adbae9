package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.Logs))
	copy(out, m.Logs)
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	CacheHits      int
	CacheMisses    int
	VisitsRecorded int
	RecordFailures int
	VisitsDropped  int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncVisitsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisitsRecorded++
}
func (m *MockMetrics) IncVisitRecordFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordFailures++
}
func (m *MockMetrics) IncVisitsDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisitsDropped++
}
func (m *MockMetrics) ObserveInsertDuration(_ time.Duration) {}

// MockCompressor is a pass-through compressor.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockVisitStore is an in-memory store.VisitStoreInterface backed by a
// slice, with per-operation error injection.
type MockVisitStore struct {
	mu      sync.Mutex
	Records []*models.VisitRecord
	nextID  int64

	InsertErr error
	LatestErr error
	QueryErr  error
	PingErr   error
}

func (m *MockVisitStore) Insert(_ context.Context, rec *models.VisitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastVisit.IsZero() {
		rec.LastVisit = rec.CreatedAt
	}
	m.nextID++
	rec.ID = m.nextID
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockVisitStore) Latest(_ context.Context, ip, sessionID string) (*models.VisitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	var latest *models.VisitRecord
	for _, rec := range m.Records {
		if rec.IP != ip || rec.SessionID != sessionID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	return latest, nil
}

func (m *MockVisitStore) filtered(start, end *time.Time) []*models.VisitRecord {
	var out []*models.VisitRecord
	for _, rec := range m.Records {
		if start != nil && rec.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && rec.CreatedAt.After(*end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (m *MockVisitStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	return len(m.Records), nil
}

func (m *MockVisitStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	return len(m.filtered(&since, nil)), nil
}

func (m *MockVisitStore) CountCreatedBetween(_ context.Context, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	n := 0
	for _, rec := range m.Records {
		if !rec.CreatedAt.Before(start) && rec.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *MockVisitStore) CountCreatedWithin(_ context.Context, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	return len(m.filtered(&start, &end)), nil
}

func (m *MockVisitStore) CountLastVisitSince(_ context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	n := 0
	for _, rec := range m.Records {
		if !rec.LastVisit.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockVisitStore) DistinctSessions(_ context.Context, start, end *time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	seen := make(map[string]struct{})
	for _, rec := range m.filtered(start, end) {
		seen[rec.SessionID] = struct{}{}
	}
	return len(seen), nil
}

func (m *MockVisitStore) GroupCount(_ context.Context, column string, limit int, start, end *time.Time) ([]models.CountEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	counts := make(map[string]int)
	for _, rec := range m.filtered(start, end) {
		var label string
		switch column {
		case "page":
			label = rec.Page
		case "device":
			label = rec.Device
		case "country":
			label = rec.Country
		case "browser":
			label = rec.Browser
		case "os":
			label = rec.OS
		}
		counts[label]++
	}
	entries := make([]models.CountEntry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, models.CountEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockVisitStore) HourlyCounts(_ context.Context, start, end time.Time) ([]models.HourlyCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	counts := make(map[[2]int]int)
	for _, rec := range m.filtered(&start, &end) {
		key := [2]int{rec.CreatedAt.UTC().Day(), rec.CreatedAt.UTC().Hour()}
		counts[key]++
	}
	result := make([]models.HourlyCount, 0, len(counts))
	for key, count := range counts {
		result = append(result, models.HourlyCount{Day: key[0], Hour: key[1], Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].Hour < result[j].Hour
	})
	return result, nil
}

func (m *MockVisitStore) Recent(_ context.Context, limit int) ([]*models.VisitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	recs := make([]*models.VisitRecord, len(m.Records))
	copy(recs, m.Records)
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (m *MockVisitStore) Ping(_ context.Context) error { return m.PingErr }
func (m *MockVisitStore) Close() error                 { return nil }

// Len returns the number of stored records.
func (m *MockVisitStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}
