// Package store persists visit records in SQLite and serves the
// aggregation queries the dashboard needs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Grouping columns accepted by GroupCount.
const (
	ColumnPage    = "page"
	ColumnDevice  = "device"
	ColumnCountry = "country"
	ColumnBrowser = "browser"
	ColumnOS      = "os"
)

var groupColumns = map[string]struct{}{
	ColumnPage:    {},
	ColumnDevice:  {},
	ColumnCountry: {},
	ColumnBrowser: {},
	ColumnOS:      {},
}

// timeLayout is a fixed-width UTC format so that string comparison in
// SQLite agrees with chronological order and strftime can bucket it.
const timeLayout = "2006-01-02 15:04:05.000"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ip TEXT NOT NULL,
    user_agent TEXT NOT NULL,
    referer TEXT NOT NULL DEFAULT '',
    page TEXT NOT NULL,
    country TEXT NOT NULL DEFAULT 'Unknown',
    city TEXT NOT NULL DEFAULT 'Unknown',
    device TEXT NOT NULL DEFAULT 'desktop',
    browser TEXT NOT NULL DEFAULT 'Unknown',
    os TEXT NOT NULL DEFAULT 'Unknown',
    session_id TEXT NOT NULL,
    is_new_visitor INTEGER NOT NULL DEFAULT 1,
    visit_count INTEGER NOT NULL DEFAULT 1,
    last_visit TEXT NOT NULL,
    visit_duration INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_visits_ip_session ON visits(ip, session_id);
CREATE INDEX IF NOT EXISTS idx_visits_page ON visits(page);
`

type VisitStoreInterface interface {
	Insert(ctx context.Context, rec *models.VisitRecord) error
	Latest(ctx context.Context, ip, sessionID string) (*models.VisitRecord, error)
	Count(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	// CountCreatedBetween counts records with start <= created_at < end.
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
	// CountCreatedWithin counts records with start <= created_at <= end.
	CountCreatedWithin(ctx context.Context, start, end time.Time) (int, error)
	CountLastVisitSince(ctx context.Context, since time.Time) (int, error)
	DistinctSessions(ctx context.Context, start, end *time.Time) (int, error)
	GroupCount(ctx context.Context, column string, limit int, start, end *time.Time) ([]models.CountEntry, error)
	HourlyCounts(ctx context.Context, start, end time.Time) ([]models.HourlyCount, error)
	Recent(ctx context.Context, limit int) ([]*models.VisitRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

type VisitStore struct {
	db     *sql.DB
	logger providers.Logger
}

func NewVisitStore(conf *structures.Config, logger providers.Logger) (VisitStoreInterface, error) {
	return OpenVisitStore(conf.Storage.Path, logger)
}

func OpenVisitStore(path string, logger providers.Logger) (*VisitStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debugf(providers.TypeApp, "Visit store initialized at %s", path)

	return &VisitStore{db: db, logger: logger}, nil
}

func (s *VisitStore) Insert(ctx context.Context, rec *models.VisitRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastVisit.IsZero() {
		rec.LastVisit = rec.CreatedAt
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (
			ip, user_agent, referer, page, country, city,
			device, browser, os, session_id, is_new_visitor,
			visit_count, last_visit, visit_duration, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.IP, rec.UserAgent, rec.Referer, rec.Page, rec.Country, rec.City,
		rec.Device, rec.Browser, rec.OS, rec.SessionID, rec.IsNewVisitor,
		rec.VisitCount, fmtTime(rec.LastVisit), rec.VisitDuration, fmtTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// Latest returns the most recent record for (ip, sessionID), or nil when
// the pair has never been seen.
func (s *VisitStore) Latest(ctx context.Context, ip, sessionID string) (*models.VisitRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ip, user_agent, referer, page, country, city,
		       device, browser, os, session_id, is_new_visitor,
		       visit_count, last_visit, visit_duration, created_at
		FROM visits
		WHERE ip = ? AND session_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, ip, sessionID)

	rec, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest visit: %w", err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*models.VisitRecord, error) {
	var rec models.VisitRecord
	var lastVisit, createdAt string
	err := row.Scan(&rec.ID, &rec.IP, &rec.UserAgent, &rec.Referer, &rec.Page,
		&rec.Country, &rec.City, &rec.Device, &rec.Browser, &rec.OS,
		&rec.SessionID, &rec.IsNewVisitor, &rec.VisitCount, &lastVisit,
		&rec.VisitDuration, &createdAt)
	if err != nil {
		return nil, err
	}
	if rec.LastVisit, err = parseTime(lastVisit); err != nil {
		return nil, fmt.Errorf("failed to parse last_visit: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &rec, nil
}

func (s *VisitStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return n, nil
}

func (s *VisitStore) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM visits`)
}

func (s *VisitStore) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM visits WHERE created_at >= ?`, fmtTime(since))
}

func (s *VisitStore) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM visits WHERE created_at >= ? AND created_at < ?`,
		fmtTime(start), fmtTime(end))
}

func (s *VisitStore) CountCreatedWithin(ctx context.Context, start, end time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM visits WHERE created_at >= ? AND created_at <= ?`,
		fmtTime(start), fmtTime(end))
}

func (s *VisitStore) CountLastVisitSince(ctx context.Context, since time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM visits WHERE last_visit >= ?`, fmtTime(since))
}

// window builds the optional created_at constraint shared by the
// windowed aggregations. Both bounds are inclusive, matching the
// ranged-statistics contract.
func window(start, end *time.Time) (string, []any) {
	var clauses []string
	var args []any
	if start != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, fmtTime(*start))
	}
	if end != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, fmtTime(*end))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *VisitStore) DistinctSessions(ctx context.Context, start, end *time.Time) (int, error) {
	where, args := window(start, end)
	return s.count(ctx, `SELECT COUNT(DISTINCT session_id) FROM visits`+where, args...)
}

func (s *VisitStore) GroupCount(ctx context.Context, column string, limit int, start, end *time.Time) ([]models.CountEntry, error) {
	if _, ok := groupColumns[column]; !ok {
		return nil, fmt.Errorf("unsupported group column: %q", column)
	}

	where, args := window(start, end)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS cnt
		FROM visits%s
		GROUP BY %s
		ORDER BY cnt DESC, %s ASC
	`, column, where, column, column)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s counts: %w", column, err)
	}
	defer rows.Close()

	var result []models.CountEntry
	for rows.Next() {
		var entry models.CountEntry
		if err := rows.Scan(&entry.Label, &entry.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return result, nil
}

func (s *VisitStore) HourlyCounts(ctx context.Context, start, end time.Time) ([]models.HourlyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%d', created_at) AS INTEGER) AS day,
		       CAST(strftime('%H', created_at) AS INTEGER) AS hour,
		       COUNT(*)
		FROM visits
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY day, hour
		ORDER BY day ASC, hour ASC
	`, fmtTime(start), fmtTime(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly counts: %w", err)
	}
	defer rows.Close()

	var result []models.HourlyCount
	for rows.Next() {
		var hc models.HourlyCount
		if err := rows.Scan(&hc.Day, &hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hourly count: %w", err)
		}
		result = append(result, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hourly counts: %w", err)
	}
	return result, nil
}

func (s *VisitStore) Recent(ctx context.Context, limit int) ([]*models.VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ip, user_agent, referer, page, country, city,
		       device, browser, os, session_id, is_new_visitor,
		       visit_count, last_visit, visit_duration, created_at
		FROM visits
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent visits: %w", err)
	}
	defer rows.Close()

	var result []*models.VisitRecord
	for rows.Next() {
		rec, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return result, nil
}

func (s *VisitStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *VisitStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
