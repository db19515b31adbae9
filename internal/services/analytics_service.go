// Package services computes dashboard statistics from the visit store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	topPagesLimit     = 10
	topCountriesLimit = 10
	defaultFeedLimit  = 20
)

// ErrMissingRange is returned when a ranged query lacks one of its
// boundaries. Checked before any query executes.
var ErrMissingRange = errors.New("start date and end date are required")

type AnalyticsServiceInterface interface {
	Overview(ctx context.Context) (*models.OverviewStats, error)
	RealTime(ctx context.Context) (*models.RealTimeStats, error)
	Range(ctx context.Context, start, end time.Time) (*models.RangeStats, error)
	Activity(ctx context.Context, limit int) ([]models.Activity, error)
}

type AnalyticsService struct {
	store store.VisitStoreInterface
}

func NewAnalyticsService(visitStore store.VisitStoreInterface) AnalyticsServiceInterface {
	return &AnalyticsService{store: visitStore}
}

// Overview computes the point-in-time dashboard statistics. The
// sub-queries are independent reads and run concurrently; counts are
// best-effort point-in-time, records inserted mid-aggregation may or
// may not be included.
func (as *AnalyticsService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, -1, 0)

	stats := &models.OverviewStats{LastUpdated: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVisitors, err = as.store.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayVisitors, err = as.store.CountCreatedSince(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		stats.YesterdayVisitors, err = as.store.CountCreatedBetween(gctx, yesterday, today)
		return err
	})
	g.Go(func() (err error) {
		stats.WeekVisitors, err = as.store.CountCreatedSince(gctx, weekAgo)
		return err
	})
	g.Go(func() (err error) {
		stats.MonthVisitors, err = as.store.CountCreatedSince(gctx, monthAgo)
		return err
	})
	g.Go(func() (err error) {
		stats.UniqueVisitors, err = as.store.DistinctSessions(gctx, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TopPages, err = as.store.GroupCount(gctx, store.ColumnPage, topPagesLimit, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.DeviceStats, err = as.store.GroupCount(gctx, store.ColumnDevice, 0, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.CountryStats, err = as.store.GroupCount(gctx, store.ColumnCountry, topCountriesLimit, nil, nil)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview statistics: %w", err)
	}
	return stats, nil
}

// RealTime reports activity over the last five minutes and hour.
// Current visitors are counted by lastVisit proximity, the other two
// by record creation time.
func (as *AnalyticsService) RealTime(ctx context.Context) (*models.RealTimeStats, error) {
	now := time.Now().UTC()
	fiveMinAgo := now.Add(-5 * time.Minute)
	hourAgo := now.Add(-time.Hour)

	stats := &models.RealTimeStats{Timestamp: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.CurrentVisitors, err = as.store.CountLastVisitSince(gctx, fiveMinAgo)
		return err
	})
	g.Go(func() (err error) {
		stats.Last5MinVisitors, err = as.store.CountCreatedSince(gctx, fiveMinAgo)
		return err
	})
	g.Go(func() (err error) {
		stats.LastHourVisitors, err = as.store.CountCreatedSince(gctx, hourAgo)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("real-time statistics: %w", err)
	}
	return stats, nil
}

// Range computes the overview shape constrained to [start, end], plus
// the hourly histogram. Both bounds are required.
func (as *AnalyticsService) Range(ctx context.Context, start, end time.Time) (*models.RangeStats, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingRange
	}

	stats := &models.RangeStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVisitors, err = as.store.CountCreatedWithin(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		stats.UniqueVisitors, err = as.store.DistinctSessions(gctx, &start, &end)
		return err
	})
	g.Go(func() (err error) {
		stats.TopPages, err = as.store.GroupCount(gctx, store.ColumnPage, topPagesLimit, &start, &end)
		return err
	})
	g.Go(func() (err error) {
		stats.DeviceStats, err = as.store.GroupCount(gctx, store.ColumnDevice, 0, &start, &end)
		return err
	})
	g.Go(func() (err error) {
		stats.CountryStats, err = as.store.GroupCount(gctx, store.ColumnCountry, topCountriesLimit, &start, &end)
		return err
	})
	g.Go(func() (err error) {
		stats.HourlyStats, err = as.store.HourlyCounts(gctx, start, end)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranged statistics: %w", err)
	}
	return stats, nil
}

// Activity renders the most recent visits as a dashboard feed.
func (as *AnalyticsService) Activity(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	recent, err := as.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	activities := make([]models.Activity, 0, len(recent))
	for _, rec := range recent {
		kind := "Returning"
		color := "text-blue-500"
		if rec.IsNewVisitor {
			kind = "New"
			color = "text-green-500"
		}
		activities = append(activities, models.Activity{
			ID:       rec.ID,
			Type:     "visit",
			Title:    fmt.Sprintf("%s visitor from %s", kind, rec.Country),
			Subtitle: fmt.Sprintf("Viewed %s on %s", rec.Page, rec.Device),
			Time:     rec.CreatedAt,
			Icon:     "visit",
			Color:    color,
			Details: models.ActivityDetails{
				IP:        rec.IP,
				Browser:   rec.Browser,
				OS:        rec.OS,
				SessionID: rec.SessionID,
			},
		})
	}
	return activities, nil
}
