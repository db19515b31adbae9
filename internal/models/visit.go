package models

import "time"

// Device types assigned by the classifier.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// Unknown is the placeholder for fields no collaborator resolved
// (country, city, browser, os).
const Unknown = "Unknown"

// VisitRecord is one tracked page request. Records are immutable once
// persisted; corrections happen via new records, never updates.
type VisitRecord struct {
	ID            int64     `json:"id"`
	IP            string    `json:"ip"`
	UserAgent     string    `json:"userAgent"`
	Referer       string    `json:"referer"`
	Page          string    `json:"page"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	Device        string    `json:"device"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os"`
	SessionID     string    `json:"sessionId"`
	IsNewVisitor  bool      `json:"isNewVisitor"`
	VisitCount    int       `json:"visitCount"`
	LastVisit     time.Time `json:"lastVisit"`
	VisitDuration int       `json:"visitDuration"` // reserved, always 0
	CreatedAt     time.Time `json:"createdAt"`
}

// VisitInfo is the summarized visit context the tracking middleware
// attaches to the request for downstream handlers.
type VisitInfo struct {
	SessionID    string `json:"sessionId"`
	IsNewVisitor bool   `json:"isNewVisitor"`
	Device       string `json:"device"`
	Browser      string `json:"browser"`
	OS           string `json:"os"`
}

// CountEntry is a label with its visit count, used by every grouped
// aggregation (top pages, devices, countries).
type CountEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type HourlyCount struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type OverviewStats struct {
	TotalVisitors     int          `json:"totalVisitors"`
	TodayVisitors     int          `json:"todayVisitors"`
	YesterdayVisitors int          `json:"yesterdayVisitors"`
	WeekVisitors      int          `json:"weekVisitors"`
	MonthVisitors     int          `json:"monthVisitors"`
	UniqueVisitors    int          `json:"uniqueVisitors"`
	TopPages          []CountEntry `json:"topPages"`
	DeviceStats       []CountEntry `json:"deviceStats"`
	CountryStats      []CountEntry `json:"countryStats"`
	LastUpdated       time.Time    `json:"lastUpdated"`
}

type RealTimeStats struct {
	CurrentVisitors  int       `json:"currentVisitors"`
	Last5MinVisitors int       `json:"last5MinVisitors"`
	LastHourVisitors int       `json:"lastHourVisitors"`
	Timestamp        time.Time `json:"timestamp"`
}

type RangeStats struct {
	TotalVisitors  int           `json:"totalVisitors"`
	UniqueVisitors int           `json:"uniqueVisitors"`
	TopPages       []CountEntry  `json:"topPages"`
	DeviceStats    []CountEntry  `json:"deviceStats"`
	CountryStats   []CountEntry  `json:"countryStats"`
	HourlyStats    []HourlyCount `json:"hourlyStats"`
}

// Activity is a dashboard feed line rendered from one VisitRecord.
type Activity struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Time     time.Time       `json:"time"`
	Icon     string          `json:"icon"`
	Color    string          `json:"color"`
	Details  ActivityDetails `json:"details"`
}

type ActivityDetails struct {
	IP        string `json:"ip"`
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	SessionID string `json:"sessionId"`
}
