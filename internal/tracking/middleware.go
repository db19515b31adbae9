package tracking

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
)

// Paths under these prefixes are never tracked.
var skipPrefixes = []string{"/admin", "/api", "/worker", "/health", "/metrics"}

// Static-asset extensions, never tracked.
var staticSuffixes = []string{
	".css", ".js", ".png", ".jpg", ".jpeg", ".gif",
	".ico", ".svg", ".woff", ".woff2", ".ttf", ".eot",
}

// GeoResolver maps a client IP to a country and city. No implementation
// ships here; without one every record carries the Unknown placeholder.
type GeoResolver interface {
	Locate(ip string) (country, city string)
}

type visitInfoKey struct{}

// VisitInfoFromContext returns the visit context attached by the
// tracking middleware, if the request was tracked.
func VisitInfoFromContext(ctx context.Context) (models.VisitInfo, bool) {
	info, ok := ctx.Value(visitInfoKey{}).(models.VisitInfo)
	return info, ok
}

// Tracker is the request-path gate: it decides which requests are
// tracked and orchestrates classification, session resolution and
// recording.
type Tracker struct {
	resolver *SessionResolver
	recorder *VisitRecorder
	logger   providers.Logger
	geo      GeoResolver
}

func NewTracker(resolver *SessionResolver, recorder *VisitRecorder, logger providers.Logger) *Tracker {
	return &Tracker{
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
	}
}

// WithGeoResolver attaches an external geo lookup collaborator.
func (t *Tracker) WithGeoResolver(geo GeoResolver) *Tracker {
	t.geo = geo
	return t
}

func trackable(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	for _, suffix := range staticSuffixes {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	return true
}

// Middleware wraps next with visitor tracking. Tracking is absolutely
// fail-open: whatever goes wrong inside the track path, the wrapped
// handler still runs as if the request had been skipped.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trackable(r.URL.Path) {
			r = t.track(w, r)
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Tracker) track(w http.ResponseWriter, r *http.Request) (out *http.Request) {
	out = r
	defer func() {
		if rec := recover(); rec != nil {
			t.logger.Errorf(providers.TypeTrack, "Visitor tracking error: %v", rec)
		}
	}()

	ip := ClientIP(r)
	userAgent := r.Header.Get("User-Agent")
	sess := t.resolver.Resolve(w, r, ip)

	country, city := models.Unknown, models.Unknown
	if t.geo != nil {
		country, city = t.geo.Locate(ip)
	}

	now := time.Now().UTC()
	rec := &models.VisitRecord{
		IP:           ip,
		UserAgent:    userAgent,
		Referer:      r.Header.Get("Referer"),
		Page:         r.URL.Path,
		Country:      country,
		City:         city,
		Device:       DetectDevice(userAgent),
		Browser:      DetectBrowser(userAgent),
		OS:           DetectOS(userAgent),
		SessionID:    sess.ID,
		IsNewVisitor: sess.IsNewVisitor,
		VisitCount:   sess.VisitCount,
		LastVisit:    now,
	}
	t.recorder.Record(rec)

	info := models.VisitInfo{
		SessionID:    sess.ID,
		IsNewVisitor: sess.IsNewVisitor,
		Device:       rec.Device,
		Browser:      rec.Browser,
		OS:           rec.OS,
	}
	out = r.WithContext(context.WithValue(r.Context(), visitInfoKey{}, info))
	return out
}
