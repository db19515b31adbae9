// Package tracking classifies, correlates and records page visits.
// Everything in it is best-effort telemetry: no code path here may
// break the page request it observes.
package tracking

import (
	"net/http"
	"strings"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
)

// Mobile-device tokens, matched case-insensitively.
var mobileTokens = []string{
	"android", "webos", "iphone", "ipad", "ipod",
	"blackberry", "iemobile", "opera mini",
}

type signature struct {
	token string
	label string
}

// Evaluated in order. Chrome user agents also contain "Safari", so
// Chrome must come before Safari; the order is load-bearing.
var browserSignatures = []signature{
	{"Chrome", "Chrome"},
	{"Firefox", "Firefox"},
	{"Safari", "Safari"},
	{"Edge", "Edge"},
	{"Opera", "Opera"},
}

var osSignatures = []signature{
	{"Windows", "Windows"},
	{"Mac", "macOS"},
	{"Linux", "Linux"},
	{"Android", "Android"},
	{"iOS", "iOS"},
}

// DetectDevice classifies a user agent as tablet, mobile or desktop.
// The tablet check runs first: iPad, or Android together with the
// Mobile token.
func DetectDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "ipad") ||
		(strings.Contains(ua, "android") && strings.Contains(ua, "mobile")) {
		return models.DeviceTablet
	}
	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return models.DeviceMobile
		}
	}
	return models.DeviceDesktop
}

// DetectBrowser returns the browser family, or Unknown.
func DetectBrowser(userAgent string) string {
	for _, sig := range browserSignatures {
		if strings.Contains(userAgent, sig.token) {
			return sig.label
		}
	}
	return models.Unknown
}

// DetectOS returns the operating-system family, or Unknown.
func DetectOS(userAgent string) string {
	for _, sig := range osSignatures {
		if strings.Contains(userAgent, sig.token) {
			return sig.label
		}
	}
	return models.Unknown
}

// ClientIP extracts the client address from proxy headers, falling back
// to the transport-level remote address. Header values are taken on
// trust; this is a heuristic, not a security control.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i != -1 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr != "" {
		ip := r.RemoteAddr
		if i := strings.LastIndex(ip, ":"); i != -1 {
			ip = ip[:i]
		}
		if ip != "" {
			return ip
		}
	}
	return "127.0.0.1"
}
