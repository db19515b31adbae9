package tracking

import (
	"net/http"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/store"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/google/uuid"
)

const SessionCookieName = "sessionId"

// Session is the resolved visit identity for one tracked request.
type Session struct {
	ID           string
	IsNewVisitor bool
	VisitCount   int
}

// SessionResolver mints session cookies and decides new vs returning
// visits using the session-timeout window.
type SessionResolver struct {
	store        store.VisitStoreInterface
	logger       providers.Logger
	timeout      time.Duration
	cookieMaxAge time.Duration
}

func NewSessionResolver(conf *structures.Config, visitStore store.VisitStoreInterface, logger providers.Logger) *SessionResolver {
	return &SessionResolver{
		store:        visitStore,
		logger:       logger,
		timeout:      conf.Tracking.SessionTimeout,
		cookieMaxAge: conf.Tracking.CookieMaxAge,
	}
}

// Resolve returns the session for the request, minting a cookie when
// none is present. A store lookup failure degrades to a new visit; it
// never blocks the request.
//
// The read-decide-insert sequence is deliberately not transactional:
// two concurrent first hits from the same session may both be counted
// as new. Accepted behavior.
func (sr *SessionResolver) Resolve(w http.ResponseWriter, r *http.Request, ip string) Session {
	var id string
	if c, err := r.Cookie(SessionCookieName); err == nil {
		id = c.Value
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(sr.cookieMaxAge.Seconds()),
			HttpOnly: true,
		})
	}

	prev, err := sr.store.Latest(r.Context(), ip, id)
	if err != nil {
		sr.logger.Warnf(providers.TypeTrack, "Session lookup failed, treating visitor as new: %s", err)
		return Session{ID: id, IsNewVisitor: true, VisitCount: 1}
	}

	if prev == nil || time.Since(prev.LastVisit) > sr.timeout {
		return Session{ID: id, IsNewVisitor: true, VisitCount: 1}
	}
	return Session{ID: id, IsNewVisitor: false, VisitCount: prev.VisitCount + 1}
}
