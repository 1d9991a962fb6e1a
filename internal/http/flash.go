package http

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// DefaultSessionName is the cookie carrying admin flash messages.
const DefaultSessionName = "teamcms_admin"

type flasher struct {
	store sessions.Store
	name  string
}

func (f flasher) enabled() bool {
	return f.store != nil && f.name != ""
}

// add records message under kind. A session that fails to decode is replaced
// by a fresh one.
func (f flasher) add(w http.ResponseWriter, r *http.Request, kind, message string) error {
	if !f.enabled() {
		return nil
	}
	session, _ := f.store.Get(r, f.name)
	session.AddFlash(message, kind)
	return session.Save(r, w)
}

// consume returns and clears every pending message grouped by kind.
func (f flasher) consume(w http.ResponseWriter, r *http.Request) (map[string][]string, error) {
	out := map[string][]string{}
	if !f.enabled() {
		return out, nil
	}
	session, _ := f.store.Get(r, f.name)
	found := false
	for _, kind := range []string{FlashSuccess, FlashWarning, FlashError} {
		for _, raw := range session.Flashes(kind) {
			if message, ok := raw.(string); ok {
				out[kind] = append(out[kind], message)
				found = true
			}
		}
	}
	if !found {
		return out, nil
	}
	return out, session.Save(r, w)
}
