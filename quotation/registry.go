// Package quotation exposes the price-comparison engine over HTTP. One
// session lives in memory per open document; handlers mutate it and
// return the full state, so the page never derives values on its own.
package quotation

import (
	"sync"

	"github.com/google/uuid"

	"pdc/quote"
)

var (
	sessions   = make(map[string]*quote.Session)
	sessionsMu sync.RWMutex
)

func newSession() *quote.Session {
	s := quote.NewSession(uuid.NewString())
	sessionsMu.Lock()
	sessions[s.ID] = s
	sessionsMu.Unlock()
	return s
}

func registerSession(s *quote.Session) {
	sessionsMu.Lock()
	sessions[s.ID] = s
	sessionsMu.Unlock()
}

func getSession(id string) *quote.Session {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	return sessions[id]
}

func dropSession(id string) {
	sessionsMu.Lock()
	delete(sessions, id)
	sessionsMu.Unlock()
}
