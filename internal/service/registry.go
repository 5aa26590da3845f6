package service

import "sync"

// ConnRegistry keeps the principal -> live session mapping. Last registered
// session wins; a disconnect for a superseded session must not evict the
// newer one, so unregistration is keyed by session and checked against the
// current owner mapping.
type ConnRegistry struct {
	mu          sync.RWMutex
	byPrincipal map[string]string
	bySession   map[string]string
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		byPrincipal: make(map[string]string),
		bySession:   make(map[string]string),
	}
}

func (r *ConnRegistry) Register(principalID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byPrincipal[principalID]; ok {
		delete(r.bySession, old)
	}
	r.byPrincipal[principalID] = sessionID
	r.bySession[sessionID] = principalID
}

func (r *ConnRegistry) Unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.bySession[sessionID]
	if !ok {
		return
	}
	if r.byPrincipal[owner] == sessionID {
		delete(r.byPrincipal, owner)
	}
	delete(r.bySession, sessionID)
}

func (r *ConnRegistry) Lookup(principalID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.byPrincipal[principalID]
	return sid, ok
}

func (r *ConnRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPrincipal = make(map[string]string)
	r.bySession = make(map[string]string)
}
