// Package service holds the in-process collaborators of the dispatch
// path: the presence registry and the cross-node signal relay.
package service

import (
	"sync"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// Registry tracks which live connections belong to which identity.
// A connection belongs to at most one identity at a time; re-joining
// under a different identity moves only that connection. All state is
// process-local and rebuilt on restart.
//
// Join, Leave and ConnectionsFor are linearizable.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[domain.Connection]struct{}
	byConn map[domain.Connection]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[domain.Connection]struct{}),
		byConn: make(map[domain.Connection]string),
	}
}

// Join registers conn under userID. Idempotent for the same pair; a
// conn already registered elsewhere is moved.
func (r *Registry) Join(userID string, conn domain.Connection) {
	if userID == "" || conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[conn]; ok {
		if prev == userID {
			return
		}
		r.detach(prev, conn)
	}

	set, ok := r.byUser[userID]
	if !ok {
		set = make(map[domain.Connection]struct{})
		r.byUser[userID] = set
	}
	set[conn] = struct{}{}
	r.byConn[conn] = userID
}

// Leave removes conn from whichever identity it was registered under.
// Unknown connections are ignored.
func (r *Registry) Leave(conn domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[conn]
	if !ok {
		return
	}
	r.detach(userID, conn)
}

// ConnectionsFor returns the live connections of userID. An unknown
// identity yields an empty slice, never an error.
func (r *Registry) ConnectionsFor(userID string) []domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[userID]
	conns := make([]domain.Connection, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	return conns
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// detach assumes r.mu is held for writing.
func (r *Registry) detach(userID string, conn domain.Connection) {
	delete(r.byConn, conn)
	if set, ok := r.byUser[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.byUser, userID)
		}
	}
}
