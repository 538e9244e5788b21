package runtime

import (
	"fmt"
	"pawmatch/contract"
	"pawmatch/domain"
	"pawmatch/errors"
	"sync"
)

type Set map[string]struct{}

// Registry is the process local delivery index: match channel -> connections,
// user -> connections, and the reverse connection -> channels index used on disconnect.
// It never blocks on I/O while holding its lock.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]contract.Connection
	channels    map[domain.MatchID]Set
	joined      map[string]map[domain.MatchID]struct{}
	users       map[domain.UserID]Set
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]contract.Connection),
		channels:    make(map[domain.MatchID]Set),
		joined:      make(map[string]map[domain.MatchID]struct{}),
		users:       make(map[domain.UserID]Set),
	}
}

// Attach makes a connection reachable by user, for notifications that are not
// tied to a channel it joined. Attaching twice is a no-op.
func (r *Registry) Attach(conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attach(conn)
}

func (r *Registry) attach(conn contract.Connection) {
	id := conn.ConnID()
	r.connections[id] = conn
	if _, ok := r.users[conn.UserID()]; !ok {
		r.users[conn.UserID()] = make(Set)
	}
	r.users[conn.UserID()][id] = struct{}{}
}

// Join adds conn to the channel of match. Only the two owners may join.
func (r *Registry) Join(match domain.Match, conn contract.Connection) error {
	if !match.HasUser(conn.UserID()) {
		return fmt.Errorf("user %s joining match %s: %w", conn.UserID(), match.ID, errors.ErrForbidden)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := conn.ConnID()
	if _, ok := r.connections[id]; !ok {
		r.attach(conn)
	}
	if _, ok := r.channels[match.ID]; !ok {
		r.channels[match.ID] = make(Set)
	}
	r.channels[match.ID][id] = struct{}{}
	if _, ok := r.joined[id]; !ok {
		r.joined[id] = make(map[domain.MatchID]struct{})
	}
	r.joined[id][match.ID] = struct{}{}
	return nil
}

func (r *Registry) Leave(matchID domain.MatchID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leave(matchID, connID)
}

func (r *Registry) leave(matchID domain.MatchID, connID string) {
	if members, ok := r.channels[matchID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.channels, matchID)
		}
	}
	if matches, ok := r.joined[connID]; ok {
		delete(matches, matchID)
		if len(matches) == 0 {
			delete(r.joined, connID)
		}
	}
}

// MembersOf returns a snapshot, safe to range over after the lock is released.
func (r *Registry) MembersOf(matchID domain.MatchID) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.channels[matchID])
}

func (r *Registry) ConnectionsOf(userID domain.UserID) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.users[userID])
}

func (r *Registry) resolve(ids Set) []contract.Connection {
	conns := make([]contract.Connection, 0, len(ids))
	for id := range ids {
		if conn, ok := r.connections[id]; ok {
			conns = append(conns, conn)
		}
	}
	return conns
}

// Disconnect forgets a connection everywhere. Unknown ids are ignored.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnect(connID)
}

func (r *Registry) disconnect(connID string) {
	for matchID := range r.joined[connID] {
		r.leave(matchID, connID)
	}
	conn, ok := r.connections[connID]
	if !ok {
		return
	}
	delete(r.connections, connID)
	if ids, ok := r.users[conn.UserID()]; ok {
		delete(ids, connID)
		if len(ids) == 0 {
			delete(r.users, conn.UserID())
		}
	}
}

// Prune disconnects every connection that reports itself dead and returns how many were removed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for id, conn := range r.connections {
		if !conn.Alive() {
			r.disconnect(id)
			pruned++
		}
	}
	return pruned
}

func (r *Registry) Stats() (channels, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels), len(r.connections)
}
