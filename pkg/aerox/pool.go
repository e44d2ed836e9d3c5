package aerox

import (
	"sync"
	"time"
)

// ConnectionPool is the shared map of active connections. Reads
// (Get/Contains/Len/List) take a read lock; mutation (Add/Remove/
// CleanupIdle) takes an exclusive lock, matching the spec's
// shared-read/exclusive-write policy.
type ConnectionPool struct {
	mu    sync.RWMutex
	conns map[ConnectionID]*liveConnection
}

// NewConnectionPool returns an empty pool.
func NewConnectionPool() *ConnectionPool {
	return &ConnectionPool{conns: make(map[ConnectionID]*liveConnection)}
}

// Add registers a new connection. now is the creation and initial
// last-active timestamp.
func (p *ConnectionPool) Add(id ConnectionID, peerAddr string, now time.Time) {
	lc := &liveConnection{snap: Connection{
		ID:         id,
		PeerAddr:   peerAddr,
		State:      Connecting,
		CreatedAt:  now,
		LastActive: now,
	}}
	p.mu.Lock()
	p.conns[id] = lc
	p.mu.Unlock()
}

// Remove deletes id from the pool. Removing an absent id is a no-op,
// matching the spec's idempotence requirement.
func (p *ConnectionPool) Remove(id ConnectionID) {
	p.mu.Lock()
	delete(p.conns, id)
	p.mu.Unlock()
}

// Get returns a snapshot of id's connection record, or false if absent.
func (p *ConnectionPool) Get(id ConnectionID) (Connection, bool) {
	p.mu.RLock()
	lc, ok := p.conns[id]
	p.mu.RUnlock()
	if !ok {
		return Connection{}, false
	}
	return lc.snapshot(), true
}

// Contains reports whether id is present.
func (p *ConnectionPool) Contains(id ConnectionID) bool {
	p.mu.RLock()
	_, ok := p.conns[id]
	p.mu.RUnlock()
	return ok
}

// Len returns the number of tracked connections.
func (p *ConnectionPool) Len() int {
	p.mu.RLock()
	n := len(p.conns)
	p.mu.RUnlock()
	return n
}

// IsEmpty reports whether the pool has no connections.
func (p *ConnectionPool) IsEmpty() bool { return p.Len() == 0 }

// Touch updates id's last-active timestamp, if present.
func (p *ConnectionPool) Touch(id ConnectionID, now time.Time) {
	p.mu.RLock()
	lc, ok := p.conns[id]
	p.mu.RUnlock()
	if ok {
		lc.touch(now)
	}
}

// SetState updates id's state, if present.
func (p *ConnectionPool) SetState(id ConnectionID, s ConnState) {
	p.mu.RLock()
	lc, ok := p.conns[id]
	p.mu.RUnlock()
	if ok {
		lc.setState(s)
	}
}

// List returns a snapshot of all tracked connections. Iteration order
// is unspecified, matching map iteration.
func (p *ConnectionPool) List() []Connection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Connection, 0, len(p.conns))
	for _, lc := range p.conns {
		out = append(out, lc.snapshot())
	}
	return out
}

// CleanupIdle removes every connection whose idle time is at least
// timeout as of now, returning the number removed. The scan and
// removal happen under a single exclusive lock, so no removed
// connection can be observed with idle_time < timeout by a concurrent
// reader after this call returns.
func (p *ConnectionPool) CleanupIdle(now time.Time, timeout time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for id, lc := range p.conns {
		snap := lc.snapshot()
		if snap.IdleTime(now) >= timeout {
			delete(p.conns, id)
			removed++
		}
	}
	return removed
}
