package aerox

import "sync/atomic"

// ConnectionID uniquely identifies a connection for the lifetime of a
// server process. Never reused.
type ConnectionID uint64

// IDGen allocates monotonically increasing ConnectionIDs starting at 1.
// Safe for concurrent use.
type IDGen struct {
	counter uint64
}

// Next returns the next ConnectionID. The first call returns 1.
func (g *IDGen) Next() ConnectionID {
	return ConnectionID(atomic.AddUint64(&g.counter, 1))
}
