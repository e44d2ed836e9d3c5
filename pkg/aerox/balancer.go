package aerox

import "sync/atomic"

// Balancer is a stateless round-robin worker selector.
type Balancer struct {
	workerCount uint64
	current     uint64
}

// NewBalancer returns a balancer over workerCount workers. workerCount
// must be at least 1; this is a fatal precondition the caller must
// check before construction (the reactor does so at startup).
func NewBalancer(workerCount int) *Balancer {
	if workerCount < 1 {
		panic("aerox: balancer requires at least one worker")
	}
	return &Balancer{workerCount: uint64(workerCount)}
}

// NextWorker returns the index of the next worker to hand a connection to.
func (b *Balancer) NextWorker() int {
	n := atomic.AddUint64(&b.current, 1) - 1
	return int(n % b.workerCount)
}
