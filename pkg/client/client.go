// Package client is AeroX's symmetric client counterpart: a split
// reader/writer connection with its own per-connection sequence_id
// generator.
package client

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"aerox/internal/aeroxerr"
	"aerox/pkg/frame"
)

// State is the connection's lifecycle state.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
	ShuttingDown
)

// SequenceGenerator hands out monotonically increasing sequence_ids
// starting at 1. Safe for concurrent use.
type SequenceGenerator struct {
	counter int64
}

// Next returns the next sequence_id.
func (s *SequenceGenerator) Next() uint32 {
	return uint32(atomic.AddInt64(&s.counter, 1))
}

// Connection is a mirror of the server's connection handling: a read
// half yielding frames, and a write half fed by a bounded channel and
// drained by a background writer goroutine.
type Connection struct {
	conn       net.Conn
	dec        *frame.Decoder
	sendCh     chan frame.Frame
	writerDone chan struct{}
	seq        SequenceGenerator

	mu    sync.RWMutex
	state State
}

// Dial connects to addr within ctx's deadline and starts the
// background writer task. Auto-reconnect is intentionally not
// implemented: callers needing retry/backoff supervise Dial
// themselves.
func Dial(ctx context.Context, addr string, writeQueueCapacity int) (*Connection, error) {
	if writeQueueCapacity <= 0 {
		writeQueueCapacity = 128
	}
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, aeroxerr.Wrap(aeroxerr.Connection, err, "dial %s failed", addr)
	}

	c := &Connection{
		conn:       conn,
		dec:        frame.NewDecoder(conn),
		sendCh:     make(chan frame.Frame, writeQueueCapacity),
		writerDone: make(chan struct{}),
		state:      Connecting,
	}

	go c.writerTask()
	c.setState(Connected)
	return c, nil
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Connection) writerTask() {
	defer close(c.writerDone)
	enc := frame.NewEncoder(c.conn)
	for f := range c.sendCh {
		if c.State() != Connected {
			return
		}
		if err := enc.Write(f); err != nil {
			c.setState(Disconnected)
			return
		}
		if err := enc.Flush(); err != nil {
			c.setState(Disconnected)
			return
		}
	}
}

// Send frames a request with the next sequence_id and enqueues it for
// the writer task. It blocks if the write queue is full.
func (c *Connection) Send(messageID uint16, body []byte) error {
	if c.State() != Connected {
		return aeroxerr.ConnectionErr("send on non-connected connection")
	}
	f := frame.New(messageID, c.seq.Next(), body)
	select {
	case c.sendCh <- f:
		return nil
	case <-c.writerDone:
		return aeroxerr.ConnectionErr("send failed, writer task exited")
	}
}

// Recv blocks until the next frame arrives, or an error (including
// io.EOF on peer close) occurs.
func (c *Connection) Recv() (frame.Frame, error) {
	return c.dec.Next()
}

// Close shuts down the connection: no further sends are accepted, the
// writer task exits without writing frames still queued, and the
// socket is closed.
func (c *Connection) Close() error {
	c.setState(ShuttingDown)
	close(c.sendCh)
	<-c.writerDone
	c.setState(Disconnected)
	return c.conn.Close()
}

// ConnectTimeout is the default dial timeout used by callers that
// don't need a custom context.
const ConnectTimeout = 10 * time.Second
