package aerox

import "time"

// Response is a server-originated (message_id, body) pair waiting to be
// framed and written by a connection's writer task.
type Response struct {
	MessageID uint16
	Body      []byte
}

// ResponseSender is the capability Context hands to handlers for
// producing a response. It is cheap to hold past the handler's return
// only if the handler retained the Context; ordinary handlers send
// before returning. Sending after the connection has closed, or after
// cancel (if set) fires, returns ErrSendFailed.
type ResponseSender struct {
	ch     chan<- Response
	cancel <-chan struct{}
}

// ErrSendFailed is returned by ResponseSender.Send when the writer
// task has already exited (the connection is gone).
type sendFailedError struct{}

func (sendFailedError) Error() string { return "aerox: response send failed, connection closed" }

// ErrSendFailed is returned by Send when the underlying connection has
// already closed and nothing is reading the response channel anymore,
// or when the sender was invalidated (e.g. by a timed-out handler).
var ErrSendFailed error = sendFailedError{}

// WithCancel returns a copy of s whose Send fails with ErrSendFailed
// once cancel is closed, even if the response channel could still
// accept the value. Used by the Timeout middleware to invalidate the
// sender handed to a handler once its deadline expires, so a handler
// still running in the background after Call has returned a timeout
// error cannot sneak a late response onto the connection.
func (s ResponseSender) WithCancel(cancel <-chan struct{}) ResponseSender {
	s.cancel = cancel
	return s
}

// Send enqueues resp for the connection's writer task. It does not
// block past the writer's bounded channel capacity; if the channel is
// full, Send blocks the caller, which is the spec's intended
// backpressure path (handler → writer, capacity 128).
func (s ResponseSender) Send(resp Response) (err error) {
	defer func() {
		// Sending on a closed channel panics; translate to ErrSendFailed
		// rather than letting it propagate, since the connection's cleanup
		// closing the channel races ordinary handler sends by design.
		if recover() != nil {
			err = ErrSendFailed
		}
	}()

	// Check cancellation first and non-blockingly: if it already fired,
	// a send must fail even though the channel itself might still have
	// room (select between two ready cases is not deterministic).
	select {
	case <-s.cancel:
		return ErrSendFailed
	default:
	}

	select {
	case s.ch <- resp:
		return nil
	case <-s.cancel:
		return ErrSendFailed
	}
}

// Context is the per-frame record delivered to handlers.
type Context struct {
	ConnectionID ConnectionID
	PeerAddr     string
	MessageID    uint16
	SequenceID   uint32
	Body         []byte
	Timestamp    time.Time
	Response     ResponseSender
	Extensions   *Extensions
}
