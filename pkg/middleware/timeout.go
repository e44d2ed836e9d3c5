package middleware

import (
	"context"
	"time"

	"aerox/internal/aeroxerr"
	"aerox/pkg/aerox"
)

// Timeout wraps the rest of the chain in a deadline. On expiry it
// returns a Timeout-kind error without waiting for the inner call to
// return. A context.Context carrying the deadline is attached to
// ctx.Extensions before calling next, so handlers that perform
// cancelable I/O can observe it and stop promptly; handlers that
// ignore it still run to completion in the background, but the
// connection's reader loop is not held up waiting for them. The
// Context's ResponseSender is tied to the same deadline, so a handler
// that is still running after the deadline fires can no longer put a
// response on the wire for a request the caller was already told had
// timed out — the connection itself is not closed, only that one
// response is suppressed. A panic in the rest of the chain before the
// deadline is re-raised on the caller's goroutine; one raised after the
// deadline has fired is recovered and dropped.
type Timeout struct {
	Deadline time.Duration
}

// NewTimeout returns a Timeout middleware with the given deadline.
func NewTimeout(d time.Duration) Timeout {
	return Timeout{Deadline: d}
}

func (t Timeout) Call(ctx *aerox.Context, next aerox.Next) error {
	cctx, cancel := context.WithTimeout(context.Background(), t.Deadline)
	defer cancel()

	if ctx.Extensions != nil {
		ctx.Extensions.Set(cctx)
	}
	ctx.Response = ctx.Response.WithCancel(cctx.Done())

	done := make(chan error, 1)
	panicked := make(chan any, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				panicked <- r
			}
		}()
		done <- next.Run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case r := <-panicked:
		panic(r)
	case <-cctx.Done():
		return aeroxerr.TimeoutErr("handler for message_id %d exceeded %s", ctx.MessageID, t.Deadline)
	}
}
