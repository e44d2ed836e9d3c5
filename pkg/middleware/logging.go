// Package middleware provides AeroX's reference middleware
// implementations: Logging and Timeout.
package middleware

import (
	"time"

	"github.com/rs/zerolog"

	"aerox/pkg/aerox"
)

// Logging records message_id, connection_id, elapsed time, and outcome
// around the rest of the chain. It never fails itself; a handler error
// further down the chain is logged and then returned unchanged.
type Logging struct {
	Log zerolog.Logger
}

// NewLogging returns a Logging middleware writing through log.
func NewLogging(log zerolog.Logger) Logging {
	return Logging{Log: log}
}

func (l Logging) Call(ctx *aerox.Context, next aerox.Next) error {
	start := time.Now()
	err := next.Run(ctx)
	elapsed := time.Since(start)

	ev := l.Log.Info()
	if err != nil {
		ev = l.Log.Warn()
	}
	ev.
		Uint64("connection_id", uint64(ctx.ConnectionID)).
		Uint16("message_id", ctx.MessageID).
		Dur("elapsed", elapsed).
		AnErr("outcome", err).
		Msg("handled frame")

	return err
}
