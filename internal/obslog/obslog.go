// Package obslog builds AeroX's zerolog-based structured logger and a
// small rate-limited warning helper, the way the teacher's logger.go
// wires zerolog but trimmed to what the reactor core actually needs.
package obslog

import (
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config selects the logger's level and output format.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "pretty"
}

// New builds a process-wide zerolog.Logger: JSON output by default, a
// human-readable zerolog.ConsoleWriter when Format is "pretty".
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Str("service", "aerox").
		Logger()
}

// LogPanic logs a recovered panic with its stack trace. Intended for
// use in a deferred recover() block guarding a goroutine AeroX cannot
// afford to lose silently (e.g. a worker's per-connection goroutine).
func LogPanic(logger zerolog.Logger, panicValue any, msg string) {
	logger.Error().
		Interface("panic_value", panicValue).
		Str("stack_trace", string(debug.Stack())).
		Msg(msg)
}

// Throttled wraps a logger so repeated warnings about the same
// recurring condition (e.g. per-connection route misses) don't flood
// the log sink under misbehaving or adversarial traffic. This is a
// logging concern, not the flow-control the core's Non-goals exclude.
type Throttled struct {
	log     zerolog.Logger
	limiter *rate.Limiter
}

// NewThrottled returns a Throttled logger allowing up to burst log
// lines immediately and then ratePerSec per second thereafter.
func NewThrottled(logger zerolog.Logger, ratePerSec float64, burst int) *Throttled {
	return &Throttled{log: logger, limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

// Warn logs msg at Warn level if the rate limiter allows it; otherwise
// the warning is silently dropped.
func (t *Throttled) Warn(msg string) {
	if t.limiter.Allow() {
		t.log.Warn().Msg(msg)
	}
}

// Allow reports whether the rate limiter currently permits a log line,
// for callers that need to attach structured fields the plain Warn
// method can't take and so build their own zerolog event when allowed.
func (t *Throttled) Allow() bool {
	return t.limiter.Allow()
}
