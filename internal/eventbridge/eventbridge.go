// Package eventbridge specifies the event-ingestion interface an
// optional game-logic ECS layer consumes (spec §1 scopes the ECS
// world itself out of the core; only this ingestion contract lives
// here), plus a NATS-backed Sink as a concrete collaborator.
//
// The interface itself is declared on aerox.Sink, not here: worker.go
// calls it directly on every connection/frame event, and aerox cannot
// import eventbridge (which imports aerox for ConnectionID) without a
// cycle. Sink and NoopSink are aliases so callers can keep writing
// eventbridge.Sink.
package eventbridge

import "aerox/pkg/aerox"

// Sink is the connection/frame event-ingestion contract; see aerox.Sink.
type Sink = aerox.Sink

// NoopSink discards every event; see aerox.NoopSink.
type NoopSink = aerox.NoopSink
