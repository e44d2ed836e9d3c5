package aerox

// Sink receives connection and frame lifecycle events: the ingestion
// contract an optional game-logic layer (e.g. an ECS world) consumes.
// A worker calls these at the corresponding points in its connection
// handling; a nil Sink on ReactorConfig defaults to NoopSink.
type Sink interface {
	OnConnected(id ConnectionID, peerAddr string)
	OnClosed(id ConnectionID)
	OnFrame(id ConnectionID, messageID uint16, body []byte)
}

// NoopSink discards every event.
type NoopSink struct{}

func (NoopSink) OnConnected(ConnectionID, string)     {}
func (NoopSink) OnClosed(ConnectionID)                {}
func (NoopSink) OnFrame(ConnectionID, uint16, []byte) {}
