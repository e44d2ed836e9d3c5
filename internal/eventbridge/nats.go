package eventbridge

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"aerox/internal/aeroxerr"
	"aerox/pkg/aerox"
)

// NATSSink publishes connection and frame events to NATS subjects
// prefixed by subjectPrefix, for an external ECS world to subscribe
// to. Publish failures are logged, never returned to the caller —
// event ingestion is best-effort and must never affect connection
// handling.
type NATSSink struct {
	conn          *nats.Conn
	subjectPrefix string
	log           zerolog.Logger
}

// DialNATS connects to url and returns a Sink publishing under
// subjectPrefix (e.g. "aerox.events").
func DialNATS(url, subjectPrefix string, log zerolog.Logger) (*NATSSink, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, aeroxerr.Wrap(aeroxerr.Network, err, "failed to connect to NATS at %s", url)
	}
	return &NATSSink{conn: conn, subjectPrefix: subjectPrefix, log: log}, nil
}

// Close closes the underlying NATS connection (without a Drain).
func (s *NATSSink) Close() {
	s.conn.Close()
}

type connectedEvent struct {
	ConnectionID uint64 `json:"connection_id"`
	PeerAddr     string `json:"peer_addr"`
}

type closedEvent struct {
	ConnectionID uint64 `json:"connection_id"`
}

type frameEvent struct {
	ConnectionID uint64 `json:"connection_id"`
	MessageID    uint16 `json:"message_id"`
	BodyLen      int    `json:"body_len"`
}

func (s *NATSSink) OnConnected(id aerox.ConnectionID, peerAddr string) {
	s.publish("connected", connectedEvent{ConnectionID: uint64(id), PeerAddr: peerAddr})
}

func (s *NATSSink) OnClosed(id aerox.ConnectionID) {
	s.publish("closed", closedEvent{ConnectionID: uint64(id)})
}

func (s *NATSSink) OnFrame(id aerox.ConnectionID, messageID uint16, body []byte) {
	s.publish("frame", frameEvent{ConnectionID: uint64(id), MessageID: messageID, BodyLen: len(body)})
}

func (s *NATSSink) publish(kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("failed to marshal event")
		return
	}
	subject := fmt.Sprintf("%s.%s", s.subjectPrefix, kind)
	if err := s.conn.Publish(subject, data); err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
