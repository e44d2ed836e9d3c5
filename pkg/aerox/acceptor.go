package aerox

import (
	"net"

	"github.com/rs/zerolog"

	"aerox/internal/aeroxerr"
)

// NewConnection is a freshly accepted socket handed off to a worker.
type NewConnection struct {
	Conn     net.Conn
	PeerAddr string
}

// Acceptor owns the listening socket and the worker mailboxes. It
// accepts sockets in a loop, round-robins them across workers via
// Balancer, and hands each off by sending on the chosen worker's
// mailbox.
type Acceptor struct {
	listener  net.Listener
	balancer  *Balancer
	mailboxes []chan<- NewConnection
	log       zerolog.Logger
}

// NewAcceptor builds an acceptor over listener, balancing across mailboxes.
func NewAcceptor(listener net.Listener, balancer *Balancer, mailboxes []chan<- NewConnection, log zerolog.Logger) *Acceptor {
	return &Acceptor{listener: listener, balancer: balancer, mailboxes: mailboxes, log: log}
}

// Run accepts connections until Accept fails (for example because the
// listener was closed) and returns that error as a Network-kind error;
// a listener closed deliberately during shutdown returns a
// net.ErrClosed-wrapping error, which callers should treat as a clean
// stop. Handing a connection to a worker blocks while that worker's
// mailbox is full; Run has no error path for the handoff and does not
// detect a worker that has stopped draining its mailbox.
func (a *Acceptor) Run() error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			return aeroxerr.Wrap(aeroxerr.Network, err, "accept failed")
		}

		peerAddr := conn.RemoteAddr()
		if peerAddr == nil {
			// Peer-address lookup failure is connection-fatal but the
			// acceptor keeps running.
			a.log.Warn().Msg("accepted connection with no remote address, dropping")
			conn.Close()
			continue
		}

		idx := a.balancer.NextWorker()
		// A full mailbox blocks here, applying backpressure to accept
		// as the spec requires; a worker that stops draining its
		// mailbox entirely is a fatal condition the reactor does not
		// attempt to detect separately.
		a.mailboxes[idx] <- NewConnection{Conn: conn, PeerAddr: peerAddr.String()}
	}
}
