package aerox

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aerox/internal/aeroxerr"
	"aerox/internal/obslog"
	"aerox/pkg/frame"
)

// WorkerConfig controls the sizing of one worker's resources.
type WorkerConfig struct {
	// MailboxCapacity bounds the worker's inbound NewConnection queue.
	MailboxCapacity int
	// ResponseCapacity bounds each connection's handler→writer channel.
	ResponseCapacity int
}

// DefaultWorkerConfig matches the spec's defaults (mailbox 1024,
// response channel 128).
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{MailboxCapacity: 1024, ResponseCapacity: 128}
}

// Worker owns a partition of the connection set. Connections are
// pinned to the worker they are handed off to for their lifetime; each
// connection is driven by its own reader-loop goroutine plus a nested
// writer-task goroutine, matching the per-connection read/write split
// the spec requires while staying within Go's goroutine-per-task idiom
// rather than a single-threaded cooperative scheduler.
type Worker struct {
	id       int
	mailbox  chan NewConnection
	pool     *ConnectionPool
	idgen    *IDGen
	metrics  *ConnectionMetrics
	handler  Handler
	cfg      WorkerConfig
	log      zerolog.Logger
	sink     Sink
	throttle *obslog.Throttled
}

// NewWorker builds worker id, reading NewConnections off its own
// bounded mailbox (capacity cfg.MailboxCapacity). sink receives
// connection/frame lifecycle events (nil defaults to NoopSink);
// throttle rate-limits the recurring route-miss/frame-too-large
// warnings logged from the hot path (nil disables throttling, logging
// every occurrence).
func NewWorker(id int, pool *ConnectionPool, idgen *IDGen, metrics *ConnectionMetrics, handler Handler, cfg WorkerConfig, log zerolog.Logger, sink Sink, throttle *obslog.Throttled) *Worker {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Worker{
		id:       id,
		mailbox:  make(chan NewConnection, cfg.MailboxCapacity),
		pool:     pool,
		idgen:    idgen,
		metrics:  metrics,
		handler:  handler,
		cfg:      cfg,
		log:      log.With().Int("worker_id", id).Logger(),
		sink:     sink,
		throttle: throttle,
	}
}

// Mailbox returns the send side of the worker's inbound queue, for the
// acceptor/balancer to hand off connections.
func (w *Worker) Mailbox() chan<- NewConnection { return w.mailbox }

// Run drains the mailbox, spawning a goroutine per connection, until
// the mailbox is closed (reactor shutdown) and drained.
func (w *Worker) Run() {
	for nc := range w.mailbox {
		go w.handleConnection(nc)
	}
}

// warnThrottled logs ev if no throttle is configured, or if the
// throttle currently allows a log line; otherwise the warning is
// silently dropped, preventing attack-like traffic (message_id
// probing, oversized frames) from flooding the log sink.
func (w *Worker) warnThrottled(ev *zerolog.Event, msg string) {
	if w.throttle == nil || w.throttle.Allow() {
		ev.Msg(msg)
		return
	}
	ev.Discard()
}

func (w *Worker) handleConnection(nc NewConnection) {
	id := w.idgen.Next()
	now := time.Now()
	w.pool.Add(id, nc.PeerAddr, now)
	w.pool.SetState(id, Connected)
	w.metrics.ConnectionOpened()
	w.sink.OnConnected(id, nc.PeerAddr)

	connLog := w.log.With().Uint64("connection_id", uint64(id)).Str("peer_addr", nc.PeerAddr).Logger()

	// CRITICAL: the panic-recovery defer must be registered first so it
	// executes last (defers run LIFO): it still catches a panic that
	// unwinds through the cleanup defer registered below, and isolates
	// the failure to this one connection instead of crashing the
	// process via an unhandled goroutine panic.
	defer func() {
		if r := recover(); r != nil {
			obslog.LogPanic(connLog, r, "panic in connection handler, closing connection")
		}
	}()

	connLog.Info().Msg("connection accepted")

	respCh := make(chan Response, w.cfg.ResponseCapacity)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.writerTask(nc.Conn, respCh, connLog)
	}()

	defer func() {
		close(respCh)
		wg.Wait()
		nc.Conn.Close()

		w.pool.Remove(id)
		w.metrics.ConnectionClosed()
		w.sink.OnClosed(id)
		connLog.Info().Msg("connection closed")
	}()

	w.readerLoop(nc.Conn, id, nc.PeerAddr, respCh, connLog)
}

// writerTask owns the write half: it drains respCh, wraps each
// response into a Frame with sequence_id=0 (server responses do not
// correlate; correlation is the client's job via its own sequence_id),
// and writes it. It drains any further responses already queued
// before flushing, batching writes the way a dedicated writer goroutine
// should. On write error it exits; subsequent sends on the now-dropped
// receiver end observe ErrSendFailed in ResponseSender.Send.
func (w *Worker) writerTask(conn net.Conn, respCh <-chan Response, log zerolog.Logger) {
	// First deferred, so it also catches a panic raised by a later
	// defer; a panic here must only end this connection's writer, not
	// the process.
	defer func() {
		if r := recover(); r != nil {
			obslog.LogPanic(log, r, "panic in writer task, closing connection")
		}
	}()

	enc := frame.NewEncoder(conn)
	for resp := range respCh {
		if err := w.writeOne(enc, resp); err != nil {
			log.Warn().Err(err).Msg("writer task exiting on write error")
			return
		}
		w.metrics.AddMessageTx()

	drain:
		for {
			select {
			case resp, ok := <-respCh:
				if !ok {
					break drain
				}
				if err := w.writeOne(enc, resp); err != nil {
					log.Warn().Err(err).Msg("writer task exiting on write error")
					return
				}
				w.metrics.AddMessageTx()
			default:
				break drain
			}
		}

		if err := enc.Flush(); err != nil {
			log.Warn().Err(err).Msg("writer task exiting on flush error")
			return
		}
	}
}

func (w *Worker) writeOne(enc *frame.Encoder, resp Response) error {
	f := frame.New(resp.MessageID, 0, resp.Body)
	w.metrics.AddBytesTx(f.Size())
	return enc.Write(f)
}

// readerLoop decodes frames until EOF or a protocol error poisons the
// connection. Each frame is dispatched through the handler chain
// sequentially; handler errors are logged and do not close the
// connection; only decode-fatal errors (or the peer closing) do.
func (w *Worker) readerLoop(conn net.Conn, id ConnectionID, peerAddr string, respCh chan<- Response, log zerolog.Logger) {
	dec := frame.NewDecoder(conn)
	for {
		f, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Msg("peer closed connection")
			} else {
				// Frame-too-large (and other decode-fatal) closures are
				// throttled: a flood of oversized frames from one bad
				// actor shouldn't flood the log.
				w.warnThrottled(log.Warn().Err(err), "decode error, closing connection")
			}
			return
		}

		now := time.Now()
		w.pool.Touch(id, now)
		w.metrics.AddMessageRx()
		w.metrics.AddBytesRx(f.Size())
		w.sink.OnFrame(id, f.MessageID, f.Body)

		ctx := &Context{
			ConnectionID: id,
			PeerAddr:     peerAddr,
			MessageID:    f.MessageID,
			SequenceID:   f.SequenceID,
			Body:         f.Body,
			Timestamp:    now,
			Response:     ResponseSender{ch: respCh},
			Extensions:   &Extensions{},
		}

		if err := w.handler.Handle(ctx); err != nil {
			if kind, ok := aeroxerr.KindOf(err); ok && kind == aeroxerr.Router {
				// Route-miss is the recurring, attack-susceptible case
				// (probing message_ids); throttle it.
				w.warnThrottled(log.Warn().Err(err).Uint16("message_id", f.MessageID), "handler returned error")
			} else {
				log.Warn().Err(err).Uint16("message_id", f.MessageID).Msg("handler returned error")
			}
		}
	}
}
