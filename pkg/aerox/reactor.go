package aerox

import (
	"net"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"aerox/internal/aeroxerr"
	"aerox/internal/obslog"
)

// ReactorConfig controls topology sizing independent of the listener
// address itself (that lives in the external ServerConfig contract;
// the reactor only needs the resolved numbers).
type ReactorConfig struct {
	// WorkerCount; zero means use runtime.NumCPU().
	WorkerCount int
	// MailboxCapacity is each worker's inbound NewConnection queue bound.
	MailboxCapacity int
	// ResponseCapacity is each connection's handler→writer channel bound.
	ResponseCapacity int
	// IdleTimeout, if positive, enables the background idle reaper.
	IdleTimeout time.Duration
	// CleanupInterval controls how often the idle reaper scans the pool.
	CleanupInterval time.Duration
	// Sink receives connection/frame lifecycle events; nil defaults to
	// NoopSink.
	Sink Sink
	// WarnRateLimit bounds how many route-miss/frame-too-large warnings
	// all workers together log per second (one limiter is shared by
	// every worker); zero defaults to 5/sec.
	WarnRateLimit float64
	// WarnBurst is the rate limiter's burst allowance; zero defaults to 20.
	WarnBurst int
}

// Resolved returns a copy of cfg with zero-valued fields defaulted.
func (cfg ReactorConfig) Resolved() ReactorConfig {
	out := cfg
	if out.WorkerCount <= 0 {
		out.WorkerCount = runtime.NumCPU()
	}
	if out.MailboxCapacity <= 0 {
		out.MailboxCapacity = 1024
	}
	if out.ResponseCapacity <= 0 {
		out.ResponseCapacity = 128
	}
	if out.CleanupInterval <= 0 {
		out.CleanupInterval = 30 * time.Second
	}
	if out.Sink == nil {
		out.Sink = NoopSink{}
	}
	if out.WarnRateLimit <= 0 {
		out.WarnRateLimit = 5
	}
	if out.WarnBurst <= 0 {
		out.WarnBurst = 20
	}
	return out
}

// Reactor binds a listener, constructs the balancer and worker set,
// and drives the acceptor loop until it stops. This is the aggregate
// named in the glossary: listener + acceptor + balancer + workers.
type Reactor struct {
	cfg      ReactorConfig
	listener net.Listener
	balancer *Balancer
	workers  []*Worker
	acceptor *Acceptor
	pool     *ConnectionPool
	metrics  *ConnectionMetrics
	log      zerolog.Logger

	stopReaper chan struct{}
}

// NewReactor binds bindAddr and builds the worker set around handler,
// the fully composed router+middleware chain. Workers are constructed
// and started before the acceptor runs.
func NewReactor(bindAddr string, cfg ReactorConfig, handler Handler, log zerolog.Logger) (*Reactor, error) {
	cfg = cfg.Resolved()
	if cfg.WorkerCount < 1 {
		return nil, aeroxerr.ConfigErr("worker_count must be >= 1")
	}

	listener, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, aeroxerr.Wrap(aeroxerr.Network, err, "failed to bind %s", bindAddr)
	}

	balancer := NewBalancer(cfg.WorkerCount)
	pool := NewConnectionPool()
	metrics := &ConnectionMetrics{}
	idgen := &IDGen{}

	throttle := obslog.NewThrottled(log, cfg.WarnRateLimit, cfg.WarnBurst)

	workerCfg := WorkerConfig{MailboxCapacity: cfg.MailboxCapacity, ResponseCapacity: cfg.ResponseCapacity}
	workers := make([]*Worker, cfg.WorkerCount)
	mailboxes := make([]chan<- NewConnection, cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		w := NewWorker(i, pool, idgen, metrics, handler, workerCfg, log, cfg.Sink, throttle)
		workers[i] = w
		mailboxes[i] = w.Mailbox()
	}

	acceptor := NewAcceptor(listener, balancer, mailboxes, log.With().Str("component", "acceptor").Logger())

	return &Reactor{
		cfg:        cfg,
		listener:   listener,
		balancer:   balancer,
		workers:    workers,
		acceptor:   acceptor,
		pool:       pool,
		metrics:    metrics,
		log:        log,
		stopReaper: make(chan struct{}),
	}, nil
}

// Addr returns the bound listener address, useful for tests that bind
// an ephemeral port.
func (r *Reactor) Addr() net.Addr { return r.listener.Addr() }

// Metrics returns the reactor's connection metrics.
func (r *Reactor) Metrics() *ConnectionMetrics { return r.metrics }

// Pool returns the reactor's connection pool.
func (r *Reactor) Pool() *ConnectionPool { return r.pool }

// Run starts all workers and the idle reaper, then blocks in the
// acceptor loop until it returns (Accept failed, for example because
// the listener was closed). It returns the acceptor's terminating error.
func (r *Reactor) Run() error {
	for _, w := range r.workers {
		go w.Run()
	}
	if r.cfg.IdleTimeout > 0 {
		go r.runReaper()
	}

	err := r.acceptor.Run()
	r.log.Info().Err(err).Msg("acceptor loop exited")
	return err
}

// Close stops accepting new connections by closing the listener,
// which causes Run's acceptor loop to return. It does not touch
// worker mailboxes — call StopWorkers only after Run has returned, to
// avoid closing a mailbox the acceptor might still be sending to.
func (r *Reactor) Close() error {
	close(r.stopReaper)
	return r.listener.Close()
}

// StopWorkers closes every worker's mailbox, causing each worker's Run
// to return once its already-queued connections have been handed off
// to a handling goroutine and drained from the channel. In-flight
// connections are not forcibly closed; callers wanting a hard stop
// should close those themselves via Pool().List().
func (r *Reactor) StopWorkers() {
	for _, w := range r.workers {
		close(w.mailbox)
	}
}

func (r *Reactor) runReaper() {
	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n := r.pool.CleanupIdle(time.Now(), r.cfg.IdleTimeout)
			if n > 0 {
				r.log.Debug().Int("removed", n).Msg("idle connections reaped")
			}
		case <-r.stopReaper:
			return
		}
	}
}
