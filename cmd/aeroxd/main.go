// Command aeroxd runs the AeroX reactor: a TCP message server with a
// fixed acceptor/balancer/worker topology, a message_id router, and a
// Prometheus metrics endpoint. Mirrors the teacher's main.go wiring,
// trimmed of its monolithic/sharded mode switch — aeroxd only ever
// runs the one reactor topology.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "go.uber.org/automaxprocs"

	"aerox/internal/config"
	"aerox/internal/eventbridge"
	"aerox/internal/obslog"
	"aerox/internal/plugin"
	"aerox/internal/sysmetrics"
	"aerox/pkg/aerox"
	"aerox/pkg/middleware"
)

func main() {
	bootLog := obslog.New(obslog.Config{Level: "info", Format: "json"})

	cfg, err := config.Load(&bootLog)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := obslog.New(obslog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Info().
		Str("bind_address", cfg.BindAddress).
		Int("port", cfg.Port).
		Int("worker_threads", cfg.WorkerThreads).
		Msg("starting aerox")

	router := aerox.NewRouter()
	stack := aerox.NewStack().
		Use(middleware.NewLogging(log)).
		Use(middleware.NewTimeout(5 * time.Second))

	plugins := &plugin.Set{}
	reg := &plugin.Registry{Router: router, Stack: stack}
	if err := plugins.Build(reg); err != nil {
		log.Fatal().Err(err).Msg("plugin build failed")
	}
	if names := plugins.Names(); len(names) > 0 {
		log.Info().Strs("plugins", names).Msg("plugins loaded")
	}

	handler := stack.Build(aerox.HandlerFunc(router.Dispatch))

	// eventbridge.Sink publishes connection/frame events to an external
	// ECS world; every connect, frame, and close passes through it from
	// the worker's hot path, defaulting to a no-op when NATS isn't
	// configured.
	var sink aerox.Sink = eventbridge.NoopSink{}
	if url := os.Getenv("AEROX_NATS_URL"); url != "" {
		natsSink, err := eventbridge.DialNATS(url, "aerox.events", log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, event bridge disabled")
		} else {
			defer natsSink.Close()
			sink = natsSink
		}
	}

	reactorCfg := aerox.ReactorConfig{
		WorkerCount:      cfg.WorkerThreads,
		MailboxCapacity:  cfg.ReactorBufferSize,
		ResponseCapacity: aerox.DefaultWorkerConfig().ResponseCapacity,
		IdleTimeout:      time.Duration(cfg.ConnectionTimeoutSecs) * time.Second,
		Sink:             sink,
	}

	reactor, err := aerox.NewReactor(cfg.Addr(), reactorCfg, handler, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct reactor")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(aerox.NewCollector(reactor.Metrics()))

	sampler := sysmetrics.NewSampler(15*time.Second, log)
	registry.MustRegister(sampler)

	sampleCtx, cancelSampling := context.WithCancel(context.Background())
	defer cancelSampling()
	go sampler.Run(sampleCtx)

	metricsSrv := &http.Server{
		Addr:    ":9090",
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("metrics server stopped")
		}
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- reactor.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received")
		if err := reactor.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing listener")
		}
		<-runErr
	case err := <-runErr:
		log.Error().Err(err).Msg("reactor stopped unexpectedly")
	}
	reactor.StopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error shutting down metrics server")
	}

	log.Info().Msg("aerox stopped")
}
