// Package sysmetrics samples host resource usage and exposes it as
// Prometheus gauges. It is strictly observational: nothing in AeroX's
// core reads these values to make admission-control decisions (the
// spec's Non-goals exclude flow control beyond bounded channels and
// socket backpressure).
package sysmetrics

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sampler periodically reads host CPU and memory usage and caches the
// latest reading as float64 bits in atomics, so Collect is wait-free.
type Sampler struct {
	log        zerolog.Logger
	interval   time.Duration
	cpuPercent uint64 // math.Float64bits
	memPercent uint64 // math.Float64bits

	cpuDesc *prometheus.Desc
	memDesc *prometheus.Desc
}

// NewSampler returns a sampler that refreshes every interval.
func NewSampler(interval time.Duration, log zerolog.Logger) *Sampler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Sampler{
		log:      log,
		interval: interval,
		cpuDesc:  prometheus.NewDesc("aerox_host_cpu_percent", "Host CPU utilization percent.", nil, nil),
		memDesc:  prometheus.NewDesc("aerox_host_memory_percent", "Host memory utilization percent.", nil, nil),
	}
}

// Run samples in a loop until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sampleOnce()
	for {
		select {
		case <-ticker.C:
			s.sampleOnce()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sampler) sampleOnce() {
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		storeFloat(&s.cpuPercent, pcts[0])
	} else if err != nil {
		s.log.Warn().Err(err).Msg("cpu sample failed")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		storeFloat(&s.memPercent, vm.UsedPercent)
	} else {
		s.log.Warn().Err(err).Msg("memory sample failed")
	}
}

// Describe implements prometheus.Collector.
func (s *Sampler) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.cpuDesc
	ch <- s.memDesc
}

// Collect implements prometheus.Collector.
func (s *Sampler) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(s.cpuDesc, prometheus.GaugeValue, loadFloat(&s.cpuPercent))
	ch <- prometheus.MustNewConstMetric(s.memDesc, prometheus.GaugeValue, loadFloat(&s.memPercent))
}

func storeFloat(addr *uint64, v float64) {
	atomic.StoreUint64(addr, math.Float64bits(v))
}

func loadFloat(addr *uint64) float64 {
	return math.Float64frombits(atomic.LoadUint64(addr))
}
