package aerox

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ConnectionMetrics is a process-wide tuple of atomic counters. Reads
// of the individual fields are lock-free; a Snapshot is a best-effort
// composite (not atomic across fields), matching the spec's eventual
// consistency allowance.
type ConnectionMetrics struct {
	current         int64
	total           int64
	bytesRx         int64
	bytesTx         int64
	messagesRx      int64
	messagesTx      int64
}

// MetricsSnapshot is a point-in-time read of ConnectionMetrics.
type MetricsSnapshot struct {
	Current    int64
	Total      int64
	BytesRx    int64
	BytesTx    int64
	MessagesRx int64
	MessagesTx int64
}

func (m *ConnectionMetrics) ConnectionOpened() {
	atomic.AddInt64(&m.current, 1)
	atomic.AddInt64(&m.total, 1)
}

func (m *ConnectionMetrics) ConnectionClosed() {
	atomic.AddInt64(&m.current, -1)
}

func (m *ConnectionMetrics) AddBytesRx(n int)   { atomic.AddInt64(&m.bytesRx, int64(n)) }
func (m *ConnectionMetrics) AddBytesTx(n int)   { atomic.AddInt64(&m.bytesTx, int64(n)) }
func (m *ConnectionMetrics) AddMessageRx()      { atomic.AddInt64(&m.messagesRx, 1) }
func (m *ConnectionMetrics) AddMessageTx()      { atomic.AddInt64(&m.messagesTx, 1) }

// Snapshot reads each counter once and returns an independent copy.
func (m *ConnectionMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Current:    atomic.LoadInt64(&m.current),
		Total:      atomic.LoadInt64(&m.total),
		BytesRx:    atomic.LoadInt64(&m.bytesRx),
		BytesTx:    atomic.LoadInt64(&m.bytesTx),
		MessagesRx: atomic.LoadInt64(&m.messagesRx),
		MessagesTx: atomic.LoadInt64(&m.messagesTx),
	}
}

// Collector adapts ConnectionMetrics to prometheus.Collector, mirroring
// the teacher's metrics.go registration style.
type Collector struct {
	m           *ConnectionMetrics
	current     *prometheus.Desc
	total       *prometheus.Desc
	bytesRx     *prometheus.Desc
	bytesTx     *prometheus.Desc
	messagesRx  *prometheus.Desc
	messagesTx  *prometheus.Desc
}

// NewCollector returns a prometheus.Collector exposing m.
func NewCollector(m *ConnectionMetrics) *Collector {
	return &Collector{
		m:          m,
		current:    prometheus.NewDesc("aerox_connections_current", "Currently open connections.", nil, nil),
		total:      prometheus.NewDesc("aerox_connections_total", "Total connections accepted.", nil, nil),
		bytesRx:    prometheus.NewDesc("aerox_bytes_received_total", "Total bytes read from sockets.", nil, nil),
		bytesTx:    prometheus.NewDesc("aerox_bytes_sent_total", "Total bytes written to sockets.", nil, nil),
		messagesRx: prometheus.NewDesc("aerox_messages_received_total", "Total frames decoded.", nil, nil),
		messagesTx: prometheus.NewDesc("aerox_messages_sent_total", "Total frames encoded and written.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.current
	ch <- c.total
	ch <- c.bytesRx
	ch <- c.bytesTx
	ch <- c.messagesRx
	ch <- c.messagesTx
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.m.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.current, prometheus.GaugeValue, float64(snap.Current))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.CounterValue, float64(snap.Total))
	ch <- prometheus.MustNewConstMetric(c.bytesRx, prometheus.CounterValue, float64(snap.BytesRx))
	ch <- prometheus.MustNewConstMetric(c.bytesTx, prometheus.CounterValue, float64(snap.BytesTx))
	ch <- prometheus.MustNewConstMetric(c.messagesRx, prometheus.CounterValue, float64(snap.MessagesRx))
	ch <- prometheus.MustNewConstMetric(c.messagesTx, prometheus.CounterValue, float64(snap.MessagesTx))
}
