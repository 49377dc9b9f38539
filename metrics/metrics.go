// Package metrics exposes Prometheus instrumentation for the send/receive
// and cache paths. Nothing here feeds back into connection behavior; it is
// pure observation of an already-decided path.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector this module registers. Construct one with
// New and pass it down to the components that increment it; a nil
// *Metrics is not valid, use NewNoop for call sites that don't want
// instrumentation.
type Metrics struct {
	PacketsSent     prometheus.Counter
	PacketsReceived prometheus.Counter
	BytesSent       prometheus.Counter
	BytesReceived   prometheus.Counter

	HandshakeDuration prometheus.Histogram

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers every collector against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "packets_sent_total",
			Help:      "Number of packets sent.",
		}),
		PacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "packets_received_total",
			Help:      "Number of packets received.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "bytes_sent_total",
			Help:      "Number of payload bytes sent.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "bytes_received_total",
			Help:      "Number of payload bytes received.",
		}),
		HandshakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "packetconn",
			Name:      "handshake_duration_seconds",
			Help:      "Time to complete a key exchange handshake.",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "cache_hits_total",
			Help:      "FactoryCache lookups served without calling the factory.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "packetconn",
			Name:      "cache_misses_total",
			Help:      "FactoryCache lookups that called the factory.",
		}),
	}

	reg.MustRegister(
		m.PacketsSent, m.PacketsReceived,
		m.BytesSent, m.BytesReceived,
		m.HandshakeDuration,
		m.CacheHits, m.CacheMisses,
	)

	return m
}

// NewNoop returns a Metrics registered against a private registry that
// nothing exports, for call sites that want no exported instrumentation
// without special-casing a nil pointer. Its counters are still updated.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordSend updates the send-path counters for one packet of n bytes.
func (m *Metrics) RecordSend(n int) {
	m.PacketsSent.Inc()
	m.BytesSent.Add(float64(n))
}

// RecordReceive updates the receive-path counters for one packet of n
// bytes.
func (m *Metrics) RecordReceive(n int) {
	m.PacketsReceived.Inc()
	m.BytesReceived.Add(float64(n))
}
