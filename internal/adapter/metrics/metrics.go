package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BridgeMetrics holds all Prometheus metrics for the ingestion bridge.
type BridgeMetrics struct {
	ActiveConnections prometheus.Gauge
	MessagesTotal     prometheus.Counter
	BytesTotal        prometheus.Counter
	PublishesTotal    *prometheus.CounterVec
}

// NewBridgeMetrics initializes and registers the bridge metrics.
func NewBridgeMetrics() *BridgeMetrics {
	return &BridgeMetrics{
		ActiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "stream_harness",
			Subsystem: "bridge",
			Name:      "active_connections",
			Help:      "Number of currently connected clients.",
		}),
		MessagesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "bridge",
			Name:      "messages_total",
			Help:      "Total number of messages received over all connections.",
		}),
		BytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "bridge",
			Name:      "bytes_total",
			Help:      "Total number of payload bytes received.",
		}),
		PublishesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "bridge",
			Name:      "publishes_total",
			Help:      "Total number of broker publish attempts by status.",
		}, []string{"status"}), // status: ok, error
	}
}

// SimulatorMetrics holds all Prometheus metrics for the traffic simulator.
type SimulatorMetrics struct {
	ActiveWorkers   prometheus.Gauge
	EventsSentTotal *prometheus.CounterVec
	ReconnectsTotal prometheus.Counter
}

// NewSimulatorMetrics initializes and registers the simulator metrics.
func NewSimulatorMetrics() *SimulatorMetrics {
	return &SimulatorMetrics{
		ActiveWorkers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "stream_harness",
			Subsystem: "simulator",
			Name:      "active_workers",
			Help:      "Number of currently running viewer workers.",
		}),
		EventsSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "simulator",
			Name:      "events_sent_total",
			Help:      "Total number of playback events sent by event type.",
		}, []string{"event"}),
		ReconnectsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "simulator",
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts after transport failures.",
		}),
	}
}

// ConsumerMetrics holds all Prometheus metrics for the log consumer.
type ConsumerMetrics struct {
	EventsConsumedTotal prometheus.Counter
	ParseErrorsTotal    prometheus.Counter
	WindowSize          prometheus.Gauge
}

// NewConsumerMetrics initializes and registers the consumer metrics.
func NewConsumerMetrics() *ConsumerMetrics {
	return &ConsumerMetrics{
		EventsConsumedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "consumer",
			Name:      "events_consumed_total",
			Help:      "Total number of events read from the broker.",
		}),
		ParseErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "stream_harness",
			Subsystem: "consumer",
			Name:      "parse_errors_total",
			Help:      "Total number of frames that failed to parse as events.",
		}),
		WindowSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "stream_harness",
			Subsystem: "consumer",
			Name:      "window_size",
			Help:      "Number of events currently held in the sliding window.",
		}),
	}
}
