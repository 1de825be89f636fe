package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the media bot
type Metrics struct {
	// Inbound link metrics
	LinksTotal    *prometheus.CounterVec
	OutcomesTotal *prometheus.CounterVec

	// Delivery metrics
	DeliveriesTotal  *prometheus.CounterVec
	DeliveryDuration *prometheus.HistogramVec
	DeliveredBytes   prometheus.Counter

	// State metrics
	PendingSessions prometheus.Gauge
	BusyWorkers     prometheus.Gauge

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	// Initialize DefaultMetrics on package import
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance registered on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		LinksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_bot_links_total",
				Help: "Total number of inbound links by platform",
			},
			[]string{"platform"},
		),
		OutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_bot_outcomes_total",
				Help: "Total number of terminal outcomes by kind",
			},
			[]string{"outcome"},
		),

		DeliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_bot_deliveries_total",
				Help: "Total number of delivery attempts by platform and status",
			},
			[]string{"platform", "status"},
		),
		DeliveryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "media_bot_delivery_duration_seconds",
				Help:    "Duration of download and upload in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"platform"},
		),
		DeliveredBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "media_bot_delivered_bytes_total",
			Help: "Total number of bytes uploaded to Telegram",
		}),

		PendingSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "media_bot_pending_sessions",
			Help: "Current number of format prompts awaiting a choice",
		}),
		BusyWorkers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "media_bot_busy_workers",
			Help: "Current number of worker slots running blocking work",
		}),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "media_bot_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_bot_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
	}
}

// RecordLink records an inbound link
func (m *Metrics) RecordLink(platform string) {
	if platform == "" {
		platform = "unknown"
	}
	m.LinksTotal.WithLabelValues(platform).Inc()
}

// RecordOutcome records a terminal outcome such as prompted, delivered or session_not_found
func (m *Metrics) RecordOutcome(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.OutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordDelivery records a delivery attempt
func (m *Metrics) RecordDelivery(platform, status string, sizeBytes int64, seconds float64) {
	if platform == "" {
		platform = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.DeliveriesTotal.WithLabelValues(platform, status).Inc()
	m.DeliveryDuration.WithLabelValues(platform).Observe(seconds)
	// Only uploaded bytes count, and counters cannot go backwards
	if status == "delivered" && sizeBytes > 0 {
		m.DeliveredBytes.Add(float64(sizeBytes))
	}
}

// SetPendingSessions updates the pending sessions gauge
func (m *Metrics) SetPendingSessions(count int) {
	m.PendingSessions.Set(float64(count))
}

// WorkerAcquired marks one worker slot busy
func (m *Metrics) WorkerAcquired() {
	m.BusyWorkers.Inc()
}

// WorkerReleased marks one worker slot free
func (m *Metrics) WorkerReleased() {
	m.BusyWorkers.Dec()
}

// RecordKafkaMessage records a produced Kafka message
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.KafkaProduceErrors.WithLabelValues(errorType).Inc()
}
