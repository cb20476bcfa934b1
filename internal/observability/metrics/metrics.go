// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "amd_detection"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Streaming connection metrics
	StreamsTotal   prometheus.Counter
	StreamsActive  prometheus.Gauge
	StreamDuration prometheus.Histogram

	// Audio intake metrics
	AudioBytesReceived  prometheus.Counter
	AudioFramesReceived prometheus.Counter
	WindowOverflow      prometheus.Counter

	// Analysis metrics
	AnalysesTotal   *prometheus.CounterVec
	AnalysisLatency prometheus.Histogram

	// Per-detector metrics
	DetectorLatency *prometheus.HistogramVec
	DetectorErrors  *prometheus.CounterVec

	// Batch endpoint metrics
	BatchRequests *prometheus.CounterVec
	BatchLatency  prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StreamsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_total",
			Help:      "Total number of streaming connections accepted",
		}),
		StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of currently active streaming sessions",
		}),
		StreamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_duration_seconds",
			Help:      "Duration of streaming sessions in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total audio bytes received on streaming connections",
		}),
		AudioFramesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_received_total",
			Help:      "Total media frames received on streaming connections",
		}),
		WindowOverflow: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_overflow_samples_total",
			Help:      "Total samples dropped because the window buffer cap was exceeded",
		}),

		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of completed window analyses",
		}, []string{"detection"}),
		AnalysisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_latency_seconds",
			Help:      "End-to-end latency of one window analysis",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		DetectorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detector_latency_seconds",
			Help:      "Per-detector analysis latency",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"source"}),
		DetectorErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detector_errors_total",
			Help:      "Total detector failures downgraded to unknown results",
		}, []string{"source"}),

		BatchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_requests_total",
			Help:      "Total batch analysis requests",
		}, []string{"model_type", "status"}),
		BatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_latency_seconds",
			Help:      "Batch analysis request latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordStreamStart records a new streaming session starting.
func (m *Metrics) RecordStreamStart() {
	m.StreamsTotal.Inc()
	m.StreamsActive.Inc()
}

// RecordStreamEnd records a streaming session ending.
func (m *Metrics) RecordStreamEnd(durationSeconds float64) {
	m.StreamsActive.Dec()
	m.StreamDuration.Observe(durationSeconds)
}

// RecordAudioReceived records one media frame of audio arriving.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.AudioBytesReceived.Add(float64(bytes))
	m.AudioFramesReceived.Inc()
}

// RecordWindowOverflow records samples evicted by the buffer cap.
func (m *Metrics) RecordWindowOverflow(samples int) {
	m.WindowOverflow.Add(float64(samples))
}

// RecordAnalysis records a completed window analysis.
func (m *Metrics) RecordAnalysis(detection string, latencySeconds float64) {
	m.AnalysesTotal.WithLabelValues(detection).Inc()
	m.AnalysisLatency.Observe(latencySeconds)
}

// RecordDetectorRun records one detector invocation.
func (m *Metrics) RecordDetectorRun(source string, err error, latencySeconds float64) {
	m.DetectorLatency.WithLabelValues(source).Observe(latencySeconds)
	if err != nil {
		m.DetectorErrors.WithLabelValues(source).Inc()
	}
}

// RecordBatchRequest records a batch analysis request.
func (m *Metrics) RecordBatchRequest(modelType, status string, latencySeconds float64) {
	m.BatchRequests.WithLabelValues(modelType, status).Inc()
	m.BatchLatency.Observe(latencySeconds)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
