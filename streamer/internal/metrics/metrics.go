package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	promNamespace = "fake_streamer"
)

var (
	durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 300}

	operationDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Name:      "operation_duration_seconds",
		Buckets:   durationBuckets,
	}, []string{"op"})

	operationStatusCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "operation_status",
	}, []string{"op", "status"})

	streamsStartedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "streams_started_total",
	})

	streamsFinishedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "streams_finished_total",
	}, []string{"outcome"})

	streamDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Name:      "stream_duration_seconds",
		Buckets:   durationBuckets,
	}, []string{"outcome"})

	unitsEmittedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "units_emitted_total",
	})

	activeStreamsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "active_streams",
	})

	wsConnectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "websocket_connections",
	})
)

func TrackDuration(operation string) func() {
	start := time.Now()
	return func() {
		operationDurationHistogram.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func TrackStatus(operation, status string) {
	operationStatusCounter.WithLabelValues(operation, status).Inc()
}

// TrackStream counts a started stream; the returned function records its
// outcome and duration.
func TrackStream() (finish func(outcome string)) {
	start := time.Now()
	streamsStartedCounter.Inc()
	activeStreamsGauge.Inc()
	return func(outcome string) {
		activeStreamsGauge.Dec()
		streamsFinishedCounter.WithLabelValues(outcome).Inc()
		streamDurationHistogram.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

func TrackUnit() {
	unitsEmittedCounter.Inc()
}

func TrackConnection() (done func()) {
	wsConnectionsGauge.Inc()
	return wsConnectionsGauge.Dec
}
