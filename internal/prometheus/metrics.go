package prometheus

import "github.com/prometheus/client_golang/prometheus"

const (
	generationBucketStart  = 0.01
	generationBucketFactor = 2.0
	generationBucketCount  = 14
)

const (
	sinkBucketStart  = 0.05
	sinkBucketFactor = 2.0
	sinkBucketCount  = 14
)

var RecordsGenerated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversas_records_generated_total",
		Help: "Synthetic call records generated",
	},
	[]string{"call_status", "service"},
)

var GenerationDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name: "conversas_generation_duration_seconds",
		Help: "Time taken to generate one batch of records",
		Buckets: prometheus.ExponentialBuckets(
			generationBucketStart,
			generationBucketFactor,
			generationBucketCount,
		),
	},
)

var SinkWriteDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "conversas_sink_write_duration_seconds",
		Help: "Time taken by a sink to persist one batch",
		Buckets: prometheus.ExponentialBuckets(
			sinkBucketStart,
			sinkBucketFactor,
			sinkBucketCount,
		),
	},
	[]string{"sink"},
)

var SinkRecordsWritten = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversas_sink_records_written_total",
		Help: "Records persisted per sink",
	},
	[]string{"sink"},
)

var SinkFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversas_sink_failures_total",
		Help: "Failed batch writes per sink",
	},
	[]string{"sink"},
)

var CircuitBreakerOpened = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversas_circuit_breaker_opened_total",
		Help: "Transitions of a circuit breaker into the open state",
	},
	[]string{"service"},
)

func init() {
	prometheus.MustRegister(RecordsGenerated)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(SinkWriteDuration)
	prometheus.MustRegister(SinkRecordsWritten)
	prometheus.MustRegister(SinkFailures)
	prometheus.MustRegister(CircuitBreakerOpened)
}
