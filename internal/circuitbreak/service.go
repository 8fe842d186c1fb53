package circuitbreak

import (
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	prometheusConversas "github.com/josericardo-fo/jul.ia-bancodedados/internal/prometheus"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	MinioService = "minio"
	KafkaService = "kafka_producer"
	DBService    = "database"
	MongoService = "mongo"
)

// NewSettings trips the breaker after consecutiveFailures failures in a row and
// resets the counts every intervalSeconds while closed.
func NewSettings(service string, intervalSeconds, consecutiveFailures uint32) gobreaker.Settings {
	return gobreaker.Settings{
		Name:     service,
		Interval: time.Duration(intervalSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			willTrip := counts.ConsecutiveFailures >= consecutiveFailures

			if willTrip {
				logging.Logger.Error("Circuit breaker about to trip",
					zap.String("service", service),
					zap.Uint32("total_requests", counts.Requests),
					zap.Uint32("total_failures", counts.TotalFailures),
					zap.Uint32("consecutive_failures", counts.ConsecutiveFailures),
					zap.Uint32("threshold", consecutiveFailures),
				)
			}

			return willTrip
		},
		OnStateChange: func(name string, fromState, toState gobreaker.State) {
			logging.Logger.Warn("Circuit state changed",
				zap.String("service", name),
				zap.String("from", fromState.String()),
				zap.String("to", toState.String()),
			)

			if toState == gobreaker.StateOpen {
				prometheusConversas.CircuitBreakerOpened.WithLabelValues(name).Inc()
			}
		},
	}
}

func New[T any](service string, intervalSeconds, consecutiveFailures uint32) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](NewSettings(service, intervalSeconds, consecutiveFailures))
}
