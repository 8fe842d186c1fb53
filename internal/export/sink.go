package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	prometheusConversas "github.com/josericardo-fo/jul.ia-bancodedados/internal/prometheus"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoRecords = errors.New("no records to export")

// Sink persists one generated sequence. Write receives the records read-only
// and may run concurrently with other sinks.
type Sink interface {
	Name() string
	Check(ctx context.Context) error
	Write(ctx context.Context, records []synthetic.CallRecord) error
}

// Dispatch writes records to every sink concurrently and returns the first failure.
func Dispatch(ctx context.Context, sinks []Sink, records []synthetic.CallRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, sink := range sinks {
		group.Go(func() error {
			return write(groupCtx, sink, records)
		})
	}

	return group.Wait()
}

func write(ctx context.Context, sink Sink, records []synthetic.CallRecord) error {
	name := sink.Name()

	timer := prometheus.NewTimer(prometheusConversas.SinkWriteDuration.WithLabelValues(name))

	err := sink.Write(ctx, records)

	timer.ObserveDuration()

	if err != nil {
		prometheusConversas.SinkFailures.WithLabelValues(name).Inc()
		logging.Logger.Error("Failed to export records",
			zap.String("sink", name),
			zap.Int("record_count", len(records)),
			zap.String("error", err.Error()),
		)

		return fmt.Errorf("%s sink: %w", name, err)
	}

	prometheusConversas.SinkRecordsWritten.WithLabelValues(name).Add(float64(len(records)))
	logging.Logger.Info("Records exported",
		zap.String("sink", name),
		zap.Int("record_count", len(records)),
	)

	return nil
}
