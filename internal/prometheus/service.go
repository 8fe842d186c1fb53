package prometheus

import (
	"context"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// Push sends every registered metric to the Pushgateway at url, grouped by run.
func Push(ctx context.Context, url, job, runID string) error {
	err := push.New(url, job).
		Grouping("run_id", runID).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
	if err != nil {
		logging.Logger.Error("failed to push metrics",
			zap.String("url", url),
			zap.String("job", job),
			zap.String("error", err.Error()),
		)

		return err
	}

	logging.Logger.Info("metrics pushed", zap.String("url", url), zap.String("run_id", runID))

	return nil
}
