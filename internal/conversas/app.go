package conversas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/callrecord"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/database"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/export"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/healthchecker"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/kafka"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/minio"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/mongo"
	prometheusConversas "github.com/josericardo-fo/jul.ia-bancodedados/internal/prometheus"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const closeTimeout = 10 * time.Second

type Conversas struct {
	RunID                string
	Sinks                []export.Sink
	HealthCheckerService *healthchecker.Healthchecker
	closers              []func() error
}

// NewApp connects every sink enabled in config.Conf. Nothing is generated yet.
func NewApp(ctx context.Context) (*Conversas, error) {
	runID := uuid.New().String()

	logging.Logger.Info("[NewApp] Initializing conversas application...",
		zap.String("run_id", runID),
		zap.Strings("sinks", config.Conf.Sinks),
	)

	locale, err := export.ParseLocale(config.Conf.OutputLocale)
	if err != nil {
		return nil, err
	}

	app := &Conversas{
		RunID:                runID,
		HealthCheckerService: healthchecker.NewService(),
	}

	for _, name := range config.Conf.Sinks {
		sink, err := app.newSink(ctx, name, locale)
		if err != nil {
			logging.Logger.Error("[NewApp] Failed to initialize sink",
				zap.String("sink", name),
				zap.String("error", err.Error()),
			)
			_ = app.Close()

			return nil, err
		}

		app.Sinks = append(app.Sinks, sink)

		logging.Logger.Info("[NewApp] Sink created", zap.String("sink", name))
	}

	return app, nil
}

func (app *Conversas) newSink(ctx context.Context, name string, locale export.Locale) (export.Sink, error) {
	switch name {
	case config.SinkMinio:
		minioClient, err := minio.NewMinioClient()
		if err != nil {
			return nil, err
		}

		return export.NewMinioSink(minioClient, app.RunID, config.Conf.OutputPath, locale), nil
	case config.SinkKafka:
		kafkaProducer, err := kafka.NewProducer()
		if err != nil {
			return nil, err
		}

		app.closers = append(app.closers, kafkaProducer.Close)

		return export.NewKafkaSink(kafkaProducer, app.RunID, locale), nil
	case config.SinkPostgres:
		dbConn, err := database.NewDatabase(ctx)
		if err != nil {
			return nil, err
		}

		app.closers = append(app.closers, func() error { return database.Close(dbConn) })

		return export.NewDatabaseSink(callrecord.NewCallRecordRepository(dbConn), app.RunID), nil
	case config.SinkMongo:
		mongoClient, err := mongo.NewMongoClient(ctx)
		if err != nil {
			return nil, err
		}

		app.closers = append(app.closers, func() error {
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()

			return mongoClient.Disconnect(ctxWithTimeout)
		})

		return export.NewMongoSink(mongoClient, app.RunID), nil
	default:
		return export.NewFileSink(config.Conf.OutputPath, locale), nil
	}
}

// Run checks every sink, generates the configured batch and exports it.
// Metrics are pushed whether or not the run succeeds.
func (app *Conversas) Run(ctx context.Context) error {
	defer app.pushMetrics(ctx)

	targets := make([]healthchecker.Target, 0, len(app.Sinks))
	for _, sink := range app.Sinks {
		targets = append(targets, sink)
	}

	err := app.HealthCheckerService.Check(ctx, targets...)
	if err != nil {
		return err
	}

	records, err := app.generate()
	if err != nil {
		return err
	}

	err = export.Dispatch(ctx, app.Sinks, records)
	if err != nil {
		return err
	}

	logging.Logger.Info(fmt.Sprintf("generated %d synthetic records", len(records)),
		zap.String("run_id", app.RunID),
		zap.Strings("sinks", config.Conf.Sinks),
		zap.String("output_path", config.Conf.OutputPath),
	)

	return nil
}

func (app *Conversas) generate() ([]synthetic.CallRecord, error) {
	loc, err := config.Conf.Location()
	if err != nil {
		return nil, err
	}

	opts := []synthetic.Option{synthetic.WithLocation(loc)}
	if config.Conf.TimeWindow == config.TimeWindowYearToDate {
		opts = append(opts, synthetic.WithWindow(synthetic.YearToDate(time.Now().In(loc))))
	}

	timer := prometheus.NewTimer(prometheusConversas.GenerationDuration)

	records, err := synthetic.Generate(config.Conf.RecordCount, config.Conf.Seed, opts...)
	if err != nil {
		logging.Logger.Error("[Run] Failed to generate records",
			zap.Int("record_count", config.Conf.RecordCount),
			zap.String("error", err.Error()),
		)

		return nil, err
	}

	timer.ObserveDuration()

	for indx := range records {
		prometheusConversas.RecordsGenerated.
			WithLabelValues(string(records[indx].CallStatus), string(records[indx].Service)).
			Inc()
	}

	return records, nil
}

func (app *Conversas) pushMetrics(ctx context.Context) {
	if config.Conf.PushgatewayURL == "" {
		return
	}

	// ctx may already be cancelled by a shutdown signal.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()

	err := prometheusConversas.Push(pushCtx, config.Conf.PushgatewayURL, config.Conf.PushgatewayJob, app.RunID)
	if err != nil {
		logging.Logger.Warn("[Run] Failed to push metrics",
			zap.String("pushgateway", config.Conf.PushgatewayURL),
			zap.String("error", err.Error()),
		)
	}
}

// Close releases the sink connections in reverse order of creation.
func (app *Conversas) Close() error {
	var errs []error

	for indx := len(app.closers) - 1; indx >= 0; indx-- {
		err := app.closers[indx]()
		if err != nil {
			errs = append(errs, err)
		}
	}

	app.closers = nil

	logging.Logger.Info("[Close] ===== App shutdown complete =====")

	return errors.Join(errs...)
}
