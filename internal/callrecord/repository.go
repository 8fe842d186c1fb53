package callrecord

import (
	"context"
	"errors"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/circuitbreak"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/database"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidCountResult = errors.New("invalid result type, it should be int64")

type CallRecordRepository struct {
	DBConn         *gorm.DB
	CircuitBreaker *gobreaker.CircuitBreaker[any]
	BatchSize      int
}

func NewCallRecordRepository(dbConn *gorm.DB) *CallRecordRepository {
	return &CallRecordRepository{
		DBConn: dbConn,
		CircuitBreaker: circuitbreak.New[any](
			circuitbreak.DBService,
			config.Conf.DBIntervalCB,
			config.Conf.DBConsecutiveFailuresCB,
		),
		BatchSize: config.Conf.PostgresBatchSize,
	}
}

// CreateRecords inserts the whole run in one transaction, BatchSize rows per statement.
func (repository *CallRecordRepository) CreateRecords(
	ctx context.Context,
	runID string,
	records []synthetic.CallRecord,
) error {
	rows := make([]CallRecord, len(records))
	for indx := range records {
		rows[indx] = FromSynthetic(runID, &records[indx])
	}

	_, err := repository.CircuitBreaker.Execute(func() (any, error) {
		err := repository.DBConn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(rows, repository.BatchSize).Error
		})
		if err != nil {
			logging.Logger.Error("[CreateRecords] Failed to insert call records - may cause circuit breaker trip",
				zap.String("run_id", runID),
				zap.Int("record_count", len(rows)),
				zap.String("error", err.Error()),
				zap.Bool("is_context_error", ctx.Err() != nil),
			)

			return nil, err
		}

		return nil, nil
	})

	return err
}

// CountByRunID returns how many rows a run stored.
func (repository *CallRecordRepository) CountByRunID(ctx context.Context, runID string) (int64, error) {
	result, err := repository.CircuitBreaker.Execute(func() (any, error) {
		var count int64

		err := repository.DBConn.WithContext(ctx).
			Model(&CallRecord{}).
			Where("run_id = ?", runID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}

		return count, nil
	})
	if err != nil {
		return 0, err
	}

	count, ok := result.(int64)
	if !ok {
		return 0, ErrInvalidCountResult
	}

	return count, nil
}

func (repository *CallRecordRepository) Ping(ctx context.Context) error {
	return database.Ping(ctx, repository.DBConn)
}
