package export

import (
	"context"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
)

type RecordRepository interface {
	Ping(ctx context.Context) error
	CreateRecords(ctx context.Context, runID string, records []synthetic.CallRecord) error
}

// DatabaseSink stores the run in the call_records table.
type DatabaseSink struct {
	Repository RecordRepository
	RunID      string
}

func NewDatabaseSink(repository RecordRepository, runID string) *DatabaseSink {
	return &DatabaseSink{Repository: repository, RunID: runID}
}

func (d *DatabaseSink) Name() string {
	return config.SinkPostgres
}

func (d *DatabaseSink) Check(ctx context.Context) error {
	return d.Repository.Ping(ctx)
}

func (d *DatabaseSink) Write(ctx context.Context, records []synthetic.CallRecord) error {
	return d.Repository.CreateRecords(ctx, d.RunID, records)
}
