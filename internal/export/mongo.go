package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
)

var ErrIncompleteInsert = errors.New("document store inserted fewer records than sent")

type DocumentInserter interface {
	Check(ctx context.Context) error
	InsertRecords(ctx context.Context, runID string, records []synthetic.CallRecord) (int, error)
}

type MongoSink struct {
	Inserter DocumentInserter
	RunID    string
}

func NewMongoSink(inserter DocumentInserter, runID string) *MongoSink {
	return &MongoSink{Inserter: inserter, RunID: runID}
}

func (m *MongoSink) Name() string {
	return config.SinkMongo
}

func (m *MongoSink) Check(ctx context.Context) error {
	return m.Inserter.Check(ctx)
}

func (m *MongoSink) Write(ctx context.Context, records []synthetic.CallRecord) error {
	inserted, err := m.Inserter.InsertRecords(ctx, m.RunID, records)
	if err != nil {
		return err
	}

	if inserted != len(records) {
		return fmt.Errorf("%w: %d of %d", ErrIncompleteInsert, inserted, len(records))
	}

	return nil
}
