package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/circuitbreak"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type MongoClient struct {
	Client         *mongo.Client
	Collection     *mongo.Collection
	CircuitBreaker *gobreaker.CircuitBreaker[int]
	Timeout        time.Duration
}

// callDocument is a record as stored in the collection. The id is unique per
// run, so writing the same run twice fails instead of duplicating it.
type callDocument struct {
	DocumentID           string `bson:"_id"`
	RunID                string `bson:"runId"`
	synthetic.CallRecord `bson:",inline"`
}

// NewMongoClient connects to MongoDB and pings the primary.
func NewMongoClient(ctx context.Context) (*MongoClient, error) {
	timeout := time.Duration(config.Conf.MongoTimeout) * time.Second

	clientOptions := options.Client().ApplyURI(config.Conf.MongoURI).SetAppName("conversas")

	if config.Conf.MongoUsername != "" && config.Conf.MongoPassword != "" {
		clientOptions.SetAuth(options.Credential{
			Username: config.Conf.MongoUsername,
			Password: config.Conf.MongoPassword,
		})
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctxWithTimeout, clientOptions)
	if err != nil {
		logging.Logger.Error("Failed to connect to MongoDB", zap.String("error", err.Error()))
		return nil, err
	}

	err = client.Ping(ctxWithTimeout, readpref.Primary())
	if err != nil {
		logging.Logger.Error("Failed to ping MongoDB", zap.String("error", err.Error()))

		_ = client.Disconnect(ctx)

		return nil, err
	}

	logging.Logger.Info("Successfully connected to MongoDB",
		zap.String("database", config.Conf.MongoDatabase),
		zap.String("collection", config.Conf.MongoCollection),
	)

	collection := client.Database(config.Conf.MongoDatabase).Collection(config.Conf.MongoCollection)

	return newMongoClient(client, collection, timeout), nil
}

func newMongoClient(client *mongo.Client, collection *mongo.Collection, timeout time.Duration) *MongoClient {
	return &MongoClient{
		Client:     client,
		Collection: collection,
		CircuitBreaker: circuitbreak.New[int](
			circuitbreak.MongoService,
			config.Conf.MongoIntervalCB,
			config.Conf.MongoConsecutiveFailuresCB,
		),
		Timeout: timeout,
	}
}

func (m *MongoClient) Check(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// InsertRecords writes the records of one run and returns how many were inserted.
func (m *MongoClient) InsertRecords(ctx context.Context, runID string, records []synthetic.CallRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	return m.CircuitBreaker.Execute(func() (int, error) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, m.Timeout)
		defer cancel()

		result, err := m.Collection.InsertMany(
			ctxWithTimeout,
			toDocuments(runID, records),
			options.InsertMany().SetOrdered(false),
		)
		if err != nil {
			logging.Logger.Error("Failed to insert records into MongoDB",
				zap.String("run_id", runID),
				zap.Int("record_count", len(records)),
				zap.String("error", err.Error()),
			)

			return 0, err
		}

		return len(result.InsertedIDs), nil
	})
}

func (m *MongoClient) Disconnect(ctx context.Context) error {
	err := m.Client.Disconnect(ctx)
	if err != nil {
		logging.Logger.Error("Failed to disconnect from MongoDB", zap.String("error", err.Error()))
		return err
	}

	logging.Logger.Info("MongoDB connection closed successfully")

	return nil
}

func toDocuments(runID string, records []synthetic.CallRecord) []any {
	documents := make([]any, 0, len(records))
	for _, record := range records {
		documents = append(documents, callDocument{
			DocumentID: fmt.Sprintf("%s-%d", runID, record.ID),
			RunID:      runID,
			CallRecord: record,
		})
	}

	return documents
}
