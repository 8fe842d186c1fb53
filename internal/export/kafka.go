package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/IBM/sarama"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const (
	runIDHeader       = "run_id"
	contentTypeHeader = "content_type"
)

var ErrPublishFailed = errors.New("failed to publish records")

type MessageSender interface {
	Check(ctx context.Context) error
	SendMessage(topic string, key, value []byte, headers ...sarama.RecordHeader) (int32, int64, error)
}

// KafkaSink publishes one message per record, keyed by record id. Messages are
// sent from a worker pool, so their order across partitions is not kept.
type KafkaSink struct {
	Sender   MessageSender
	RunID    string
	Topic    string
	Encoding string
	PoolSize int
	Locale   Locale
}

func NewKafkaSink(sender MessageSender, runID string, locale Locale) *KafkaSink {
	return &KafkaSink{
		Sender:   sender,
		RunID:    runID,
		Topic:    config.Conf.KafkaTopic,
		Encoding: config.Conf.KafkaEncoding,
		PoolSize: config.Conf.KafkaPoolSize,
		Locale:   locale,
	}
}

func (k *KafkaSink) Name() string {
	return config.SinkKafka
}

func (k *KafkaSink) Check(ctx context.Context) error {
	return k.Sender.Check(ctx)
}

func (k *KafkaSink) Write(ctx context.Context, records []synthetic.CallRecord) error {
	workerPool, err := ants.NewPool(k.PoolSize, ants.WithPreAlloc(true))
	if err != nil {
		return err
	}
	defer workerPool.Release()

	headers := []sarama.RecordHeader{
		{Key: []byte(runIDHeader), Value: []byte(k.RunID)},
		{Key: []byte(contentTypeHeader), Value: []byte(k.contentType())},
	}

	var (
		waitGroup sync.WaitGroup
		failed    atomic.Int64
		firstErr  error
		errOnce   sync.Once
	)

	fail := func(err error) {
		failed.Add(1)
		errOnce.Do(func() { firstErr = err })
	}

	for indx := range records {
		if ctx.Err() != nil {
			fail(ctx.Err())
			break
		}

		record := &records[indx]

		waitGroup.Add(1)

		err := workerPool.Submit(func() {
			defer waitGroup.Done()

			err := k.publish(record, headers)
			if err != nil {
				fail(err)
			}
		})
		if err != nil {
			waitGroup.Done()
			logging.Logger.Error("failed to submit kafka worker pool",
				zap.Int("id", record.ID),
				zap.String("error", err.Error()),
			)
			fail(err)
		}
	}

	waitGroup.Wait()

	if firstErr != nil {
		return fmt.Errorf("%w: %d of %d: %w", ErrPublishFailed, failed.Load(), len(records), firstErr)
	}

	return nil
}

func (k *KafkaSink) publish(record *synthetic.CallRecord, headers []sarama.RecordHeader) error {
	value, err := MarshalRecord(record, k.Locale, k.Encoding)
	if err != nil {
		return err
	}

	_, _, err = k.Sender.SendMessage(k.Topic, []byte(strconv.Itoa(record.ID)), value, headers...)

	return err
}

func (k *KafkaSink) contentType() string {
	if k.Encoding == config.EncodingMsgpack {
		return "application/msgpack"
	}

	return "application/json"
}
