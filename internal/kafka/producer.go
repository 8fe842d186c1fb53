package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/circuitbreak"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrTopicWithoutPartitions = errors.New("kafka topic has no partitions")

type ProducerResult struct {
	Partition int32
	Offset    int64
}

type Producer struct {
	Client         sarama.Client
	SyncProducer   sarama.SyncProducer
	CircuitBreaker *gobreaker.CircuitBreaker[ProducerResult]
}

// NewProducer creates and returns a new Kafka producer instance using the provided configuration.
func NewProducer() (*Producer, error) {
	cfg := newSaramaConfig()

	client, err := sarama.NewClient([]string{config.Conf.KafkaBootstrapServer}, cfg)
	if err != nil {
		logging.Logger.Error("Failed to connect to Kafka",
			zap.String("bootstrap", config.Conf.KafkaBootstrapServer),
			zap.String("error", err.Error()),
		)

		return nil, err
	}

	syncProducer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		logging.Logger.Error("Failed to create Kafka producer",
			zap.String("bootstrap", config.Conf.KafkaBootstrapServer),
			zap.String("error", err.Error()),
		)

		_ = client.Close()

		return nil, err
	}

	logging.Logger.Info("Successfully connected to Kafka producer",
		zap.String("bootstrap", config.Conf.KafkaBootstrapServer),
		zap.Bool("sasl", cfg.Net.SASL.Enable),
		zap.String("mechanism", string(cfg.Net.SASL.Mechanism)),
	)

	return newProducer(client, syncProducer), nil
}

func newProducer(client sarama.Client, syncProducer sarama.SyncProducer) *Producer {
	return &Producer{
		Client:       client,
		SyncProducer: syncProducer,
		CircuitBreaker: circuitbreak.New[ProducerResult](
			circuitbreak.KafkaService,
			config.Conf.KafkaIntervalCB,
			config.Conf.KafkaConsecutiveFailuresCB,
		),
	}
}

// Check refreshes the topic metadata and fails when the topic has no partitions.
func (p *Producer) Check(ctx context.Context) error {
	topic := config.Conf.KafkaTopic

	errCh := make(chan error, 1)

	go func() {
		err := p.Client.RefreshMetadata(topic)
		if err != nil {
			errCh <- err
			return
		}

		partitions, err := p.Client.Partitions(topic)
		if err != nil {
			errCh <- err
			return
		}

		if len(partitions) == 0 {
			errCh <- fmt.Errorf("%w: %s", ErrTopicWithoutPartitions, topic)
			return
		}

		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendMessage sends a message to the given Kafka topic.
func (p *Producer) SendMessage(topic string, key, value []byte, headers ...sarama.RecordHeader) (int32, int64, error) {
	result, err := p.CircuitBreaker.Execute(func() (ProducerResult, error) {
		return p.doSendMessage(topic, key, value, headers)
	})
	if err != nil {
		return 0, 0, err
	}

	return result.Partition, result.Offset, nil
}

// Close closes the producer and releases all resources.
func (p *Producer) Close() error {
	err := p.SyncProducer.Close()
	if err != nil {
		logging.Logger.Error("Failed to close Kafka producer", zap.String("error", err.Error()))
		return err
	}

	if p.Client != nil && !p.Client.Closed() {
		err = p.Client.Close()
		if err != nil {
			logging.Logger.Error("Failed to close Kafka client", zap.String("error", err.Error()))
			return err
		}
	}

	logging.Logger.Info("Kafka producer closed successfully")

	return nil
}

func (p *Producer) doSendMessage(
	topic string,
	key, value []byte,
	headers []sarama.RecordHeader,
) (ProducerResult, error) {
	message := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.ByteEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}

	partition, offset, err := p.SyncProducer.SendMessage(message)
	if err != nil {
		logging.Logger.Error("Failed to send message to Kafka",
			zap.String("topic", topic),
			zap.String("error", err.Error()),
		)

		return ProducerResult{}, err
	}

	logging.Logger.Debug("Message sent successfully",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)

	return ProducerResult{Partition: partition, Offset: offset}, nil
}
