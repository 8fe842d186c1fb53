package kafka

import (
	"github.com/IBM/sarama"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
)

// newSaramaConfig builds the producer configuration. SASL is enabled only when
// a mechanism is configured.
func newSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_8_0_0
	cfg.ClientID = "conversas"

	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 5
	cfg.Net.MaxOpenRequests = 1

	newSCRAMClient, ok := scramClientGenerator(config.Conf.KafkaSASLMechanism)
	if !ok {
		return cfg
	}

	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.Mechanism = sarama.SASLMechanism(config.Conf.KafkaSASLMechanism)
	cfg.Net.SASL.User = config.Conf.KafkaUsername
	cfg.Net.SASL.Password = config.Conf.KafkaPassword
	cfg.Net.SASL.Handshake = true
	cfg.Net.SASL.SCRAMClientGeneratorFunc = newSCRAMClient

	return cfg
}
