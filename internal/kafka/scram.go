package kafka

import (
	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"
)

// scramClient adapts an xdg-go/scram conversation to sarama.SCRAMClient.
// A fresh client is built for every broker connection.
type scramClient struct {
	hash         scram.HashGeneratorFcn
	conversation *scram.ClientConversation
}

func (c *scramClient) Begin(userName, password, authzID string) error {
	client, err := c.hash.NewClient(userName, password, authzID)
	if err != nil {
		return err
	}

	c.conversation = client.NewConversation()

	return nil
}

func (c *scramClient) Step(challenge string) (string, error) {
	return c.conversation.Step(challenge)
}

func (c *scramClient) Done() bool {
	return c.conversation != nil && c.conversation.Done()
}

// scramClientGenerator maps a sarama SASL mechanism to a client factory.
// Any mechanism other than SCRAM-SHA-256/512 disables SASL.
func scramClientGenerator(mechanism string) (func() sarama.SCRAMClient, bool) {
	var hash scram.HashGeneratorFcn

	switch mechanism {
	case sarama.SASLTypeSCRAMSHA256:
		hash = scram.SHA256
	case sarama.SASLTypeSCRAMSHA512:
		hash = scram.SHA512
	default:
		return nil, false
	}

	return func() sarama.SCRAMClient {
		return &scramClient{hash: hash}
	}, true
}
