package minio

import (
	"testing"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/stretchr/testify/require"
)

func TestObjectKeys(t *testing.T) {
	previous := config.Conf
	t.Cleanup(func() { config.Conf = previous })

	config.Conf.MinioEndpointURL = "minio.local:9000"
	config.Conf.MinioAccessKey = "access"
	config.Conf.MinioSecretKey = "secret"
	config.Conf.MinioBucketName = "synthetic"
	config.Conf.MinioPathPrefix = "conversas"

	client, err := NewMinioClient()
	require.NoError(t, err)

	require.Equal(t, "conversas/run-1/conversas.json", client.getKey("run-1/conversas.json"))
	require.Equal(t,
		"minio.local:9000/synthetic/conversas/run-1/conversas.json",
		client.generateURL("run-1/conversas.json"),
	)
}
