//go:build integration

package test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/database"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	testKafkaTopic  = "conversas-test"
	testBucket      = "conversas-test-bucket"
	testDatabase    = "conversas"
	testMongoDBName = "conversas_test"
)

type dockertestResources struct {
	pool           *dockertest.Pool
	mu             sync.Mutex
	activeResource []*dockertest.Resource
}

func newResources(t *testing.T) *dockertestResources {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	pool.MaxWait = 3 * time.Minute

	return &dockertestResources{pool: pool}
}

// startPostgres returns host and port of a migrated database.
func (r *dockertestResources) startPostgres(t *testing.T) (string, string) {
	t.Helper()

	resource, err := r.pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=conversas",
			"POSTGRES_DB=" + testDatabase,
		},
		ExposedPorts: []string{"5432/tcp"},
	})
	require.NoError(t, err)

	r.track(resource)

	host, port := splitHostPort(resource.GetHostPort("5432/tcp"))
	dsn := fmt.Sprintf("host=%s user=conversas password=secret dbname=%s port=%s sslmode=disable", host, testDatabase, port)

	require.NoError(t, r.pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		return sqlDB.Ping()
	}))

	return host, port
}

func applyMigrations(t *testing.T) {
	t.Helper()

	migrationsDir, err := filepath.Abs(filepath.Join("..", "migrations"))
	require.NoError(t, err)

	migrator, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), database.GetURL())
	require.NoError(t, err)

	defer migrator.Close()

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
}

func (r *dockertestResources) startMinio(t *testing.T) string {
	t.Helper()

	resource, err := r.pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "RELEASE.2024-08-17T01-24-54Z",
		Env: []string{
			"MINIO_ROOT_USER=minio",
			"MINIO_ROOT_PASSWORD=minio123",
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
	})
	require.NoError(t, err)

	r.track(resource)

	endpoint := resource.GetHostPort("9000/tcp")

	require.NoError(t, r.pool.Retry(func() error {
		client, err := newMinioAdmin(endpoint)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err = client.MakeBucket(ctx, testBucket, minio.MakeBucketOptions{})
		if err != nil {
			errResp := minio.ToErrorResponse(err)
			if errResp.Code != "BucketAlreadyOwnedByYou" && errResp.Code != "BucketAlreadyExists" {
				return err
			}
		}

		return nil
	}))

	return endpoint
}

func newMinioAdmin(endpoint string) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minio", "minio123", ""),
		Secure: false,
	})
}

func (r *dockertestResources) startKafka(t *testing.T) string {
	t.Helper()

	resource, err := r.pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "bitnami/kafka",
		Tag:        "3.6",
		Env: []string{
			"KAFKA_ENABLE_KRAFT=yes",
			"KAFKA_CFG_NODE_ID=1",
			"KAFKA_CFG_PROCESS_ROLES=broker,controller",
			"KAFKA_CFG_LISTENERS=PLAINTEXT://:9092,CONTROLLER://:9093",
			"KAFKA_CFG_ADVERTISED_LISTENERS=PLAINTEXT://localhost:9092",
			"KAFKA_CFG_CONTROLLER_LISTENER_NAMES=CONTROLLER",
			"KAFKA_CFG_CONTROLLER_QUORUM_VOTERS=1@localhost:9093",
			"KAFKA_CFG_LISTENER_SECURITY_PROTOCOL_MAP=CONTROLLER:PLAINTEXT,PLAINTEXT:PLAINTEXT",
			"ALLOW_PLAINTEXT_LISTENER=yes",
			"KAFKA_KRAFT_CLUSTER_ID=conversas-cluster",
		},
		ExposedPorts: []string{"9092/tcp", "9093/tcp"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"9092/tcp": {{HostIP: "0.0.0.0", HostPort: "9092"}},
			"9093/tcp": {{HostIP: "0.0.0.0", HostPort: "9093"}},
		},
	})
	require.NoError(t, err)

	r.track(resource)

	broker := resource.GetHostPort("9092/tcp")

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0

	require.NoError(t, r.pool.Retry(func() error {
		admin, err := sarama.NewClusterAdmin([]string{broker}, cfg)
		if err != nil {
			return err
		}
		defer admin.Close()

		err = admin.CreateTopic(testKafkaTopic, &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		}, false)
		if err != nil && !strings.Contains(err.Error(), "Topic with this name already exists") {
			return err
		}

		return nil
	}))

	return broker
}

func (r *dockertestResources) startMongo(t *testing.T) string {
	t.Helper()

	resource, err := r.pool.RunWithOptions(&dockertest.RunOptions{
		Repository:   "mongo",
		Tag:          "7",
		ExposedPorts: []string{"27017/tcp"},
	})
	require.NoError(t, err)

	r.track(resource)

	uri := "mongodb://" + resource.GetHostPort("27017/tcp")

	require.NoError(t, r.pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)

		return client.Ping(ctx, nil)
	}))

	return uri
}

func (r *dockertestResources) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.activeResource {
		_ = r.pool.Purge(res)
	}
}

func (r *dockertestResources) track(res *dockertest.Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeResource = append(r.activeResource, res)
}

func splitHostPort(hostPort string) (string, string) {
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		parts := strings.Split(hostPort, ":")
		return "localhost", parts[len(parts)-1]
	}

	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}

	return host, port
}

func configureConfigForTest(t *testing.T, outputPath, postgresHost, postgresPort, minioEndpoint, kafkaAddr, mongoURI string) {
	t.Helper()

	previous := config.Conf
	t.Cleanup(func() { config.Conf = previous })

	config.Conf.RecordCount = 200
	config.Conf.Seed = config.DefaultSeed
	config.Conf.OutputPath = outputPath
	config.Conf.OutputLocale = "en"
	config.Conf.TimeWindow = config.TimeWindowYear
	config.Conf.Timezone = "UTC"
	config.Conf.Sinks = []string{
		config.SinkFile,
		config.SinkMinio,
		config.SinkKafka,
		config.SinkPostgres,
		config.SinkMongo,
	}

	config.Conf.PostgresHost = postgresHost
	config.Conf.PostgresPort = postgresPort
	config.Conf.PostgresUsername = "conversas"
	config.Conf.PostgresPassword = "secret"
	config.Conf.PostgresDatabase = testDatabase
	config.Conf.PostgresBatchSize = 50
	config.Conf.DBIntervalCB = 1
	config.Conf.DBConsecutiveFailuresCB = 3

	config.Conf.KafkaBootstrapServer = kafkaAddr
	config.Conf.KafkaTopic = testKafkaTopic
	config.Conf.KafkaEncoding = config.EncodingJSON
	config.Conf.KafkaPoolSize = 4
	config.Conf.KafkaIntervalCB = 1
	config.Conf.KafkaConsecutiveFailuresCB = 3

	config.Conf.MinioEndpointURL = minioEndpoint
	config.Conf.MinioAccessKey = "minio"
	config.Conf.MinioSecretKey = "minio123"
	config.Conf.MinioBucketName = testBucket
	config.Conf.MinioPathPrefix = "records"
	config.Conf.MinioSecure = false
	config.Conf.MinioTimeout = 30
	config.Conf.MinioMaxRetryAttempts = 1
	config.Conf.MinioRetryBackoffMinSeconds = 1
	config.Conf.MinioRetryBackoffMaxSeconds = 2
	config.Conf.MinioIntervalCB = 1
	config.Conf.MinioConsecutiveFailuresCB = 3

	config.Conf.MongoURI = mongoURI
	config.Conf.MongoDatabase = testMongoDBName
	config.Conf.MongoCollection = "conversas"
	config.Conf.MongoTimeout = 10
	config.Conf.MongoIntervalCB = 1
	config.Conf.MongoConsecutiveFailuresCB = 3

	config.Conf.HealthCheckerTimeout = 10
}
