package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SinkFile     = "file"
	SinkMinio    = "minio"
	SinkKafka    = "kafka"
	SinkPostgres = "postgres"
	SinkMongo    = "mongo"

	TimeWindowYear       = "year"
	TimeWindowYearToDate = "year_to_date"

	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

const (
	DefaultRecordCount = 10000
	DefaultSeed        = 4321
	DefaultOutputPath  = "conversas.json"
)

type Config struct {
	RecordCount  int      `mapstructure:"record_count"  validate:"gt=0"`
	Seed         int64    `mapstructure:"seed"`
	OutputPath   string   `mapstructure:"output_path"   validate:"required"`
	OutputLocale string   `mapstructure:"output_locale" validate:"oneof=en pt_BR"`
	TimeWindow   string   `mapstructure:"time_window"   validate:"oneof=year year_to_date"`
	Timezone     string   `mapstructure:"timezone"      validate:"required"`
	Sinks        []string `mapstructure:"sinks"         validate:"min=1,unique,dive,oneof=file minio kafka postgres mongo"`

	LogLevel    string `mapstructure:"log_level"`
	LogFilePath string `mapstructure:"log_file_path"`

	MinioEndpointURL            string `mapstructure:"minio_endpoint_url"`
	MinioAccessKey              string `mapstructure:"minio_access_key"`
	MinioSecretKey              string `mapstructure:"minio_secret_key"`
	MinioBucketName             string `mapstructure:"minio_bucket_name"`
	MinioPathPrefix             string `mapstructure:"minio_path_prefix"`
	MinioSecure                 bool   `mapstructure:"minio_secure"`
	MinioMaxRetryAttempts       uint   `mapstructure:"minio_max_retry_attempts"`
	MinioRetryBackoffMinSeconds int    `mapstructure:"minio_retry_backoff_min_seconds"`
	MinioRetryBackoffMaxSeconds int    `mapstructure:"minio_retry_backoff_max_seconds"`
	MinioTimeout                int    `mapstructure:"minio_timeout"`
	MinioIntervalCB             uint32 `mapstructure:"minio_interval_cb"`
	MinioConsecutiveFailuresCB  uint32 `mapstructure:"minio_consecutive_failures_cb"`

	KafkaBootstrapServer       string `mapstructure:"kafka_bootstrap_server"`
	KafkaUsername              string `mapstructure:"kafka_username"`
	KafkaPassword              string `mapstructure:"kafka_password"`
	KafkaSASLMechanism         string `mapstructure:"kafka_sasl_mechanism"          validate:"omitempty,oneof=SCRAM-SHA-256 SCRAM-SHA-512"`
	KafkaTopic                 string `mapstructure:"kafka_topic"`
	KafkaEncoding              string `mapstructure:"kafka_encoding"                validate:"oneof=json msgpack"`
	KafkaPoolSize              int    `mapstructure:"kafka_pool_size"               validate:"gt=0"`
	KafkaIntervalCB            uint32 `mapstructure:"kafka_interval_cb"`
	KafkaConsecutiveFailuresCB uint32 `mapstructure:"kafka_consecutive_failures_cb"`

	PostgresHost            string `mapstructure:"postgres_host"`
	PostgresUsername        string `mapstructure:"postgres_username"`
	PostgresPassword        string `mapstructure:"postgres_password"`
	PostgresPort            string `mapstructure:"postgres_port"`
	PostgresDatabase        string `mapstructure:"postgres_database"`
	PostgresBatchSize       int    `mapstructure:"postgres_batch_size"        validate:"gt=0"`
	DBIntervalCB            uint32 `mapstructure:"db_interval_cb"`
	DBConsecutiveFailuresCB uint32 `mapstructure:"db_consecutive_failures_cb"`

	MongoURI                   string `mapstructure:"mongo_uri"`
	MongoUsername              string `mapstructure:"mongo_username"`
	MongoPassword              string `mapstructure:"mongo_password"`
	MongoDatabase              string `mapstructure:"mongo_database"`
	MongoCollection            string `mapstructure:"mongo_collection"`
	MongoTimeout               int    `mapstructure:"mongo_timeout"`
	MongoIntervalCB            uint32 `mapstructure:"mongo_interval_cb"`
	MongoConsecutiveFailuresCB uint32 `mapstructure:"mongo_consecutive_failures_cb"`

	HealthCheckerTimeout int `mapstructure:"health_checker_timeout"`

	PushgatewayURL string `mapstructure:"pushgateway_url"`
	PushgatewayJob string `mapstructure:"pushgateway_job"`
}

var Conf Config

// sinkRequirements lists the fields an enabled sink cannot run without.
var sinkRequirements = map[string][]string{
	SinkMinio:    {"MinioEndpointURL", "MinioAccessKey", "MinioSecretKey", "MinioBucketName"},
	SinkKafka:    {"KafkaBootstrapServer", "KafkaTopic"},
	SinkPostgres: {"PostgresHost", "PostgresUsername", "PostgresPassword", "PostgresPort", "PostgresDatabase"},
	SinkMongo:    {"MongoURI", "MongoDatabase", "MongoCollection"},
}

// flagKeys maps command-line flags to their configuration keys.
var flagKeys = map[string]string{
	"count":     "record_count",
	"seed":      "seed",
	"output":    "output_path",
	"locale":    "output_locale",
	"window":    "time_window",
	"timezone":  "timezone",
	"sinks":     "sinks",
	"log-level": "log_level",
}

// Load reads .env, the environment and args, in increasing order of precedence,
// validates the result and stores it in Conf.
func Load(args []string) (*Config, error) {
	flags := newFlagSet()

	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = loadEnvConfig(viper.New(), flags, &cfg)
	if err != nil {
		return nil, err
	}

	Conf = cfg

	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

func (c *Config) SinkEnabled(name string) bool {
	for _, sink := range c.Sinks {
		if sink == name {
			return true
		}
	}

	return false
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("conversas", pflag.ContinueOnError)

	flags.Int("count", DefaultRecordCount, "number of call records to generate")
	flags.Int64("seed", DefaultSeed, "seed of the pseudo-random stream")
	flags.String("output", DefaultOutputPath, "path of the JSON document written by the file sink")
	flags.String("locale", "en", "field naming of exported documents: en or pt_BR")
	flags.String("window", TimeWindowYear, "start time window: year or year_to_date")
	flags.String("timezone", "UTC", "IANA zone of generated timestamps")
	flags.String("sinks", SinkFile, "comma separated sinks: file, minio, kafka, postgres, mongo")
	flags.String("log-level", "INFO", "log level")

	return flags
}

func loadEnvConfig(v *viper.Viper, flags *pflag.FlagSet, cfg *Config) error {
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setupDefaults(v)

	for flagName, key := range flagKeys {
		err := v.BindPFlag(key, flags.Lookup(flagName))
		if err != nil {
			return err
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError

		ok := errors.As(err, &configFileNotFoundError)
		if !ok {
			return err
		}
	}

	err = v.Unmarshal(cfg)
	if err != nil {
		return err
	}

	validate := validator.New()
	validate.RegisterStructValidation(validateSinkSettings, Config{})

	err = validate.Struct(cfg)
	if err != nil {
		return err
	}

	_, err = cfg.Location()

	return err
}

func validateSinkSettings(sl validator.StructLevel) {
	current := sl.Current()

	cfg, ok := current.Interface().(Config)
	if !ok {
		return
	}

	for _, sink := range cfg.Sinks {
		for _, fieldName := range sinkRequirements[sink] {
			field := current.FieldByName(fieldName)
			if field.IsZero() {
				sl.ReportError(field.Interface(), fieldName, fieldName, "required_for_sink", sink)
			}
		}
	}
}

func setupDefaults(v *viper.Viper) {
	confType := reflect.TypeOf(Conf)
	for i := range confType.NumField() {
		field := confType.Field(i)
		v.SetDefault(field.Tag.Get("mapstructure"), "")
	}

	v.SetDefault("RECORD_COUNT", DefaultRecordCount)
	v.SetDefault("SEED", DefaultSeed)
	v.SetDefault("OUTPUT_PATH", DefaultOutputPath)
	v.SetDefault("OUTPUT_LOCALE", "en")
	v.SetDefault("TIME_WINDOW", TimeWindowYear)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("SINKS", SinkFile)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FILE_PATH", "./conversas.log")
	v.SetDefault("MINIO_PATH_PREFIX", "conversas")
	v.SetDefault("MINIO_SECURE", "true")
	v.SetDefault("MINIO_MAX_RETRY_ATTEMPTS", "3")
	v.SetDefault("MINIO_RETRY_BACKOFF_MIN_SECONDS", "1")
	v.SetDefault("MINIO_RETRY_BACKOFF_MAX_SECONDS", "10")
	v.SetDefault("MINIO_TIMEOUT", "60")
	v.SetDefault("MINIO_INTERVAL_CB", "300")
	v.SetDefault("MINIO_CONSECUTIVE_FAILURES_CB", "3")
	v.SetDefault("KAFKA_TOPIC", "conversas")
	v.SetDefault("KAFKA_ENCODING", EncodingJSON)
	v.SetDefault("KAFKA_POOL_SIZE", "10")
	v.SetDefault("KAFKA_INTERVAL_CB", "30")
	v.SetDefault("KAFKA_CONSECUTIVE_FAILURES_CB", "5")
	v.SetDefault("POSTGRES_BATCH_SIZE", "500")
	v.SetDefault("DB_INTERVAL_CB", "30")
	v.SetDefault("DB_CONSECUTIVE_FAILURES_CB", "3")
	v.SetDefault("MONGO_COLLECTION", "conversas")
	v.SetDefault("MONGO_TIMEOUT", "10")
	v.SetDefault("MONGO_INTERVAL_CB", "30")
	v.SetDefault("MONGO_CONSECUTIVE_FAILURES_CB", "3")
	v.SetDefault("HEALTH_CHECKER_TIMEOUT", "10")
	v.SetDefault("PUSHGATEWAY_JOB", "conversas")
}
