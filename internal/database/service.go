package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func NewDatabase(ctx context.Context) (*gorm.DB, error) {
	dsn := GetDSN()

	gormLoggerInstance := gormLogger.Default.LogMode(gormLogger.Silent)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLoggerInstance,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logging.Logger.Error("Failed to connect to Postgres", zap.String("error", err.Error()))
		return nil, err
	}

	err = Ping(ctx, database)
	if err != nil {
		logging.Logger.Error("Failed to ping Postgres database", zap.String("error", err.Error()))
		return nil, err
	}

	logging.Logger.Info("Successfully connected to Postgres",
		zap.String("host", config.Conf.PostgresHost),
		zap.String("database", config.Conf.PostgresDatabase),
	)

	return database, nil
}

func Ping(ctx context.Context, database *gorm.DB) error {
	sqldatabase, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	return sqldatabase.PingContext(ctx)
}

func Close(database *gorm.DB) error {
	sqldatabase, err := database.DB()
	if err != nil {
		return err
	}

	return sqldatabase.Close()
}

func GetDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s",
		config.Conf.PostgresHost,
		config.Conf.PostgresUsername,
		config.Conf.PostgresPassword,
		config.Conf.PostgresDatabase,
		config.Conf.PostgresPort,
	)
}

func GetURL() string {
	dbUrl := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.Conf.PostgresUsername, config.Conf.PostgresPassword),
		Host:   fmt.Sprintf("%s:%s", config.Conf.PostgresHost, config.Conf.PostgresPort),
		Path:   config.Conf.PostgresDatabase,
	}
	queries := url.Values{}
	queries.Add("sslmode", "disable")
	dbUrl.RawQuery = queries.Encode()

	return dbUrl.String()
}
