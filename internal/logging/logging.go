package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

func init() {
	Logger = zap.New(newConsoleCore(zapcore.InfoLevel), zap.AddCaller())
}

// Setup replaces Logger with one writing JSON to filePath and text to stdout.
// An empty filePath keeps console output only.
func Setup(levelName, filePath string) error {
	logger, err := getDoubleLogger(levelName, filePath)
	if err != nil {
		return err
	}

	Logger = logger

	return nil
}

func getDoubleLogger(levelName, filePath string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		Logger.Info("Invalid log level, using info level", zap.String("log_level", levelName))

		level = zapcore.InfoLevel
	}

	if filePath == "" {
		return zap.New(newConsoleCore(level), zap.AddCaller()), nil
	}

	productionEncoderConfig := zap.NewProductionEncoderConfig()
	productionEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapConfig := &zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: false,
		Encoding:          "json",
		EncoderConfig:     productionEncoderConfig,
		OutputPaths:       []string{filePath},
	}

	fileLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	core := zapcore.NewTee(
		fileLogger.Core(),
		newConsoleCore(level),
	)

	return zap.New(core, zap.AddCaller()), nil
}

func newConsoleCore(level zapcore.Level) zapcore.Core {
	developmentEncoderConfig := zap.NewDevelopmentEncoderConfig()
	developmentEncoderConfig.ConsoleSeparator = "  "
	developmentEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(developmentEncoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)
}
