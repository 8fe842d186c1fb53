package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/conversas"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}

	if err != nil {
		logging.Logger.Fatal("invalid configuration", zap.String("error", err.Error()))
	}

	err = logging.Setup(cfg.LogLevel, cfg.LogFilePath)
	if err != nil {
		logging.Logger.Fatal("failed to set up logging", zap.String("error", err.Error()))
	}

	defer func() { _ = logging.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, err := conversas.NewApp(ctx)
	if err != nil {
		stop()
		logging.Logger.Fatal("failed to create conversas app", zap.String("error", err.Error()))
	}

	err = app.Run(ctx)

	_ = app.Close()

	stop()

	if err != nil {
		logging.Logger.Fatal("failed to generate synthetic records", zap.String("error", err.Error()))
	}
}
