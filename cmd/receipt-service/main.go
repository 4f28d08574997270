package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"txreceipt/internal/app"
	"txreceipt/internal/config"
	"txreceipt/internal/db"
	"txreceipt/libs/logging"
)

func main() {
	cli := kingpin.New("receipt-service", "Records payment transactions and renders PDF receipts.")
	configPath := cli.Flag("config", "Path to the YAML config file").Short('c').Envar("CONFIG_FILE").String()
	serveCmd := cli.Command("serve", "Run the HTTP API").Default()
	migrateCmd := cli.Command("migrate", "Create the transactions table")

	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(logging.Options{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Service:  "receipt-service",
	})
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	switch command {
	case migrateCmd.FullCommand():
		sqlDB, err := app.Open(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect database", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := db.Migrate(ctx, sqlDB); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migration complete")

	case serveCmd.FullCommand():
		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize application", zap.Error(err))
		}
		defer application.Close()

		if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal("application stopped with error", zap.Error(err))
		}
	}
}
