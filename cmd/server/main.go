package main

import (
	"context"
	"log"
	"time"

	"campus-messages/internal/config"
	"campus-messages/internal/logging"
	"campus-messages/internal/server"
	"campus-messages/internal/service"
	"campus-messages/internal/storage"

	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables loaded before parsing")
	driver := pflag.String("storage", "", "storage driver overriding STORAGE_DRIVER (postgres or badger)")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer logger.Sync()

	sugar := logger.Sugar()
	sugar.Info("Application is starting")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.ConnectTimeout+5*time.Second)
	store, err := storage.Open(ctx, sugar, cfg.Storage)
	cancel()
	if err != nil {
		sugar.Fatalf("Cannot create Store instance: %v", err)
	}
	sugar.Infof("Using %s storage", cfg.Storage.Driver)

	serverOpts := []server.Option{
		server.WithEnvConfig(cfg.Server),
		server.RegisterAfterShutdown(store.Close),
	}

	srv, err := server.NewServer(
		sugar,
		service.NewUserService(sugar, store),
		service.NewMessageService(sugar, store),
		serverOpts...,
	)
	if err != nil {
		sugar.Fatalf("Cannot create Server instance: %v", err)
	}

	if err := srv.Start(); err != nil {
		sugar.Fatalf("Cannot start http srv: %v", err)
	}
}
