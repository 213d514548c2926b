package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"huddle/internal/notifier"
	"huddle/pkg/config"
	kafka_config "huddle/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	worker, err := notifier.NewWorker(cfg, kafkaCfg, notifier.NewLogSender(cfg.Log))
	if err != nil {
		cfg.Log.Fatal("Failed to create notifier worker", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notifier worker stopped with error", "error", err)
	}

	if err := worker.Close(); err != nil {
		cfg.Log.Error("Failed to close notifier worker", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
