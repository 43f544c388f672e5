package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/champomix/champomix-api/internal/audit"
	"github.com/champomix/champomix-api/internal/config"
	kafkax "github.com/champomix/champomix-api/internal/kafka"
	"github.com/champomix/champomix-api/internal/logger"
	"github.com/champomix/champomix-api/internal/redisx"
	"github.com/champomix/champomix-api/internal/shop"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel)
	name := cfg.ServiceName + "-auditor"
	log := logger.Default().WithField("service", name)

	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.WithError(err).Fatal("redis")
	}

	svc := &audit.Service{Redis: rdb, ServiceName: name, Log: log}

	// Consumer
	cons := kafkax.NewConsumer(brokers, cfg.AuditorGroup, shop.Topics, cfg.AuditorWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.WithField("group", cfg.AuditorGroup).WithField("topics", shop.Topics).
			WithField("workers", cfg.AuditorWorkers).Info("auditor consumer started")
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.WithError(err).Error("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer...")
	cancel()
	<-done
}
