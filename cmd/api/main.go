package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/champomix/champomix-api/internal/cart"
	"github.com/champomix/champomix-api/internal/config"
	"github.com/champomix/champomix-api/internal/httpx"
	kafkax "github.com/champomix/champomix-api/internal/kafka"
	"github.com/champomix/champomix-api/internal/logger"
	"github.com/champomix/champomix-api/internal/postgres"
	"github.com/champomix/champomix-api/internal/redisx"
	"github.com/champomix/champomix-api/internal/shop"
	"github.com/champomix/champomix-api/internal/validate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel)
	log := logger.Default().WithField("service", cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("db schema")
	}

	validator, err := validate.New()
	if err != nil {
		log.WithError(err).Fatal("load schemas")
	}

	// Cart store
	var store cart.Store = cart.NewMemoryStore()
	if cfg.CartBackend == "redis" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.WithError(err).Fatal("redis")
		}
		store = cart.NewRedisStore(rdb)
	}

	// Kafka producer
	var publisher kafkax.Publisher = kafkax.Discard{}
	var prod *kafkax.Producer
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		prod = kafkax.NewProducer(brokers, 1024)
		prod.Start(ctx)
		publisher = prod
	} else {
		log.Info("KAFKA_BROKERS not set, entity events are dropped")
	}

	if !cfg.HashPasswords {
		log.Warn("passwords are stored in plaintext; set HASH_PASSWORDS=true to store bcrypt hashes")
	}

	// Repos & handlers
	router := httpx.NewRouter()
	api := &httpx.API{
		Products:  &shop.ProductRepo{DB: db},
		Users:     &shop.UserRepo{DB: db, HashPasswords: cfg.HashPasswords},
		Orders:    &shop.OrderRepo{DB: db},
		Validator: validator,
		Events:    &httpx.Emitter{Publisher: publisher, Service: cfg.ServiceName},
		Cart:      store,
		Images:    cfg.Images(),
	}
	api.Register(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.WithCORS(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
}
