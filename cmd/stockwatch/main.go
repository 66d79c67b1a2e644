package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-econstore/internal/catalog"
	"github.com/ariefcatur/go-econstore/internal/config"
	kafkax "github.com/ariefcatur/go-econstore/internal/kafka"
	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/ariefcatur/go-econstore/internal/orders"
	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/ariefcatur/go-econstore/internal/redisx"
	"github.com/ariefcatur/go-econstore/internal/stockwatch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName+"-stockwatch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prodCtx, cancelProd := context.WithCancel(context.Background())
	defer cancelProd()
	prod := kafkax.NewProducer(cfg.Brokers(), orders.TopicStockLow, 1024, log)
	prod.Start(prodCtx)

	svc := &stockwatch.Service{
		Products:    &catalog.Repo{DB: db},
		Redis:       rdb,
		Producer:    prod,
		Threshold:   cfg.LowStockThreshold,
		ServiceName: cfg.ServiceName + "-stockwatch",
		Log:         log,
	}
	cons := kafkax.NewConsumer(cfg.Brokers(), cfg.StockwatchGroup, orders.TopicOrderCreated, cfg.StockwatchWorkers, log)

	log.Info("stockwatch consumer started",
		"group", cfg.StockwatchGroup, "topic", orders.TopicOrderCreated, "workers", cfg.StockwatchWorkers)
	if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
		log.Error("consumer exit", "error", err)
	}

	log.Info("shutting down")
	prod.Close()
	cancelProd()
	prod.WaitClosed()
}
