package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-econstore/internal/auth"
	"github.com/ariefcatur/go-econstore/internal/catalog"
	"github.com/ariefcatur/go-econstore/internal/config"
	"github.com/ariefcatur/go-econstore/internal/httpx"
	kafkax "github.com/ariefcatur/go-econstore/internal/kafka"
	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/ariefcatur/go-econstore/internal/orders"
	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/ariefcatur/go-econstore/internal/redisx"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("db migrate", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	statusCache := &redisx.StatusCache{RDB: rdb}

	// Kafka producer; runs on its own context so it can drain after ctx is done
	prodCtx, cancelProd := context.WithCancel(context.Background())
	defer cancelProd()
	prod := kafkax.NewProducer(cfg.Brokers(), orders.TopicOrderCreated, 1024, log)
	prod.Start(prodCtx)

	products := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	coord := &orders.Coordinator{
		DB:       postgres.NewProvider(db),
		Products: products,
		Orders:   orderRepo,
		Notifier: &orders.Announcer{Producer: prod, Cache: statusCache, Service: cfg.ServiceName},
	}
	tokens := auth.NewTokens(cfg.JWTSecret)
	authSvc := auth.NewService(&auth.Repo{DB: db}, tokens)

	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Tokens:   tokens,
		Auth:     &httpx.AuthHandler{Svc: authSvc},
		Products: httpx.NewProductsHandler(products),
		Orders: httpx.NewOrdersHandler(
			coord,
			&orders.QueryService{Orders: orderRepo},
			&orders.StatusService{Store: orderRepo, Cache: statusCache},
		),
		StaticDir: cfg.StaticDir,
		Timeout:   cfg.RequestTimeout,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		prod.Close() // flush the inbox, then close the writer
		cancelProd()
		prod.WaitClosed()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("api stopped", "error", err)
		os.Exit(1)
	}
}
