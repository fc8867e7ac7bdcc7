package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stock-ledger/internal/cache"
	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/internal/relay"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/stock-ledger/internal/telemetry"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
		Redis    config.Redis
		Stock    config.Stock
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	redisClient, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error creating redis client: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.InfoContext(ctx, "report cache disabled, REDIS_ADDR is empty")
	}
	reportCache := cache.NewReportCache(redisClient, cfg.Redis.ReportCacheTTL)

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	productRepository := repository.NewProductRepository(dbClient)
	saleRepository := repository.NewSaleRepository(dbClient)
	purchaseRepository := repository.NewPurchaseRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	services := http.Services{
		Product: service.NewProductService(dbClient, logger, productRepository, saleRepository,
			purchaseRepository, outboxMsgRepository, reportCache),
		Stock: service.NewStockService(dbClient, logger, productRepository, saleRepository,
			purchaseRepository, outboxMsgRepository, reportCache),
		Report:      service.NewReportService(productRepository, saleRepository, purchaseRepository, reportCache),
		LedgerQuery: service.NewLedgerQueryService(saleRepository, purchaseRepository),
	}

	var kafkaProducer *mq.KafkaProducer
	if cfg.Relay.Enabled {
		kafkaProducer, err = mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()
	}

	httpSvc, err := http.New(cfg.HTTP, logger, dbClient, services)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(cfg.Stock, logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		cleanup, err := httpSvc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	if cfg.Relay.Enabled {
		wg.Go(func() {
			svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	}

	wg.Wait()

	return nil
}
