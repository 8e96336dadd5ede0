package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agsexpress/backoffice/api"
	"github.com/agsexpress/backoffice/config"
	"github.com/agsexpress/backoffice/internal/bootstrap"
	"github.com/agsexpress/backoffice/internal/cache"
	"github.com/agsexpress/backoffice/internal/kafka"
	"github.com/agsexpress/backoffice/internal/logger"
	"github.com/agsexpress/backoffice/internal/repository"
	"github.com/agsexpress/backoffice/internal/service/booking"
	"github.com/agsexpress/backoffice/internal/service/invoice"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	masterTTL := time.Duration(cfg.Invoicing.MasterCacheSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, masterTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool, time.Duration(cfg.Invoicing.TxTimeoutSeconds)*time.Second)
	customerRepo := repository.NewCustomerRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)

	invoiceService := invoice.NewInvoiceService(
		invoiceRepo,
		bookingRepo,
		customerRepo,
		companyRepo,
		cfg.Invoicing.Companies,
		cfg.Invoicing.RetryAttempts,
		zlog,
		invoice.WithCache(redisCache),
		invoice.WithProducer(producer, cfg.Kafka.InvoiceEventsTopic),
		invoice.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	bookingService := booking.NewBookingService(bookingRepo)

	invoiceHandler := api.NewInvoiceHandler(invoiceService)
	bookingHandler := api.NewBookingHandler(bookingService)

	if err := bootstrap.Run(ctx, cfg, invoiceHandler, bookingHandler); err != nil {
		zlog.Fatalf("server error: %v", err)
	}
}
