package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/api/routes"
	"github.com/zubairqazi/bazaarline-backend/internal/cart"
	"github.com/zubairqazi/bazaarline-backend/internal/customers"
	"github.com/zubairqazi/bazaarline-backend/internal/inventory"
	"github.com/zubairqazi/bazaarline-backend/internal/orders"
	"github.com/zubairqazi/bazaarline-backend/internal/pricing"
	"github.com/zubairqazi/bazaarline-backend/internal/products"
	"github.com/zubairqazi/bazaarline-backend/internal/settings"
	"github.com/zubairqazi/bazaarline-backend/internal/vendors"
	"github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/internal/withdrawals"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	"github.com/zubairqazi/bazaarline-backend/pkg/config"
	"github.com/zubairqazi/bazaarline-backend/pkg/db"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/metrics"
	"github.com/zubairqazi/bazaarline-backend/pkg/migrate"
	"github.com/zubairqazi/bazaarline-backend/pkg/outbox"
	"github.com/zubairqazi/bazaarline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cacheStore, err := cache.New(redisClient, logg, cfg.Cache.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cache", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	settlementMetrics := metrics.NewSettlementMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	customersRepo := customers.NewRepository(dbClient.DB())
	vendorsRepo := vendors.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	walletsRepo := wallets.NewRepository(dbClient.DB())
	withdrawalsRepo := withdrawals.NewRepository(dbClient.DB())

	settingsService, err := settings.NewService(settingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, customersRepo, pricingService, inventoryService, cacheStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	walletsService, err := wallets.NewService(walletsRepo, cacheStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.Deps{
		Repo:      ordersRepo,
		Tx:        dbClient,
		Customers: customersRepo,
		Vendors:   vendorsRepo,
		Products:  productsRepo,
		Inventory: inventoryService,
		Settings:  settingsService,
		Wallets:   walletsService,
		Carts:     cartRepo,
		Outbox:    outboxService,
		Cache:     cacheStore,
		Logger:    logg,
		Metrics:   settlementMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	minWithdraw, err := decimal.NewFromString(cfg.Settlement.MinWithdrawAmount)
	if err != nil {
		logg.Error(context.Background(), "invalid minimum withdraw amount", err)
		os.Exit(1)
	}
	withdrawService, err := withdrawals.NewService(withdrawalsRepo, walletsRepo, dbClient, outboxService, cacheStore, logg, settlementMetrics, minWithdraw)
	if err != nil {
		logg.Error(context.Background(), "failed to create withdraw service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, registry, cartService, ordersService, walletsService, withdrawService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
