package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/poultrygear/poultrygear-backend/api/routes"
	"github.com/poultrygear/poultrygear-backend/internal/addresses"
	"github.com/poultrygear/poultrygear-backend/internal/cart"
	"github.com/poultrygear/poultrygear-backend/internal/catalog"
	checkoutsvc "github.com/poultrygear/poultrygear-backend/internal/checkout"
	"github.com/poultrygear/poultrygear-backend/internal/contact"
	"github.com/poultrygear/poultrygear-backend/internal/inventory"
	"github.com/poultrygear/poultrygear-backend/internal/notifications"
	"github.com/poultrygear/poultrygear-backend/internal/orders"
	"github.com/poultrygear/poultrygear-backend/internal/paymentmethods"
	"github.com/poultrygear/poultrygear-backend/internal/users"
	"github.com/poultrygear/poultrygear-backend/internal/waitlist"
	"github.com/poultrygear/poultrygear-backend/pkg/auth/session"
	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/metrics"
	"github.com/poultrygear/poultrygear-backend/pkg/migrate"
	"github.com/poultrygear/poultrygear-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	categoriesRepo := catalog.NewCategoryRepository(gdb)
	productsRepo := catalog.NewProductRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	addressesRepo := addresses.NewRepository(gdb)
	paymentMethodsRepo := paymentmethods.NewRepository(gdb)
	checkoutRepo := checkoutsvc.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	inventoryRepo := inventory.NewRepository(gdb)
	notificationsRepo := notifications.NewRepository(gdb)
	contactRepo := contact.NewRepository(gdb)
	waitlistRepo := waitlist.NewRepository(gdb)

	usersSvc, err := users.NewService(users.ServiceParams{
		Repo:        usersRepo,
		Sessions:    sessionManager,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
		NewAccessID: session.NewAccessID,
		GuestEmail:  cfg.Checkout.GuestEmail,
		Now:         time.Now,
		Logger:      logg,
	})
	exitOnError(logg, "users service", err)

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Categories:      categoriesRepo,
		Products:        productsRepo,
		DefaultCurrency: cfg.Store.DefaultCurrency,
		Logger:          logg,
	})
	exitOnError(logg, "catalog service", err)

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Repo:            cartRepo,
		Products:        productsRepo,
		DefaultCurrency: cfg.Store.DefaultCurrency,
		Logger:          logg,
	})
	exitOnError(logg, "cart service", err)

	addressesSvc, err := addresses.NewService(addressesRepo, logg)
	exitOnError(logg, "addresses service", err)

	paymentMethodsSvc, err := paymentmethods.NewService(paymentMethodsRepo, logg)
	exitOnError(logg, "payment methods service", err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Orders:   checkoutRepo,
		Products: productsRepo,
		Users:    usersRepo,
		Checkout: cfg.Checkout,
		Currency: cfg.Store.DefaultCurrency,
		Now:      time.Now,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:   logg,
	})
	exitOnError(logg, "checkout service", err)

	ordersSvc, err := orders.NewService(ordersRepo, logg)
	exitOnError(logg, "orders service", err)

	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Repo:     inventoryRepo,
		Products: productsRepo,
		Logger:   logg,
	})
	exitOnError(logg, "inventory service", err)

	notificationsSvc, err := notifications.NewService(notifications.ServiceParams{
		Repo:     notificationsRepo,
		Products: productsRepo,
		Logger:   logg,
	})
	exitOnError(logg, "stock notifications service", err)

	contactSvc, err := contact.NewService(contact.ServiceParams{
		Repo:   contactRepo,
		Logger: logg,
	})
	exitOnError(logg, "contact service", err)

	waitlistSvc, err := waitlist.NewService(waitlist.ServiceParams{
		Repo:   waitlistRepo,
		Logger: logg,
	})
	exitOnError(logg, "waitlist service", err)

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, routes.Services{
		Users:          usersSvc,
		Catalog:        catalogSvc,
		Cart:           cartSvc,
		Addresses:      addressesSvc,
		PaymentMethods: paymentMethodsSvc,
		Checkout:       checkoutService,
		Orders:         ordersSvc,
		Inventory:      inventorySvc,
		Notifications:  notificationsSvc,
		Contact:        contactSvc,
		Waitlist:       waitlistSvc,
	})

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
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
