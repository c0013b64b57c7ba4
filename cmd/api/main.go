package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fadeatelier/fade-backend/api/routes"
	"github.com/fadeatelier/fade-backend/internal/auth"
	"github.com/fadeatelier/fade-backend/internal/cart"
	"github.com/fadeatelier/fade-backend/internal/catalog"
	"github.com/fadeatelier/fade-backend/internal/checkout"
	"github.com/fadeatelier/fade-backend/internal/coupons"
	"github.com/fadeatelier/fade-backend/internal/notifications"
	"github.com/fadeatelier/fade-backend/internal/orders"
	"github.com/fadeatelier/fade-backend/internal/users"
	"github.com/fadeatelier/fade-backend/pkg/auth/session"
	"github.com/fadeatelier/fade-backend/pkg/config"
	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/metrics"
	"github.com/fadeatelier/fade-backend/pkg/migrate"
	"github.com/fadeatelier/fade-backend/pkg/paystack"
	"github.com/fadeatelier/fade-backend/pkg/redis"
	"github.com/fadeatelier/fade-backend/pkg/resend"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	couponsRepo := coupons.NewRepository(dbClient.DB())
	couponsService, err := coupons.NewService(coupons.ServiceParams{Repo: couponsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cartStore,
		Products: catalogRepo,
		Coupons:  couponsService,
		Shipping: cfg.Shipping,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	emailClient, err := resend.NewClient(cfg.Resend.APIKey, cfg.Resend.DefaultFrom)
	if err != nil {
		logg.Error(context.Background(), "failed to create resend client", err)
		os.Exit(1)
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService, err := notifications.NewService(notifications.ServiceParams{Repo: notificationsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Repo:   notificationsRepo,
		Email:  emailClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Notifier: dispatcher,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paystackOpts := []paystack.Option{}
	if cfg.Paystack.BaseURL != "" {
		paystackOpts = append(paystackOpts, paystack.WithBaseURL(cfg.Paystack.BaseURL))
	}
	paystackClient, err := paystack.NewClient(cfg.Paystack.SecretKey, paystackOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:          dbClient,
		Carts:       cartStore,
		Orders:      ordersRepo,
		Products:    catalogRepo,
		Coupons:     couponsRepo,
		Payments:    paystackClient,
		Shipping:    cfg.Shipping,
		CallbackURL: cfg.Paystack.CallbackURL,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Session:       sessionManager,
			HTTPMetrics:   httpMetrics,
			Paystack:      paystackClient,
			Auth:          authService,
			Catalog:       catalogService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Coupons:       couponsService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
