package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	httptransport "github.com/deliverlabs/food-ordering-service/internal/api/http"
	"github.com/deliverlabs/food-ordering-service/internal/api/http/handlers"
	"github.com/deliverlabs/food-ordering-service/internal/auth"
	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/messaging"
	"github.com/deliverlabs/food-ordering-service/internal/observability"
	"github.com/deliverlabs/food-ordering-service/internal/persistence"
	"github.com/deliverlabs/food-ordering-service/internal/realtime"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	"github.com/deliverlabs/food-ordering-service/internal/repository/memory"
	"github.com/deliverlabs/food-ordering-service/internal/service"
	"github.com/deliverlabs/food-ordering-service/internal/worker"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

type repositories struct {
	orders     repository.OrderRepository
	menu       repository.MenuRepository
	identities repository.IdentityRepository
	persons    repository.DeliveryPersonRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, redis, cfg.Redis, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	hub := realtime.NewHub(logger, metrics)
	relay := realtime.NewRelay(dispatcher, hub, logger)

	publisher, err := messaging.Dial(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("failed to connect rabbitmq", zap.Error(err))
	}
	defer publisher.Close()

	worker.StartEventWorkers(dispatcher, relay, publisher, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		IdentityRepo: repos.identities,
		TokenManager: tokenManager,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  repos.orders,
		MenuRepo:   repos.menu,
		Pricing:    service.NewPricing(cfg.Pricing),
		Dispatcher: dispatcher,
	})
	menuService := service.NewMenuService(repos.menu, nil)
	deliveryService := service.NewDeliveryService(repos.persons, nil)
	analyticsService := service.NewAnalyticsService(repos.orders, nil)

	if err := seedAdmin(ctx, authService, cfg.Auth, logger); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Menu:           handlers.NewMenuHandler(menuService),
		Delivery:       handlers.NewDeliveryHandler(deliveryService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Realtime:       handlers.NewRealtimeHandler(hub, orderService, cfg.Realtime.WriteTimeout(), cfg.Realtime.Outbox(), logger),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, redis *persistence.Redis, redisCfg config.RedisConfig, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		return repositories{
			orders:     memory.NewOrderRepository(),
			menu:       memory.NewMenuRepository(),
			identities: memory.NewIdentityRepository(),
			persons:    memory.NewDeliveryPersonRepository(),
		}
	}
	return repositories{
		orders:     repository.NewOrderRepository(pg.Pool),
		menu:       repository.NewCachedMenuRepository(repository.NewMenuRepository(pg.Pool), redis.Client, redisCfg.MenuCacheTTL(), logger),
		identities: repository.NewIdentityRepository(pg.Pool),
		persons:    repository.NewDeliveryPersonRepository(pg.Pool),
	}
}

// seedAdmin creates the bootstrap administrator when credentials are configured and
// the account does not exist yet.
func seedAdmin(ctx context.Context, authService *service.AuthService, cfg config.AuthConfig, logger *zap.Logger) error {
	username, password := cfg.AdminUsername, cfg.AdminPassword
	if username == "" || password == "" {
		return nil
	}
	_, err := authService.CreateIdentity(ctx, service.CreateIdentityInput{
		Username: username,
		FullName: "Administrator",
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			return nil
		}
		return err
	}
	logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
