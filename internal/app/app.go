package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/email"
	mongoadapter "github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/storage/minio"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/tracer"
	httpserver "github.com/Abdurahmanit/GroupProject/dealership-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	cartStoreRedis = "redis"
	shutdownSlack  = 5 * time.Second
)

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *httpserver.Server
	metrics        *metrics.MetricsManager
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Cart store: %s", cfg.Env, cfg.HTTPServer.Port, cfg.Cart.Store)

	application := &App{cfg: cfg, log: appLogger}

	application.tracerProvider = tracer.InitTracer(cfg.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	application.metrics = metrics.NewMetricsManager(cfg.ServiceName)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	application.mongoClient = mongoClient
	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongoadapter.EnsureIndexes(ctx, db, appLogger); err != nil {
		application.closeClients(ctx)
		return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	if cfg.Cart.Store == cartStoreRedis || cfg.VehicleCache.Enabled {
		appLogger.Info("Initializing Redis client...")
		redisClient, err := redisadapter.NewClient(ctx, cfg.Redis, appLogger)
		switch {
		case err == nil:
			application.redisClient = redisClient
			appLogger.Info("Redis client initialized successfully")
		case cfg.Cart.Store == cartStoreRedis:
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		default:
			appLogger.Warnf("Redis unavailable, vehicle cache disabled: %v", err)
		}
	}

	publisher := natsadapter.NewNoopPublisher()
	if cfg.NATS.Enabled {
		conn, err := natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			appLogger.Warnf("NATS unavailable, domain events will not be published: %v", err)
		} else {
			application.natsConn = conn
			if publisher, err = natsadapter.NewNATSPublisher(conn); err != nil {
				application.closeClients(ctx)
				return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
			}
		}
	}

	var imageStorage service.ImageStorage
	s3Storage, err := minio.NewS3Storage(ctx, cfg.MinIO, appLogger)
	if err != nil {
		appLogger.Warnf("Object storage unavailable, image uploads disabled: %v", err)
	} else {
		imageStorage = s3Storage
	}

	sender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
	if err != nil {
		application.closeClients(ctx)
		return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}
	notifier := emailadapter.NewNotifier(sender, int(cfg.Auth.CodeTTL.Minutes()))

	userRepo := mongoadapter.NewUserRepository(db, appLogger)
	vehicleRepo := mongoadapter.NewVehicleRepository(db, appLogger)
	categoryRepo := mongoadapter.NewCategoryRepository(db, appLogger)
	orderRepo := mongoadapter.NewOrderRepository(db, appLogger)
	bookmarkRepo := mongoadapter.NewBookmarkRepository(db, appLogger)
	analyticsRepo := mongoadapter.NewAnalyticsRepository(db, appLogger)

	var cartRepo repository.CartRepository
	if cfg.Cart.Store == cartStoreRedis {
		cartRepo = redisadapter.NewCartRepository(application.redisClient, cfg.Cart.TTL)
		appLogger.Info("CartRepository initialized (redis)")
	} else {
		cartRepo = mongoadapter.NewCartRepository(db, appLogger)
		appLogger.Info("CartRepository initialized (mongo)")
	}

	var vehicleCache repository.VehicleCache
	if cfg.VehicleCache.Enabled && application.redisClient != nil {
		vehicleCache = redisadapter.NewVehicleCacheRepository(application.redisClient, appLogger)
		appLogger.Infof("Vehicle cache enabled with TTL %s", cfg.VehicleCache.TTL)
	}

	clock := service.SystemClock()
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.JWT, clock)
	codes := service.NewCodeIssuer(clock, cfg.Auth.CodeTTL)
	vehicles := service.NewVehicleReader(vehicleRepo, vehicleCache, cfg.VehicleCache.TTL, appLogger)

	services := httpserver.Services{
		Auth: service.NewAuthService(userRepo, tokens, codes, hasher, notifier, publisher, application.metrics, clock, appLogger,
			service.AuthServiceConfig{ResetTokenTTL: cfg.Auth.ResetTokenTTL, DeliverTimeout: cfg.Auth.DeliverTimeout}),
		Carts:      service.NewCartService(cartRepo, vehicles, appLogger),
		Orders:     service.NewOrderService(orderRepo, cartRepo, vehicleRepo, vehicles, notifier, publisher, application.metrics, appLogger),
		Receipts:   service.NewReceiptService(orderRepo, vehicles, appLogger),
		Vehicles:   service.NewVehicleService(vehicleRepo, categoryRepo, bookmarkRepo, vehicles, imageStorage, clock, appLogger),
		Categories: service.NewCategoryService(categoryRepo, vehicleRepo, clock, appLogger),
		Bookmarks:  service.NewBookmarkService(bookmarkRepo, vehicles, clock, appLogger),
		Profiles:   service.NewProfileService(userRepo, imageStorage, appLogger),
		Admin:      service.NewAdminService(userRepo, analyticsRepo, hasher, clock, appLogger),
	}
	appLogger.Info("Services initialized")

	handler := httpserver.NewHandler(services, httpserver.CookieOptions{
		MaxAge: cfg.Auth.CookieMaxAge,
		Secure: cfg.IsProduction(),
	}, appLogger)
	router := httpserver.NewRouter(handler, httpserver.RouterConfig{
		RequestTimeout: cfg.HTTPServer.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        application.metrics,
	}, appLogger)
	application.server = httpserver.NewServer(appLogger, cfg.HTTPServer, router)
	appLogger.Info("HTTP server instance created")

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	go func() {
		if err := metrics.StartMetricsServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
			a.log.Errorf("Prometheus metrics server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+shutdownSlack)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.closeClients(shutdownCtx)
	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

// closeClients releases every external connection in reverse order of creation.
func (a *App) closeClients(ctx context.Context) {
	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}
}
