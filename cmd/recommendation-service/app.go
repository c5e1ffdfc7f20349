package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"compass/internal/broker"
	"compass/internal/catalog"
	"compass/internal/config"
	"compass/internal/constants"
	"compass/internal/logger"
	"compass/internal/profile"
	"compass/internal/recommend"
	"compass/pkg/bootstrap"
	"compass/pkg/health"
	"compass/pkg/logging"
	"compass/pkg/metrics"
	"compass/pkg/middleware"
	"compass/pkg/models"
	"compass/pkg/tracing"
)

type App struct {
	config         *config.Config
	logger         logger.Logger
	dbConnector    *bootstrap.DatabaseConnector
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	profiles       profile.Store
	catalogSvc     *catalog.Service
	recommendSvc   *recommend.Service
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("recommendation-service")
	}
	return &App{
		config:      cfg,
		logger:      log,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	tp, err := tracing.Init(a.config.Tracing, "recommendation-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterRecommendationMetrics()
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	mongoClient, err := a.dbConnector.InitMongoDB(ctx)
	if err != nil {
		return err
	}
	if mongoClient == nil {
		return fmt.Errorf("mongodb is required for the product catalog")
	}
	a.mongoClient = mongoClient

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = rdb

	return nil
}

func (a *App) initServices(ctx context.Context) error {
	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	mongoDB := a.mongoClient.Database(dbName)

	catalogRepo := catalog.NewRepository(mongoDB)
	a.catalogSvc = catalog.NewService(catalogRepo, a.config.Catalog, a.logger)

	if err := a.catalogSvc.ReloadNow(ctx); err != nil {
		initCtx := logging.WithServiceName(ctx, "recommendation-service")
		a.logger.WarnwCtx(initCtx, "Failed to load initial product catalog",
			"error", err,
		)
	}

	ttl := time.Duration(a.config.Database.Redis.TTLSeconds) * time.Second
	store := profile.NewRedisStore(a.redisClient, ttl)
	a.profiles = profile.NewCircuitBreakerStore(store, a.config.CircuitBreaker)

	svc, err := recommend.NewService(a.catalogSvc, a.profiles, a.config.Recommendation, a.logger)
	if err != nil {
		return err
	}
	a.recommendSvc = svc

	return nil
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("recommendation-service"))
	}

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	handler := recommend.NewHandler(a.recommendSvc, a.logger)
	handler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
	return nil
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Server.Port),
		Handler: a.router,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(ctx, "HTTP server starting", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	configConsumer, err := broker.NewConsumer(a.config.Broker, a.logger)
	if err != nil {
		configCtx := logging.WithServiceName(ctx, "recommendation-service")
		a.logger.WarnwCtx(configCtx, "Failed to create config event consumer, event-driven reload disabled",
			"error", err,
		)
	} else {
		configConsumer.SetServiceName("recommendation-service")
		defer configConsumer.Close()
		configEventHandler := catalog.NewHandler(a.catalogSvc, a.logger)

		g.Go(func() error {
			configCtx := logging.WithServiceName(gCtx, "recommendation-service")
			a.logger.InfowCtx(configCtx, "Starting config update event consumer",
				"topic", a.config.Broker.Kafka.ConfigUpdateTopic,
			)
			return configConsumer.Consume(gCtx, a.config.Broker.Kafka.ConfigUpdateTopic, func(cCtx context.Context, msg models.EventEnvelope) error {
				return configEventHandler.HandleConfigUpdateEvent(cCtx, msg)
			})
		})
	}

	g.Go(func() error {
		return a.catalogSvc.StartReloader(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.Shutdown(context.Background())
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, "recommendation-service")
	a.logger.InfowCtx(shutdownCtx, "Shutting down recommendation service")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(timeoutCtx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, nil, a.mongoClient)...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	return nil
}
