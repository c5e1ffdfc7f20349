package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"compass/internal/broker"
	"compass/internal/config"
	"compass/internal/constants"
	"compass/internal/engine"
	"compass/internal/logger"
	"compass/internal/profile"
	"compass/internal/rules"
	"compass/pkg/bootstrap"
	"compass/pkg/health"
	"compass/pkg/logging"
	"compass/pkg/metrics"
	"compass/pkg/models"
	"compass/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	redisClient    *redis.Client
	profiles       profile.Store
	service        *rules.Service
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("profile-service")
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initService(ctx); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	if err := a.InitBroker("profile-service"); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	tp, err := tracing.Init(a.Config.Tracing, "profile-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterProfileMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initHTTPServer(ctx); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initHTTPServer(ctx context.Context) error {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	if a.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	}
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler: mux,
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	a.db = db

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = rdb

	return nil
}

func (a *App) initService(ctx context.Context) error {
	ttl := time.Duration(a.Config.Database.Redis.TTLSeconds) * time.Second
	store := profile.NewRedisStore(a.redisClient, ttl)
	a.profiles = profile.NewCircuitBreakerStore(store, a.Config.CircuitBreaker)

	repo := rules.NewRepository(a.db)
	svc := rules.NewService(repo, a.Config.Rules, a.Logger)

	if err := svc.ReloadRulesNow(ctx); err != nil {
		initCtx := logging.WithServiceName(ctx, "profile-service")
		a.Logger.WarnwCtx(initCtx, "Failed to load initial rules",
			"error", err,
		)
	}

	a.service = svc
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	configConsumer, err := broker.NewConsumer(a.Config.Broker, a.Logger)
	if err != nil {
		configCtx := logging.WithServiceName(ctx, "profile-service")
		a.Logger.WarnwCtx(configCtx, "Failed to create config event consumer, event-driven reload disabled",
			"error", err,
		)
	} else {
		configConsumer.SetServiceName("profile-service")
		defer configConsumer.Close()
		configEventHandler := rules.NewHandler(a.service, a.Logger)

		g.Go(func() error {
			configCtx := logging.WithServiceName(gCtx, "profile-service")
			a.Logger.InfowCtx(configCtx, "Starting config update event consumer",
				"topic", a.Config.Broker.Kafka.ConfigUpdateTopic,
			)
			return configConsumer.Consume(gCtx, a.Config.Broker.Kafka.ConfigUpdateTopic, func(cCtx context.Context, msg models.EventEnvelope) error {
				return configEventHandler.HandleConfigUpdateEvent(cCtx, msg)
			})
		})
	}

	g.Go(func() error {
		return a.service.StartReloader(gCtx)
	})

	inputTopic := a.Config.Broker.Kafka.InputTopic
	if inputTopic == "" {
		inputTopic = constants.DefaultEventsTopic
	}
	g.Go(func() error {
		return a.Consumer.Consume(gCtx, inputTopic, a.handleEvent)
	})

	return g.Wait()
}

func (a *App) handleEvent(ctx context.Context, msg models.EventEnvelope) error {
	if err := models.ValidateEventEnvelope(&msg); err != nil {
		a.Logger.WarnwCtx(ctx, "Dropping malformed event",
			"error", err,
		)
		return nil
	}

	if !engine.ValidEventType(engine.EventType(msg.Type)) {
		a.Logger.WarnwCtx(ctx, "Dropping event of unknown type",
			"event_type", msg.Type,
		)
		return nil
	}

	current, err := a.profiles.Get(ctx, msg.CustomerID)
	if err != nil {
		a.Logger.ErrorwCtx(ctx, "Failed to load profile",
			"error", err,
		)
		return err
	}

	updated, trace, err := a.service.Apply(ctx, msg, current)
	if err != nil {
		a.Logger.ErrorwCtx(ctx, "Rule evaluation error",
			"error", err,
		)
		return err
	}

	if err := a.profiles.Put(ctx, updated); err != nil {
		a.Logger.ErrorwCtx(ctx, "Failed to store profile",
			"error", err,
		)
		return err
	}

	ruleIDs := make([]string, 0, len(trace))
	for _, entry := range trace {
		ruleIDs = append(ruleIDs, entry.RuleID)
	}

	outputTopic := a.Config.Broker.Kafka.OutputTopic
	if outputTopic == "" {
		outputTopic = constants.DefaultProfileUpdatesTopic
	}

	update := models.NewEventEnvelopeBuilder().
		WithID(msg.ID).
		WithCustomerID(msg.CustomerID).
		WithType("PROFILE_UPDATED").
		WithSource("profile-service").
		WithTimestamp(time.Now()).
		WithPayload(map[string]interface{}{
			"profile":       updated,
			"trigger_event": msg.Type,
		}).
		WithMetadata(models.Metadata{
			TraceID: msg.Metadata.TraceID,
			Evaluation: &models.EvaluationInfo{
				EvaluatedAt: time.Now(),
				RuleIDs:     ruleIDs,
			},
		}).
		Build()

	if err := a.Producer.Publish(ctx, outputTopic, *update); err != nil {
		a.Logger.ErrorwCtx(ctx, "Failed to publish profile update",
			"error", err,
			"output_topic", outputTopic,
		)
		return err
	}
	metrics.IncKafkaMessagesWritten("profile-service", outputTopic)

	a.Logger.InfowCtx(ctx, "Profile updated",
		"rules_matched", len(trace),
	)

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, "profile-service")
	a.Logger.InfowCtx(shutdownCtx, "Shutting down profile service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.db, nil)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
