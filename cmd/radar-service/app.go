package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"milhas/internal/classifier"
	"milhas/internal/config"
	"milhas/internal/constants"
	"milhas/internal/dedup"
	"milhas/internal/extractor"
	"milhas/internal/logger"
	"milhas/internal/market"
	"milhas/internal/notify"
	"milhas/internal/opportunity"
	"milhas/pkg/bootstrap"
	"milhas/pkg/circuitbreaker"
	"milhas/pkg/health"
	"milhas/pkg/metrics"
	"milhas/pkg/middleware"
	"milhas/pkg/migrations"
	"milhas/pkg/models"
	"milhas/pkg/ratelimit"
	"milhas/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	redis          *redis.Client
	mongoClient    *mongo.Client
	dedupSvc       *dedup.Service
	markets        *market.Provider
	repo           *opportunity.MongoRepository
	service        opportunity.Service
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("radar-service")
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.redis = rdb

	mongoClient, err := a.dbConnector.InitMongoDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	a.mongoClient = mongoClient

	dbName := a.Config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	mongoDB := a.mongoClient.Database(dbName)

	if err := migrations.EnsureMongoCollections(ctx, mongoDB); err != nil {
		return fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}

	if err := a.InitBroker("radar-service"); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	tp, err := tracing.Init(a.Config.Tracing, "radar-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	if err := a.initService(mongoDB); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	metrics.RegisterPipelineMetrics()
	metrics.RegisterDedupMetrics()
	metrics.RegisterBrokerMetrics()
	metrics.RegisterAPIMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	return a.initHTTPServer()
}

func (a *App) initService(mongoDB *mongo.Database) error {
	a.repo = opportunity.NewMongoRepository(mongoDB)
	a.markets = market.NewProvider(market.SnapshotFromConfig(a.Config.Market), a.Logger)

	if a.Config.Deduplication.Enabled {
		a.dedupSvc = dedup.NewService(dedup.NewRepository(a.redis), a.Config.Deduplication, a.Logger)
	}

	dispatcher, err := notify.NewDispatcher(a.Config.Notifications, a.Producer, a.Logger)
	if err != nil {
		return err
	}

	var breaker *circuitbreaker.Wrapper
	if a.Config.CircuitBreaker.Enabled {
		breaker = circuitbreaker.NewWrapper(a.breakerConfig())
	}

	a.service = opportunity.NewService(
		a.repo,
		a.dedupSvc,
		extractor.New(),
		classifier.NewOpenAIClient(a.Config.OpenAI),
		a.markets,
		dispatcher,
		breaker,
		a.Config.OpenAI,
		a.Logger,
	)
	return nil
}

func (a *App) breakerConfig() circuitbreaker.Config {
	cbCfg := circuitbreaker.DefaultConfig("openai")
	if a.Config.CircuitBreaker.MaxRequests > 0 {
		cbCfg.MaxRequests = a.Config.CircuitBreaker.MaxRequests
	}
	if a.Config.CircuitBreaker.Interval > 0 {
		cbCfg.Interval = a.Config.CircuitBreaker.Interval
	}
	if a.Config.CircuitBreaker.Timeout > 0 {
		cbCfg.Timeout = a.Config.CircuitBreaker.Timeout
	}
	return cbCfg
}

func (a *App) initHTTPServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("radar-service"))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.Config.API.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.Config.API.RateLimit.RPS,
			Burst:           a.Config.API.RateLimit.Burst,
			CleanupInterval: time.Duration(a.Config.API.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.Config.API.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
	}

	handler := opportunity.NewHandler(a.service, a.Logger)
	handler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewRedisChecker(a.redis))
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler: router,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	inputTopic := a.Config.Broker.Kafka.InputTopic
	if inputTopic == "" {
		inputTopic = constants.DefaultInputTopic
	}

	g.Go(func() error {
		a.Logger.InfowCtx(gCtx, "Starting message consumer", "topic", inputTopic)
		return a.Consumer.Consume(gCtx, inputTopic, a.handleMessage)
	})

	refreshInterval := time.Duration(a.Config.Market.RefreshIntervalSeconds) * time.Second
	if refreshInterval > 0 {
		g.Go(func() error {
			a.markets.Run(gCtx, a.repo, refreshInterval, a.Config.Market.WindowDays)
			return nil
		})
	}

	if a.dedupSvc != nil {
		g.Go(func() error {
			a.dedupSvc.RunCacheMetrics(gCtx, time.Minute)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *App) handleMessage(ctx context.Context, msg models.RawMessage) error {
	_, err := a.service.HandleMessage(ctx, msg)
	return err
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	errs = append(errs, a.ShutdownBroker()...)

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	errs = append(errs, a.dbConnector.ShutdownDatabases(shutdownCtx, a.redis, a.mongoClient)...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.Logger.Info("Radar service exited successfully")
	return nil
}
