package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	getAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_availability"
	getBookingRulesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_booking_rules"
	healthHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/health"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/telemetry"
	getAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/otelx"
)

const rateLimiterCleanupInterval = time.Minute

func main() {
	// Загружаем конфигурацию
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", cfgPath)

	// Правила расчета доступности (уже проверены в config.Load)
	rules, err := cfg.Business.Rules()
	if err != nil {
		log.Fatal("Invalid business rules: %v", err)
	}
	log.Info("Business hours: %s-%s, days=%v, timezone=%s",
		rules.BusinessHours.StartLabel(), rules.BusinessHours.EndLabel(),
		rules.BusinessHours.DayNames(), rules.Location)

	// Трейсинг
	shutdownTracing, err := otelx.Setup(context.Background(), otelx.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозиторий (с метриками или без)
	var executor bookingRepo.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	}
	bookingRepository := bookingRepo.NewRepository(executor)

	// Телеметрия
	var sink telemetry.Sink = telemetry.NopSink{}
	if cfg.Telemetry.Enabled {
		sink = telemetry.NewKafkaSink(
			cfg.Telemetry.Brokers,
			cfg.Telemetry.Topic,
			time.Duration(cfg.Telemetry.PublishTimeout)*time.Second,
			log,
		)
		log.Info("Telemetry enabled (brokers=%v, topic=%s)", cfg.Telemetry.Brokers, cfg.Telemetry.Topic)
	}

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(bookingRepository, rules, log)

	// Инициализируем handlers
	var recorder getAvailabilityHandler.MetricsRecorder
	if cfg.Metrics.Enabled {
		recorder = metricsCollector
	}
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, sink, recorder, log)
	getBookingRules := getBookingRulesHandler.NewHandler(getAvailabilityUseCase, log)
	health := healthHandler.NewHandler(executor, healthHandler.DefaultPingTimeout, log)

	// Middleware вокруг роутера, чтобы CORS preflight не упирался в 405
	chain := []middleware.Middleware{
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logging(log),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second),
	}

	// Rate limiting только для API, health-check и scrape метрик не ограничиваем
	var apiLimiter middleware.Middleware
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case config.RateLimitBackendRedis:
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.RedisAddr,
				Password: cfg.RateLimit.RedisPassword,
				DB:       cfg.RateLimit.RedisDB,
			})
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				log.Warn("Redis is not reachable at %s: %v (fail_open=%t)", cfg.RateLimit.RedisAddr, err, cfg.RateLimit.FailOpen)
			}
			cancel()

			limiter := middleware.NewRedisRateLimiter(
				rdb,
				cfg.RateLimit.RequestsPerWindow,
				time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
				"availability:rl",
			)
			apiLimiter = limiter.Middleware(log, cfg.RateLimit.FailOpen)
			log.Info("Redis rate limiter enabled (%d requests per %ds)",
				cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowSeconds)

		default:
			limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
			go limiter.RunCleanup(rateLimiterCleanupInterval, stopCh)
			apiLimiter = limiter.Middleware(log)
			log.Info("In-memory rate limiter enabled (%.1f rps, burst %d)",
				cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		}
	}

	rt := routes{
		availabilityPost: getAvailability.HandlePost,
		availabilityGet:  getAvailability.HandleGet,
		bookingRules:     getBookingRules.Handle,
		health:           health.HandleHealth,
		ready:            health.HandleReady,
		apiLimiter:       apiLimiter,
	}
	if cfg.Metrics.Enabled {
		rt.metrics = metricsCollector
		rt.metricsPath = cfg.Metrics.Path
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	var handler http.Handler = middleware.Chain(newRouter(rt), chain...)
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(handler, cfg.Metrics.ServiceName)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи: статистику пула и очистку rate limiter
	close(stopCh)

	if err := sink.Close(); err != nil {
		log.Error("Failed to close telemetry sink: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}
