package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/utafrali/sellerhub/internal/auth"
	"github.com/utafrali/sellerhub/internal/config"
	"github.com/utafrali/sellerhub/internal/event"
	handler "github.com/utafrali/sellerhub/internal/handler/http"
	"github.com/utafrali/sellerhub/internal/repository/postgres"
	redisrepo "github.com/utafrali/sellerhub/internal/repository/redis"
	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/migrations"
	"github.com/utafrali/sellerhub/pkg/breaker"
	"github.com/utafrali/sellerhub/pkg/database"
	"github.com/utafrali/sellerhub/pkg/health"
	pkgkafka "github.com/utafrali/sellerhub/pkg/kafka"
	"github.com/utafrali/sellerhub/pkg/middleware"
	"github.com/utafrali/sellerhub/pkg/tracing"
)

const serviceName = "sellerhub"

// App wires together all dependencies and runs the sellerhub service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	topSellers     *service.TopSellersService
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracingCfg := tracing.DefaultConfig(serviceName)
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	tracingCfg.SampleRate = cfg.OTELSampleRate
	tracingCfg.Enabled = cfg.OTELEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Initialize Redis for the top-sellers snapshot.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB
	rdb := connectRedis(ctx, redisCfg, logger)

	// Initialize Kafka producer with connection validation and retry.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
		logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	eventProducer := event.NewProducer(producer, logger)
	cacheBreaker := breaker.New[[]byte](breaker.DefaultConfig("top-sellers-cache"), logger)
	topSellersCache := redisrepo.NewTopSellersCache(rdb, cfg.TopSellersTTL, cacheBreaker)

	identityService := service.NewIdentityService(postgres.NewAuthorRepository(pool), logger)
	sellerRepo := postgres.NewSellerRepository(pool)
	sellerService := service.NewSellerService(sellerRepo, eventProducer, logger)
	commentService := service.NewCommentService(postgres.NewCommentRepository(pool), sellerService, identityService, eventProducer, logger)
	ratingService := service.NewRatingService(postgres.NewRatingRepository(pool), sellerService, identityService, eventProducer, logger)
	topSellersService := service.NewTopSellersService(sellerRepo, topSellersCache, cfg.TopSellersSize, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.Services{
		Comments:   commentService,
		Sellers:    sellerService,
		Ratings:    ratingService,
		TopSellers: topSellersService,
	}, handler.RouterConfig{
		ServiceName: serviceName,
		Identity: handler.IdentityConfig{
			CookieName:          cfg.IdentityCookieName,
			MaxAge:              cfg.IdentityCookieMaxAge,
			Secure:              cfg.IdentityCookieSecure,
			FingerprintFallback: cfg.IdentityFingerprintFallback,
		},
		CORS:              corsCfg,
		TokenValidator:    auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).TokenValidator(),
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		WriteRateLimit: middleware.RateLimitConfig{
			RPS:               cfg.WriteRateLimitRPS,
			Burst:             cfg.WriteRateLimitBurst,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
		},
	}, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          rdb,
		producer:       producer,
		httpServer:     httpServer,
		topSellers:     topSellersService,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and the top-sellers refresher, then blocks
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go runRefresher(ctx, a.topSellers, a.cfg.TopSellersInitialDelay, a.cfg.TopSellersInterval, a.logger)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// connectRedis returns a client even when the server is unreachable. Redis
// only backs the top-sellers snapshot, which falls back to the database on
// cache errors, and the readiness check reports it as non-critical.
func connectRedis(ctx context.Context, cfg database.RedisConfig, logger *slog.Logger) *goredis.Client {
	rdb := database.NewRedisClient(cfg)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed, top sellers will be served from the database until it recovers",
			slog.String("addr", cfg.Addr()),
			slog.String("error", err.Error()),
		)
		return rdb
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.Addr()))
	return rdb
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s with ±25% jitter between them).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		lastErr = producer.Ping(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", 3),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
