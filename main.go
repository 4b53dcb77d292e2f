package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/zzafergok/mobiversite-ecommerce/config"
	"github.com/zzafergok/mobiversite-ecommerce/controllers"
	"github.com/zzafergok/mobiversite-ecommerce/database"
	"github.com/zzafergok/mobiversite-ecommerce/events"
	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/logger"
	"github.com/zzafergok/mobiversite-ecommerce/middleware"
	aws_pkg "github.com/zzafergok/mobiversite-ecommerce/pkg/aws"
	"github.com/zzafergok/mobiversite-ecommerce/routes"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

func main() {
	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer log.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load(ctx, log)
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Redis (client store and catalog cache) ---
	var redisClient *redis.Client
	if cfg.KVBackend == config.KVBackendRedis {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
	}

	// --- Gateway ---
	gw, db, err := newGateway(ctx, cfg, log)
	if err != nil {
		log.Fatal("Gateway setup failed", zap.Error(err), zap.String("backend", string(cfg.GatewayBackend)))
	}
	if redisClient != nil && cfg.CatalogCacheTTL > 0 {
		cached := gateway.NewCachedGateway(gw, redisClient, cfg.CatalogCacheTTL, log)
		if db != nil {
			// products may have been seeded
			if err := cached.Invalidate(ctx); err != nil {
				log.Warn("Catalog cache invalidation failed", zap.Error(err))
			}
		}
		gw = cached
	}

	// --- Client store ---
	var backend kvstore.Backend
	if redisClient != nil {
		backend = kvstore.NewRedisBackend(redisClient, cfg.ClientTTL*2)
	} else {
		backend = kvstore.NewMemoryBackend()
	}

	// --- Events ---
	publisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		log.Fatal("Event publisher setup failed", zap.Error(err))
	}

	// --- Dependency injection ---
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	registry := services.NewRegistry(services.RegistryConfig{
		Backend:     backend,
		Gateway:     gw,
		Auth:        services.NewAuthService(gw, tokens, log),
		Logger:      log,
		TTL:         cfg.ClientTTL,
		Environment: string(cfg.GatewayBackend),
	})
	go registry.Run(ctx)

	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/300), 100, 5*time.Minute)
	go limiter.Run(ctx)

	cookies := middleware.CookieOptions{Secure: cfg.CookieSecure}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(middleware.Timeout(30 * time.Second))

	r.GET("/health", controllers.Health(cfg.GatewayBackend, registry.Len))
	routes.RegisterRoutes(r, routes.Handlers{
		Products: controllers.NewProductController(gw, log),
		Auth:     controllers.NewAuthController(cookies, tokens.TTL()),
		Cart:     controllers.NewCartController(gw, log),
		Wishlist: controllers.NewWishlistController(gw, log),
		Lists:    controllers.NewListsController(gw, log),
		Orders:   controllers.NewOrderController(services.NewOrderService(gw, publisher, log)),
	}, middleware.ClientSession(registry, cookies))

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Storefront service started",
			zap.String("port", cfg.Port),
			zap.String("gateway", string(cfg.GatewayBackend)),
			zap.String("kv_backend", cfg.KVBackend),
			zap.String("events", string(cfg.EventsBackend)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	stop()
	registry.Close()

	if err := publisher.Close(); err != nil {
		log.Error("Event publisher close error", zap.Error(err))
	}
	if err := database.ClosePostgres(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Storefront service stopped gracefully")
}

// newGateway builds the configured backend. db is non-nil only for neon-db.
func newGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (gateway.Gateway, *gorm.DB, error) {
	switch cfg.GatewayBackend {
	case gateway.BackendNeonDB:
		db, err := database.ConnectPostgres(ctx, cfg.PostgresDSN(), log)
		if err != nil {
			return nil, nil, err
		}
		pg := gateway.NewPostgresGateway(db)
		if err := pg.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		if err := pg.SeedProducts(ctx, gateway.SeedProducts); err != nil {
			return nil, nil, err
		}
		return pg, db, nil
	case gateway.BackendStatic:
		return gateway.NewSeededStaticGateway(), nil, nil
	default:
		return gateway.NewJSONServerGateway(cfg.JSONServerURL, cfg.JSONServerTimeout), nil, nil
	}
}

func newPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case events.BackendSNS:
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, log)
		if err != nil {
			return nil, err
		}
		return events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg, log), cfg.OrderSNSTopicARN), nil
	case events.BackendKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return events.NewLogPublisher(log), nil
	}
}
