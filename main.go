package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huyteo/Server-danentang-GK/handlers"
	"github.com/huyteo/Server-danentang-GK/internal/config"
	"github.com/huyteo/Server-danentang-GK/internal/database"
	"github.com/huyteo/Server-danentang-GK/internal/product/handler"
	"github.com/huyteo/Server-danentang-GK/internal/product/repository"
	"github.com/huyteo/Server-danentang-GK/internal/product/service"
	"github.com/huyteo/Server-danentang-GK/internal/storage"
	"github.com/huyteo/Server-danentang-GK/pkg/logger"
	"github.com/huyteo/Server-danentang-GK/pkg/metrics"
	"github.com/huyteo/Server-danentang-GK/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// LOG_LEVEL is read before config so config loading itself can be traced
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: mongo=%v storage=%s redis=%v rate_limit=%v",
		cfg.MongoDB.URI != "", cfg.Storage.Backend, cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var readiness []handlers.Dependency

	repo, mongoClient, err := openProductStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open product store: %v", err)
	}
	if mrepo, ok := repo.(*repository.MongoRepo); ok {
		readiness = append(readiness, handlers.Dependency{Name: "mongodb", Check: mrepo.Ping})
	}

	images, err := storage.New(ctx, storage.Options{
		Backend: cfg.Storage.Backend,
		Dir:     cfg.Storage.UploadDir,
		MinIO: &storage.MinIOConfig{
			Endpoint:  cfg.Storage.MinIO.Endpoint,
			AccessKey: cfg.Storage.MinIO.AccessKey,
			SecretKey: cfg.Storage.MinIO.SecretKey,
			UseSSL:    cfg.Storage.MinIO.UseSSL,
			Bucket:    cfg.Storage.MinIO.Bucket,
		},
	})
	if err != nil {
		logger.Fatalf("failed to initialize image storage: %v", err)
	}
	readiness = append(readiness, handlers.Dependency{Name: "storage", Check: images.Ping})

	var redisClient *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
		readiness = append(readiness, handlers.Dependency{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestID(), middleware.AccessLog())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	handlers.RegisterHealth(r, readiness...)
	handlers.RegisterSwagger(r)
	handler.RegisterProductRoutes(r, service.NewService(repo, images), cfg.Storage.MaxUploadBytes)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("product catalog listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Errorf("mongo disconnect: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Errorf("redis close: %v", err)
		}
	}
	logger.Infof("shutdown complete")
}

// openProductStore returns the MongoDB-backed repository for the configured URI.
// Only an empty URI selects the in-memory store; a configured server that
// cannot be reached is an error.
func openProductStore(ctx context.Context, cfg *config.Config) (repository.Repository, *mongo.Client, error) {
	if cfg.MongoDB.URI == "" {
		logger.Warnf("MONGODB_URI is empty; products are kept in memory and lost on restart")
		return repository.NewMemoryRepo(), nil, nil
	}
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	mrepo, err := repository.NewMongoRepo(ctx, col)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("prepare products collection: %w", err)
	}
	logger.Infof("using MongoDB collection %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	return mrepo, client, nil
}
