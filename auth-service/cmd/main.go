package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"complaint-portal/auth-service/internal/config"
	"complaint-portal/auth-service/internal/handler"
	"complaint-portal/auth-service/internal/repository"
	"complaint-portal/auth-service/internal/services"
	"complaint-portal/auth-service/internal/utils"
	"complaint-portal/shared/pkg/cache"
	"complaint-portal/shared/pkg/logger"
	"complaint-portal/shared/pkg/metrics"
	"complaint-portal/shared/pkg/mongodb"
	"complaint-portal/shared/pkg/shutdown"
	"complaint-portal/shared/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "auth-service"

func main() {
	log := logger.New(serviceName)

	ctx, shutdownManager := shutdown.NewManager(context.Background(), log)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	mongoClient, err := mongodb.NewConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	db := mongoClient.Database(cfg.MongoDB.DBName)
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing MongoDB connection")
		return mongoClient.Disconnect(ctx)
	})

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing Redis connection")
		return rdb.Close()
	})

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create user indexes")
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokens, token.NewBlacklist(rdb)).
		WithProfileCache(rdb, cfg.ProfileCacheTTL).
		WithLogger(log)
	userService := services.NewUserService(userRepo).
		WithProfileCache(rdb).
		WithLogger(log)

	created, err := authService.EnsureAdmin(ctx, cfg.Admin)
	if err != nil {
		log.WithError(err).Fatal("failed to bootstrap admin account")
	}
	if created {
		log.WithField("email", cfg.Admin.Email).Info("bootstrap admin account created")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(serviceName, registry)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), httpMetrics.GinMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	protect := utils.AuthMiddleware(authService)
	handler.NewAuthHandler(authService, log).RegisterRoutes(router.Group("/auth"), protect)
	handler.NewUserHandler(userService, log).RegisterRoutes(router.Group("/users", protect))

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ServerPort).Info("auth service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	shutdownManager.Wait()
}
