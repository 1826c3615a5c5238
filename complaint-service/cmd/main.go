package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"complaint-portal/complaint-service/internal/config"
	"complaint-portal/complaint-service/internal/handler"
	"complaint-portal/complaint-service/internal/metrics"
	"complaint-portal/complaint-service/internal/repository"
	"complaint-portal/complaint-service/internal/services"
	"complaint-portal/complaint-service/internal/utils"
	"complaint-portal/shared/pkg/cache"
	"complaint-portal/shared/pkg/logger"
	sharedmetrics "complaint-portal/shared/pkg/metrics"
	"complaint-portal/shared/pkg/mongodb"
	"complaint-portal/shared/pkg/shutdown"
	"complaint-portal/shared/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "complaint-service"

func main() {
	log := logger.New(serviceName)

	ctx, shutdownManager := shutdown.NewManager(context.Background(), log)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	// MongoDB
	mongoClient, err := mongodb.NewConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	db := mongoClient.Database(cfg.MongoDB.DBName)
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing MongoDB connection")
		return mongoClient.Disconnect(ctx)
	})

	// Redis
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing Redis connection")
		return rdb.Close()
	})

	// MinIO
	images, err := utils.NewMinioImageStore(ctx, cfg.Minio)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise MinIO")
	}

	complaintRepo := repository.NewComplaintRepository(db)
	if err := complaintRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create complaint indexes")
	}
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	var seq services.Sequence
	switch cfg.SequenceBackend {
	case "count":
		seq = services.NewCountSequence(complaintRepo, cfg.Location())
	default:
		seq = services.NewRedisSequence(rdb, complaintRepo, cfg.Location())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := sharedmetrics.NewHTTP(serviceName, registry)

	complaintService := services.NewComplaintService(complaintRepo, userRepo, categoryRepo, images, seq, cfg).
		WithStatsCache(rdb).
		WithMetrics(metrics.New(registry)).
		WithLogger(log)

	dashboardService := services.NewDashboardService(complaintRepo, userRepo, categoryRepo, complaintService, cfg.Location()).
		WithLogger(log)

	complaintHandler := handler.NewComplaintHandler(complaintService, log).WithUploadLimit(cfg.MaxImageBytes)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	imageHandler := handler.NewImageHandler(images, log)

	tokens := token.NewManager(cfg.JWTSecret, 0)
	blacklist := token.NewBlacklist(rdb)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxImageBytes
	router.Use(gin.Recovery(), logger.GinMiddleware(log), httpMetrics.GinMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(sharedmetrics.Handler(registry)))
	router.GET("/uploads/:name", imageHandler.ServeImage)

	authenticate := utils.AuthMiddleware(tokens, blacklist, userRepo)

	complaints := router.Group("/complaints")
	complaints.Use(authenticate)
	complaintHandler.RegisterRoutes(complaints)

	dashboard := router.Group("/dashboard")
	dashboard.Use(authenticate)
	dashboardHandler.RegisterRoutes(dashboard)

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ServerPort).Info("complaint service listening")
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
