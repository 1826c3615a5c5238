package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"complaint-portal/reference-service/internal/config"
	handlers "complaint-portal/reference-service/internal/handler"
	"complaint-portal/reference-service/internal/middleware"
	"complaint-portal/reference-service/internal/repository"
	services "complaint-portal/reference-service/internal/service"
	"complaint-portal/reference-service/internal/seed"
	"complaint-portal/shared/pkg/cache"
	"complaint-portal/shared/pkg/logger"
	"complaint-portal/shared/pkg/metrics"
	"complaint-portal/shared/pkg/mongodb"
	"complaint-portal/shared/pkg/shutdown"
	"complaint-portal/shared/pkg/token"
)

const serviceName = "reference-service"

func main() {
	log := logger.New(serviceName)

	ctx, shutdownManager := shutdown.NewManager(context.Background(), log)
	shutdownManager.StartListening()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.WithError(err).Fatal("error parsing configs")
	}

	// Connect to MongoDB
	client, err := mongodb.NewConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("error connecting to MongoDB")
	}
	db := client.Database(cfg.MongoDB.DBName)
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing MongoDB connection")
		return client.Disconnect(ctx)
	})

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("error connecting to Redis")
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("closing Redis connection")
		return rdb.Close()
	})

	// Initialize components
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	if err := categoryRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create category indexes")
	}
	if err := locationRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create location indexes")
	}
	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, categoryRepo, locationRepo, log); err != nil {
			log.WithError(err).Fatal("failed to seed reference data")
		}
	}

	auth := middleware.NewAuth(token.NewManager(cfg.JWTSecret, 0), token.NewBlacklist(rdb), log)
	categoryHandler := handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo), log)
	locationHandler := handlers.NewLocationHandler(services.NewLocationService(locationRepo), log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(serviceName, registry)

	// Setup router
	router := mux.NewRouter()
	router.Use(logger.HTTPMiddleware(log), httpMetrics.MuxMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler(registry)).Methods(http.MethodGet)

	categoryHandler.RegisterRoutes(router, auth)
	locationHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("reference service listening")
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
