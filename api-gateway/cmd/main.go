package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"complaint-portal/api-gateway/internal/config"
	"complaint-portal/api-gateway/setup"
	"complaint-portal/shared/pkg/logger"
	"complaint-portal/shared/pkg/metrics"
	"complaint-portal/shared/pkg/shutdown"
)

const serviceName = "api-gateway"

func main() {
	log := logger.New(serviceName)

	_, shutdownManager := shutdown.NewManager(context.Background(), log)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(serviceName, registry)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log), httpMetrics.GinMiddleware())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	if err := setup.ConfigureServiceProxies(r, cfg, log); err != nil {
		log.WithError(err).Fatal("failed to configure upstreams")
	}

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":      cfg.ServerPort,
			"auth":      cfg.AuthServiceURL,
			"complaint": cfg.ComplaintServiceURL,
			"reference": cfg.ReferenceServiceURL,
		}).Info("API gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to run API gateway")
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return srv.Shutdown(ctx)
	})

	shutdownManager.Wait()
}
