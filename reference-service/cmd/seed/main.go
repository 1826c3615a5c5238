// Command seed loads the default categories and locations into MongoDB.
// It is safe to run repeatedly.
package main

import (
	"context"
	"time"

	"complaint-portal/reference-service/internal/config"
	"complaint-portal/reference-service/internal/repository"
	"complaint-portal/reference-service/internal/seed"
	"complaint-portal/shared/pkg/logger"
	"complaint-portal/shared/pkg/mongodb"
)

func main() {
	log := logger.New("reference-seed")

	cfg, err := config.NewConfig()
	if err != nil {
		log.WithError(err).Fatal("error parsing configs")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongodb.NewConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("error connecting to MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB.DBName)
	categories := repository.NewCategoryRepository(db)
	locations := repository.NewLocationRepository(db)
	if err := categories.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create category indexes")
	}
	if err := locations.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create location indexes")
	}

	if _, err := seed.Run(ctx, categories, locations, log); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
}
