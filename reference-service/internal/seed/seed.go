package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"complaint-portal/reference-service/internal/models"
)

type CategoryUpserter interface {
	Upsert(ctx context.Context, category models.Category) (bool, error)
}

type LocationUpserter interface {
	Upsert(ctx context.Context, loc models.Location) (bool, error)
}

// Result counts the documents a run actually inserted.
type Result struct {
	Categories int
	Locations  int
}

// Run inserts the default reference data. Running it again inserts nothing.
func Run(ctx context.Context, categories CategoryUpserter, locations LocationUpserter, log *logrus.Entry) (Result, error) {
	var res Result

	for _, c := range DefaultCategories {
		c.IsActive = true
		inserted, err := categories.Upsert(ctx, c)
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		if inserted {
			res.Categories++
		}
	}

	for _, l := range DefaultLocations() {
		inserted, err := locations.Upsert(ctx, l)
		if err != nil {
			return res, fmt.Errorf("seed location %s/%s: %w", l.Cell, l.Village, err)
		}
		if inserted {
			res.Locations++
		}
	}

	log.WithFields(logrus.Fields{
		"categories": res.Categories,
		"locations":  res.Locations,
	}).Info("reference data seeded")

	return res, nil
}
