package repository

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"complaint-portal/reference-service/internal/models"
)

const (
	locationCollection = "locations"
)

type LocationRepository struct {
	db *mongo.Database
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{
		db: db,
	}
}

func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(locationCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "province", Value: 1},
			{Key: "district", Value: 1},
			{Key: "sector", Value: 1},
			{Key: "cell", Value: 1},
			{Key: "village", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func locationFilter(f models.LocationFilter) bson.M {
	filter := bson.M{}
	if f.Province != "" {
		filter["province"] = f.Province
	}
	if f.District != "" {
		filter["district"] = f.District
	}
	if f.Sector != "" {
		filter["sector"] = f.Sector
	}
	if f.Cell != "" {
		filter["cell"] = f.Cell
	}
	return filter
}

// Distinct returns the sorted distinct names at level under the filter.
func (r *LocationRepository) Distinct(ctx context.Context, level models.LocationLevel, f models.LocationFilter) ([]string, error) {
	values, err := r.db.Collection(locationCollection).Distinct(ctx, string(level), locationFilter(f))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected %s value %v", level, v)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Upsert stores the location once. It reports whether a new document was created.
func (r *LocationRepository) Upsert(ctx context.Context, loc models.Location) (bool, error) {
	key := bson.M{
		"province": loc.Province,
		"district": loc.District,
		"sector":   loc.Sector,
		"cell":     loc.Cell,
		"village":  loc.Village,
	}
	result, err := r.db.Collection(locationCollection).UpdateOne(ctx,
		key,
		bson.M{"$setOnInsert": key},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}
