package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"complaint-portal/reference-service/internal/models"
)

const (
	categoryCollection = "categories"
)

type CategoryRepository struct {
	db *mongo.Database
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(categoryCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "department", Value: 1}}},
	})
	return err
}

func activeFilter(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"isActive": true}
	}
	return bson.M{}
}

// departmentFilter matches department names exactly, ignoring case.
func departmentFilter(department string, activeOnly bool) bson.M {
	filter := activeFilter(activeOnly)
	filter["department"] = primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(department) + "$",
		Options: "i",
	}
	return filter
}

func (r *CategoryRepository) find(ctx context.Context, filter bson.M) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(categoryCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

func (r *CategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return r.find(ctx, activeFilter(activeOnly))
}

func (r *CategoryRepository) GetByDepartment(ctx context.Context, department string, activeOnly bool) ([]models.Category, error) {
	return r.find(ctx, departmentFilter(department, activeOnly))
}

func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.db.Collection(categoryCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		return nil, r.handleDatabaseError(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	collection := r.db.Collection(categoryCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"name": category.Name})
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrDuplicate
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := collection.InsertOne(ctx, category)
	if err != nil {
		return r.handleDatabaseError(err)
	}

	category.ID = result.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	collection := r.db.Collection(categoryCollection)

	if category.ID.IsZero() {
		return models.ErrInvalidID
	}

	// Check for duplicate name (excluding current category)
	count, err := collection.CountDocuments(ctx, bson.M{
		"name": category.Name,
		"_id":  bson.M{"$ne": category.ID},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrDuplicate
	}

	category.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	filter := bson.M{"_id": category.ID}
	update := bson.M{"$set": bson.M{
		"name":                   category.Name,
		"nameKinyarwanda":        category.NameKinyarwanda,
		"nameFrench":             category.NameFrench,
		"description":            category.Description,
		"descriptionKinyarwanda": category.DescriptionKinyarwanda,
		"descriptionFrench":      category.DescriptionFrench,
		"department":             category.Department,
		"icon":                   category.Icon,
		"isActive":               category.IsActive,
		"updatedAt":              category.UpdatedAt,
	}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.Collection(categoryCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *CategoryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, isActive bool) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"isActive":  isActive,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}

	result, err := r.db.Collection(categoryCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Upsert inserts the category unless one with the same name exists.
// Existing documents are left untouched so admin edits survive reseeding.
func (r *CategoryRepository) Upsert(ctx context.Context, category models.Category) (bool, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	category.ID = primitive.NilObjectID
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.db.Collection(categoryCollection).UpdateOne(ctx,
		bson.M{"name": category.Name},
		bson.M{"$setOnInsert": category},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, r.handleDatabaseError(err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *CategoryRepository) handleDatabaseError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}
