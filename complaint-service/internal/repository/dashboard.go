package repository

import (
	"context"

	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const millisPerHour = 60 * 60 * 1000

func categoryCountPipeline(filter models.ComplaintFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: buildFilter(filter)}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         categoriesCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "category",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$category", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"id":    bson.M{"$toString": "$category._id"},
			"name":  bson.M{"$ifNull": bson.A{"$category.name", models.UncategorizedName}},
			"count": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "name", Value: 1}}}},
	}
}

// CountByCategory counts matching complaints per category, largest first.
func (r *ComplaintRepository) CountByCategory(ctx context.Context, filter models.ComplaintFilter) ([]models.CategoryCount, error) {
	cursor, err := r.collection.Aggregate(ctx, categoryCountPipeline(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []models.CategoryCount{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func monthCountPipeline(filter models.ComplaintFilter, timezone string) mongo.Pipeline {
	date := bson.M{"date": "$createdAt", "timezone": timezone}
	return mongo.Pipeline{
		{{Key: "$match", Value: buildFilter(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"year": bson.M{"$year": date}, "month": bson.M{"$month": date}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "year": "$_id.year", "month": "$_id.month", "count": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}}},
	}
}

// CountByMonth groups matching complaints by the calendar month of their
// creation in timezone, oldest first. Months without complaints are absent.
func (r *ComplaintRepository) CountByMonth(ctx context.Context, filter models.ComplaintFilter, timezone string) ([]models.MonthBucket, error) {
	cursor, err := r.collection.Aggregate(ctx, monthCountPipeline(filter, timezone))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.MonthBucket
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func responseTimePipeline(filter models.ComplaintFilter) mongo.Pipeline {
	handled := bson.M{"status": bson.M{"$in": bson.A{models.StatusResolved, models.StatusInProgress}}}
	return mongo.Pipeline{
		{{Key: "$match", Value: buildFilter(filter)}},
		{{Key: "$match", Value: handled}},
		{{Key: "$project", Value: bson.M{"hours": bson.M{"$divide": bson.A{
			bson.M{"$subtract": bson.A{"$updatedAt", "$createdAt"}},
			millisPerHour,
		}}}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"averageResponseTime": bson.M{"$avg": "$hours"},
			"minResponseTime":     bson.M{"$min": "$hours"},
			"maxResponseTime":     bson.M{"$max": "$hours"},
		}}},
	}
}

// ResponseTimes summarises how long resolved and in-progress complaints
// took to be acted on. All fields are zero when nothing matches.
func (r *ComplaintRepository) ResponseTimes(ctx context.Context, filter models.ComplaintFilter) (models.ResponseTimes, error) {
	var times models.ResponseTimes

	cursor, err := r.collection.Aggregate(ctx, responseTimePipeline(filter))
	if err != nil {
		return times, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		if err := cursor.Decode(&times); err != nil {
			return times, err
		}
	}
	return times, cursor.Err()
}

func userCountFilter(role models.Role, approval models.ApprovalStatus) bson.M {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	if approval != "" {
		filter["approvalStatus"] = approval
	}
	return filter
}

// CountUsers counts users by role and approval status. Empty values match
// everything.
func (r *UserRepository) CountUsers(ctx context.Context, role models.Role, approval models.ApprovalStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, userCountFilter(role, approval))
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
