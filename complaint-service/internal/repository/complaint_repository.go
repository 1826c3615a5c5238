package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const complaintsCollection = "complaints"

type ComplaintRepository struct {
	collection *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{collection: db.Collection(complaintsCollection)}
}

// EnsureIndexes creates the unique code index and the indexes used by list filters.
func (r *ComplaintRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "complaintId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "citizen", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}

// Create inserts c with a fresh object id. A duplicate complaint code is
// reported as models.ErrConflict.
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	c.ID = primitive.NewObjectID()
	if c.StatusHistory == nil {
		c.StatusHistory = []models.StatusEntry{}
	}
	if c.Responses == nil {
		c.Responses = []models.Response{}
	}

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: complaint code %s is already taken", models.ErrConflict, c.ComplaintID)
		}
		return err
	}
	return nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	var c models.Complaint
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, r.handleDatabaseError(err)
	}
	return &c, nil
}

// AppendStatus sets the status and appends the history entry in one atomic update.
func (r *ComplaintRepository) AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry) (*models.Complaint, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set":  bson.M{"status": entry.Status, "updatedAt": entry.Timestamp},
		"$push": bson.M{"statusHistory": entry},
	})
}

// SetAssignee assigns the complaint, or clears the assignment when assignee is nil.
func (r *ComplaintRepository) SetAssignee(ctx context.Context, id primitive.ObjectID, assignee *primitive.ObjectID, at time.Time) (*models.Complaint, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"assignedTo": assignee, "updatedAt": at},
	})
}

func (r *ComplaintRepository) AppendResponse(ctx context.Context, id primitive.ObjectID, resp models.Response) (*models.Complaint, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set":  bson.M{"updatedAt": resp.Timestamp},
		"$push": bson.M{"responses": resp},
	})
}

func (r *ComplaintRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Complaint, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Complaint
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		return nil, r.handleDatabaseError(err)
	}
	return &c, nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.handleDatabaseError(err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ComplaintRepository) Find(ctx context.Context, filter models.ComplaintFilter, sort []models.SortField, skip, limit int64) ([]models.Complaint, error) {
	opts := options.Find().SetSort(buildSort(sort))
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err = cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}

	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return complaints, nil
}

func (r *ComplaintRepository) Count(ctx context.Context, filter models.ComplaintFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, buildFilter(filter))
}

// CountByStatus groups the matching complaints by status.
func (r *ComplaintRepository) CountByStatus(ctx context.Context, filter models.ComplaintFilter) (map[models.Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildFilter(filter)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.Status `bson:"_id"`
		Count  int64         `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *ComplaintRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}})
}

// MaxSequence returns the highest numeric suffix among codes starting with prefix.
func (r *ComplaintRepository) MaxSequence(ctx context.Context, prefix string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"complaintId": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}}},
		{{Key: "$project", Value: bson.M{"seq": bson.M{"$convert": bson.M{
			"input":   bson.M{"$substrCP": bson.A{"$complaintId", len(prefix), 32}},
			"to":      "long",
			"onError": 0,
		}}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "max": bson.M{"$max": "$seq"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Max int64 `bson:"max"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Max, nil
}

func (r *ComplaintRepository) handleDatabaseError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}
