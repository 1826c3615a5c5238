package repository

import (
	"context"
	"errors"
	"fmt"

	"complaint-portal/auth-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "approvalStatus", Value: 1}}},
	})
	return err
}

// Create inserts user with a fresh id. A taken email is reported as models.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func filterDocument(f models.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.ApprovalStatus != "" {
		filter["approvalStatus"] = f.ApprovalStatus
	}
	return filter
}

// Find returns users matching f, newest first unless sortByName is set.
func (r *UserRepository) Find(ctx context.Context, f models.UserFilter, skip, limit int64, sortByName bool) ([]models.User, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	if sortByName {
		sort = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	}
	opts := options.Find().SetSort(sort).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filterDocument(f), opts)
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context, f models.UserFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, filterDocument(f))
}

func updateDocument(u models.UserUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Password != nil {
		set["password"] = *u.Password
	}
	if u.Role != nil {
		set["role"] = *u.Role
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.NationalID != nil {
		set["nationalId"] = *u.NationalID
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Department != nil {
		set["department"] = *u.Department
	}
	if u.InstitutionType != nil {
		set["institutionType"] = *u.InstitutionType
	}
	if u.ApprovalStatus != nil {
		set["approvalStatus"] = *u.ApprovalStatus
		set["isApproved"] = *u.ApprovalStatus == models.ApprovalApproved
	}
	if u.RejectionReason != nil {
		set["rejectionReason"] = *u.RejectionReason
	}
	if u.HandledCategories != nil {
		set["handledCategories"] = *u.HandledCategories
	}
	return set
}

// Update applies u and returns the document as stored afterwards.
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, u models.UserUpdate) (*models.User, error) {
	if u.Empty() {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updateDocument(u)}, opts).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: user not found", models.ErrNotFound)
	}
	return nil
}

func handleDatabaseError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: user not found", models.ErrNotFound)
	}
	return err
}
