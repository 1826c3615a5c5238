package services

import (
	"context"
	"io"
	"time"

	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintRepository is the Complaint Record Store. Every mutating method is
// a single atomic document update and returns the stored result.
type ComplaintRepository interface {
	Create(ctx context.Context, c *models.Complaint) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry) (*models.Complaint, error)
	SetAssignee(ctx context.Context, id primitive.ObjectID, assignee *primitive.ObjectID, at time.Time) (*models.Complaint, error)
	AppendResponse(ctx context.Context, id primitive.ObjectID, resp models.Response) (*models.Complaint, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter models.ComplaintFilter, sort []models.SortField, skip, limit int64) ([]models.Complaint, error)
	Count(ctx context.Context, filter models.ComplaintFilter) (int64, error)
	CountByStatus(ctx context.Context, filter models.ComplaintFilter) (map[models.Status]int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	MaxSequence(ctx context.Context, prefix string) (int64, error)
}

type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

type CategoryDirectory interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error)
	IDsByDepartment(ctx context.Context, keyword string) ([]primitive.ObjectID, error)
}

// ImageStore keeps complaint photos. Save returns the public URL of the object.
type ImageStore interface {
	Save(ctx context.Context, owner primitive.ObjectID, img models.ImageUpload) (string, error)
	Remove(ctx context.Context, url string) error
	Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error)
}

type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DashboardRepository aggregates complaints for the dashboards.
type DashboardRepository interface {
	CountByStatus(ctx context.Context, filter models.ComplaintFilter) (map[models.Status]int64, error)
	CountByCategory(ctx context.Context, filter models.ComplaintFilter) ([]models.CategoryCount, error)
	CountByMonth(ctx context.Context, filter models.ComplaintFilter, timezone string) ([]models.MonthBucket, error)
	ResponseTimes(ctx context.Context, filter models.ComplaintFilter) (models.ResponseTimes, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context, role models.Role, approval models.ApprovalStatus) (int64, error)
}

type CategoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// RecentFeed lists the newest complaints visible to a caller.
type RecentFeed interface {
	Recent(ctx context.Context, actor models.Principal) ([]models.ComplaintView, error)
}
