package services

import (
	"context"
	"time"

	"complaint-portal/auth-service/internal/models"
	"complaint-portal/shared/pkg/token"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Find(ctx context.Context, f models.UserFilter, skip, limit int64, sortByName bool) ([]models.User, error)
	Count(ctx context.Context, f models.UserFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TokenManager interface {
	Generate(userID, role string) (string, *token.Claims, error)
	Parse(tokenString string) (*token.Claims, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, claims *token.Claims) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ProfileCache is satisfied by the shared Redis wrapper.
type ProfileCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
