package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/reference-service/internal/models"
)

type CategoryRepository interface {
	GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error)
	GetByDepartment(ctx context.Context, department string, activeOnly bool) ([]models.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, isActive bool) error
}

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// List returns every category to admins and only the active ones to everybody else.
func (s *CategoryService) List(ctx context.Context, admin bool) ([]models.Category, error) {
	return s.repo.GetAll(ctx, !admin)
}

func (s *CategoryService) ListByDepartment(ctx context.Context, department string, admin bool) ([]models.Category, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, fmt.Errorf("%w: department is required", models.ErrValidation)
	}
	return s.repo.GetByDepartment(ctx, department, !admin)
}

// Get hides inactive categories from non-admins.
func (s *CategoryService) Get(ctx context.Context, id string, admin bool) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	category, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive && !admin {
		return nil, models.ErrNotFound
	}

	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	category := in.Category()
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	existing, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	category := in.Category()
	if in.IsActive == nil {
		category.IsActive = existing.IsActive
	}
	category.ID = objID
	category.CreatedAt = existing.CreatedAt
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	return s.repo.Delete(ctx, objID)
}

func (s *CategoryService) UpdateStatus(ctx context.Context, id string, isActive bool) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	if err := s.repo.UpdateStatus(ctx, objID, isActive); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, objID)
}
