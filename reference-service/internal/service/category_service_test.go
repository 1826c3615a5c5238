package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/reference-service/internal/models"
)

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetByDepartment(ctx context.Context, department string, activeOnly bool) ([]models.Category, error) {
	args := m.Called(ctx, department, activeOnly)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func boolPtr(b bool) *bool { return &b }

func TestCategoryService_ListScopesByRole(t *testing.T) {
	ctx := context.Background()
	repo := new(mockCategoryRepository)
	repo.On("GetAll", ctx, true).Return([]models.Category{{Name: "Electricity", IsActive: true}}, nil).Once()
	repo.On("GetAll", ctx, false).Return([]models.Category{{Name: "Electricity"}, {Name: "Old"}}, nil).Once()

	s := NewCategoryService(repo)

	public, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	all, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	repo.AssertExpectations(t)
}

func TestCategoryService_ListByDepartment(t *testing.T) {
	ctx := context.Background()
	repo := new(mockCategoryRepository)
	repo.On("GetByDepartment", ctx, "REG", true).Return([]models.Category{{Name: "Electricity"}}, nil)

	s := NewCategoryService(repo)

	categories, err := s.ListByDepartment(ctx, "  REG ", false)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	_, err = s.ListByDepartment(ctx, " ", false)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCategoryService_GetHidesInactiveFromPublic(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	repo := new(mockCategoryRepository)
	repo.On("GetByID", ctx, id).Return(&models.Category{ID: id, Name: "Old", IsActive: false}, nil)

	s := NewCategoryService(repo)

	_, err := s.Get(ctx, id.Hex(), false)
	assert.ErrorIs(t, err, models.ErrNotFound)

	category, err := s.Get(ctx, id.Hex(), true)
	require.NoError(t, err)
	assert.Equal(t, "Old", category.Name)

	_, err = s.Get(ctx, "not-an-id", true)
	assert.ErrorIs(t, err, models.ErrInvalidID)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to active", func(t *testing.T) {
		repo := new(mockCategoryRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool {
			return c.Name == "Electricity" && c.IsActive
		})).Return(nil)

		category, err := NewCategoryService(repo).Create(ctx, models.CategoryInput{Name: " Electricity ", Department: "REG"})
		require.NoError(t, err)
		assert.True(t, category.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		repo := new(mockCategoryRepository)

		_, err := NewCategoryService(repo).Create(ctx, models.CategoryInput{Department: "REG"})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "name field is required")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects long name", func(t *testing.T) {
		repo := new(mockCategoryRepository)
		long := "Roads, Bridges, Public Buildings & Other Infrastructure"

		_, err := NewCategoryService(repo).Create(ctx, models.CategoryInput{Name: long})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "name cannot be more than 50 characters")
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := new(mockCategoryRepository)
		repo.On("Create", ctx, mock.Anything).Return(models.ErrDuplicate)

		_, err := NewCategoryService(repo).Create(ctx, models.CategoryInput{Name: "Electricity"})
		assert.ErrorIs(t, err, models.ErrDuplicate)
	})
}

func TestCategoryService_UpdateKeepsStatusWhenOmitted(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	created := primitive.DateTime(1700000000000)
	repo := new(mockCategoryRepository)
	repo.On("GetByID", ctx, id).Return(&models.Category{ID: id, Name: "Water", IsActive: false, CreatedAt: created}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.ID == id && c.Name == "Water & Sanitation" && !c.IsActive
	})).Return(nil).Once()

	s := NewCategoryService(repo)

	category, err := s.Update(ctx, id.Hex(), models.CategoryInput{Name: "Water & Sanitation"})
	require.NoError(t, err)
	assert.Equal(t, created, category.CreatedAt)

	repo.On("Update", ctx, mock.MatchedBy(func(c *models.Category) bool { return c.IsActive })).Return(nil).Once()
	category, err = s.Update(ctx, id.Hex(), models.CategoryInput{Name: "Water & Sanitation", IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, category.IsActive)
	repo.AssertExpectations(t)
}

func TestCategoryService_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	repo := new(mockCategoryRepository)
	repo.On("GetByID", ctx, id).Return(nil, models.ErrNotFound)

	_, err := NewCategoryService(repo).Update(ctx, id.Hex(), models.CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCategoryService_DeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	repo := new(mockCategoryRepository)
	repo.On("Delete", ctx, id).Return(nil)
	repo.On("UpdateStatus", ctx, id, false).Return(nil)
	repo.On("GetByID", ctx, id).Return(&models.Category{ID: id, Name: "Security"}, nil)

	s := NewCategoryService(repo)

	require.NoError(t, s.Delete(ctx, id.Hex()))
	assert.ErrorIs(t, s.Delete(ctx, "zzz"), models.ErrInvalidID)

	category, err := s.UpdateStatus(ctx, id.Hex(), false)
	require.NoError(t, err)
	assert.False(t, category.IsActive)
	repo.AssertExpectations(t)
}
