package services

import (
	"context"
	"fmt"
	"strings"

	"complaint-portal/reference-service/internal/models"
)

type LocationRepository interface {
	Distinct(ctx context.Context, level models.LocationLevel, f models.LocationFilter) ([]string, error)
}

// LocationService walks the province > district > sector > cell > village tree.
// Every level below province needs all of its ancestors.
type LocationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{
		repo: repo,
	}
}

func normalize(f models.LocationFilter) models.LocationFilter {
	return models.LocationFilter{
		Province: strings.TrimSpace(f.Province),
		District: strings.TrimSpace(f.District),
		Sector:   strings.TrimSpace(f.Sector),
		Cell:     strings.TrimSpace(f.Cell),
	}
}

func requireParams(fields ...[2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("%w: %s is required", models.ErrValidation, f[0])
		}
	}
	return nil
}

func (s *LocationService) Provinces(ctx context.Context) ([]string, error) {
	return s.repo.Distinct(ctx, models.LevelProvince, models.LocationFilter{})
}

func (s *LocationService) Districts(ctx context.Context, f models.LocationFilter) ([]string, error) {
	f = normalize(f)
	if err := requireParams([2]string{"province", f.Province}); err != nil {
		return nil, err
	}
	return s.repo.Distinct(ctx, models.LevelDistrict, models.LocationFilter{Province: f.Province})
}

func (s *LocationService) Sectors(ctx context.Context, f models.LocationFilter) ([]string, error) {
	f = normalize(f)
	if err := requireParams(
		[2]string{"province", f.Province},
		[2]string{"district", f.District},
	); err != nil {
		return nil, err
	}
	return s.repo.Distinct(ctx, models.LevelSector, models.LocationFilter{Province: f.Province, District: f.District})
}

func (s *LocationService) Cells(ctx context.Context, f models.LocationFilter) ([]string, error) {
	f = normalize(f)
	if err := requireParams(
		[2]string{"province", f.Province},
		[2]string{"district", f.District},
		[2]string{"sector", f.Sector},
	); err != nil {
		return nil, err
	}
	f.Cell = ""
	return s.repo.Distinct(ctx, models.LevelCell, f)
}

func (s *LocationService) Villages(ctx context.Context, f models.LocationFilter) ([]string, error) {
	f = normalize(f)
	if err := requireParams(
		[2]string{"province", f.Province},
		[2]string{"district", f.District},
		[2]string{"sector", f.Sector},
		[2]string{"cell", f.Cell},
	); err != nil {
		return nil, err
	}
	return s.repo.Distinct(ctx, models.LevelVillage, f)
}
