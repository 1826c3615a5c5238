package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaint-portal/reference-service/internal/models"
)

type recordedQuery struct {
	level  models.LocationLevel
	filter models.LocationFilter
}

type stubLocations struct {
	queries []recordedQuery
}

func (s *stubLocations) Distinct(_ context.Context, level models.LocationLevel, f models.LocationFilter) ([]string, error) {
	s.queries = append(s.queries, recordedQuery{level: level, filter: f})
	return []string{"a", "b"}, nil
}

func TestLocationService_PassesAncestors(t *testing.T) {
	ctx := context.Background()
	repo := &stubLocations{}
	s := NewLocationService(repo)

	full := models.LocationFilter{Province: " Kigali ", District: "Gasabo", Sector: "Kacyiru", Cell: "Kamatamu"}

	_, err := s.Provinces(ctx)
	require.NoError(t, err)
	_, err = s.Districts(ctx, full)
	require.NoError(t, err)
	_, err = s.Sectors(ctx, full)
	require.NoError(t, err)
	_, err = s.Cells(ctx, full)
	require.NoError(t, err)
	names, err := s.Villages(ctx, full)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	assert.Equal(t, []recordedQuery{
		{models.LevelProvince, models.LocationFilter{}},
		{models.LevelDistrict, models.LocationFilter{Province: "Kigali"}},
		{models.LevelSector, models.LocationFilter{Province: "Kigali", District: "Gasabo"}},
		{models.LevelCell, models.LocationFilter{Province: "Kigali", District: "Gasabo", Sector: "Kacyiru"}},
		{models.LevelVillage, models.LocationFilter{Province: "Kigali", District: "Gasabo", Sector: "Kacyiru", Cell: "Kamatamu"}},
	}, repo.queries)
}

func TestLocationService_RequiresParents(t *testing.T) {
	ctx := context.Background()
	s := NewLocationService(&stubLocations{})

	_, err := s.Districts(ctx, models.LocationFilter{})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.EqualError(t, err, "validation error: province is required")

	_, err = s.Cells(ctx, models.LocationFilter{Province: "Kigali", District: "Gasabo"})
	assert.EqualError(t, err, "validation error: sector is required")

	_, err = s.Villages(ctx, models.LocationFilter{Province: "Kigali", District: "Gasabo", Sector: "Kacyiru"})
	assert.EqualError(t, err, "validation error: cell is required")
}
