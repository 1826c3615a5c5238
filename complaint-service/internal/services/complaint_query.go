package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/shared/pkg/cache"
)

// Read returns one complaint. Existence is checked before access, so a
// citizen asking for someone else's complaint gets ErrForbidden.
func (s *ComplaintService) Read(ctx context.Context, actor models.Principal, id string) (*models.ComplaintView, error) {
	oid, err := parseComplaintID(id)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, s.storeError(err)
	}

	switch {
	case actor.Is(models.RoleAdmin, models.RoleInstitution):
	case actor.Is(models.RoleCitizen) && c.Citizen == actor.ID:
	default:
		return nil, forbidden("view this complaint")
	}

	return s.viewOne(ctx, c)
}

// List is the institution and admin listing with role scoping applied.
func (s *ComplaintService) List(ctx context.Context, actor models.Principal, criteria ListCriteria) (*models.ComplaintPage, error) {
	if !actor.Is(models.RoleInstitution, models.RoleAdmin) {
		return nil, forbidden("list all complaints")
	}
	return s.list(ctx, actor, criteria)
}

// ListMine lists the calling citizen's own complaints.
func (s *ComplaintService) ListMine(ctx context.Context, actor models.Principal, criteria ListCriteria) (*models.ComplaintPage, error) {
	if !actor.Is(models.RoleCitizen) {
		return nil, forbidden("list citizen complaints")
	}
	return s.list(ctx, actor, criteria)
}

func (s *ComplaintService) list(ctx context.Context, actor models.Principal, criteria ListCriteria) (*models.ComplaintPage, error) {
	q, err := parseCriteria(criteria, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.applyScope(ctx, actor, &q.filter); err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, q.filter)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	skip := int64(q.page-1) * int64(q.limit)
	complaints, err := s.repo.Find(ctx, q.filter, q.sort, skip, int64(q.limit))
	if err != nil {
		return nil, fmt.Errorf("find complaints: %w", err)
	}

	views, err := s.project(ctx, complaints)
	if err != nil {
		return nil, err
	}

	totalPages, pagination := paginate(total, q.page, q.limit)
	return &models.ComplaintPage{
		Count:      len(views),
		Total:      total,
		TotalPages: totalPages,
		Page:       q.page,
		Limit:      q.limit,
		Pagination: pagination,
		Data:       views,
	}, nil
}

// applyScope narrows f to what actor may see: a citizen sees their own
// complaints, an institution sees its categories plus what is assigned to it.
func (s *ComplaintService) applyScope(ctx context.Context, actor models.Principal, f *models.ComplaintFilter) error {
	switch actor.Role {
	case models.RoleCitizen:
		id := actor.ID
		f.Citizen = &id
	case models.RoleInstitution:
		categories := actor.HandledCategories
		if len(categories) == 0 && strings.TrimSpace(actor.Department) != "" {
			ids, err := s.categories.IDsByDepartment(ctx, strings.TrimSpace(actor.Department))
			if err != nil {
				return fmt.Errorf("resolve department categories: %w", err)
			}
			categories = ids
		}
		f.Institution = &models.InstitutionScope{Institution: actor.ID, Categories: categories}
	case models.RoleAdmin:
	default:
		return forbidden("list complaints")
	}
	return nil
}

// statsScope is narrower than the list scope for institutions: only
// complaints assigned to them are counted.
func statsScope(actor models.Principal) (models.ComplaintFilter, string, error) {
	var f models.ComplaintFilter
	switch actor.Role {
	case models.RoleCitizen:
		id := actor.ID
		f.Citizen = &id
		return f, citizenStatsKey(actor.ID.Hex()), nil
	case models.RoleInstitution:
		f.Assignment = models.AssignmentTo
		f.Assignee = actor.ID
		return f, institutionStatsKey(actor.ID.Hex()), nil
	case models.RoleAdmin:
		return f, adminStatsKey, nil
	default:
		return f, "", forbidden("view complaint statistics")
	}
}

// Stats counts the caller's complaints per status.
func (s *ComplaintService) Stats(ctx context.Context, actor models.Principal) (*models.Stats, error) {
	filter, key, err := statsScope(actor)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached models.Stats
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WithError(err).Warn("stats cache read failed")
		}
	}

	counts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count complaints by status: %w", err)
	}

	stats := &models.Stats{
		Pending:    counts[models.StatusPending],
		InProgress: counts[models.StatusInProgress],
		Resolved:   counts[models.StatusResolved],
		Rejected:   counts[models.StatusRejected],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Resolved + stats.Rejected

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.cfg.StatsCacheTTL); err != nil {
			s.log.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

// Recent returns the newest complaints visible to the caller under the stats scope.
func (s *ComplaintService) Recent(ctx context.Context, actor models.Principal) ([]models.ComplaintView, error) {
	filter, _, err := statsScope(actor)
	if err != nil {
		return nil, err
	}

	complaints, err := s.repo.Find(ctx, filter, defaultSort, 0, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("find recent complaints: %w", err)
	}
	return s.project(ctx, complaints)
}

const adminStatsKey = "complaints:stats:admin"

func citizenStatsKey(id string) string     { return "complaints:stats:citizen:" + id }
func institutionStatsKey(id string) string { return "complaints:stats:institution:" + id }

// invalidateStats drops every cached count that the given complaint versions contribute to.
func (s *ComplaintService) invalidateStats(ctx context.Context, versions ...*models.Complaint) {
	if s.cache == nil {
		return
	}

	keys := []string{adminStatsKey}
	for _, c := range versions {
		if c == nil {
			continue
		}
		keys = append(keys, citizenStatsKey(c.Citizen.Hex()))
		if c.AssignedTo != nil {
			keys = append(keys, institutionStatsKey(c.AssignedTo.Hex()))
		}
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("stats cache invalidation failed")
	}
}
