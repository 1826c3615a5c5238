package services

import (
	"context"
	"fmt"
	"time"

	"complaint-portal/complaint-service/internal/models"

	"github.com/sirupsen/logrus"
)

// dashboardMonths is how many calendar months the admin trend covers,
// the current one included.
const dashboardMonths = 6

// DashboardService assembles the admin and institution overview pages.
type DashboardService struct {
	complaints DashboardRepository
	users      UserCounter
	categories CategoryCounter
	recent     RecentFeed
	loc        *time.Location
	log        *logrus.Entry
	now        func() time.Time
}

func NewDashboardService(
	complaints DashboardRepository,
	users UserCounter,
	categories CategoryCounter,
	recent RecentFeed,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		complaints: complaints,
		users:      users,
		categories: categories,
		recent:     recent,
		loc:        loc,
		log:        logrus.NewEntry(logrus.StandardLogger()),
		now:        time.Now,
	}
}

func (s *DashboardService) WithLogger(log *logrus.Entry) *DashboardService {
	s.log = log
	return s
}

func requireRole(actor models.Principal, role models.Role) error {
	if actor.Role != role {
		return fmt.Errorf("%w: user role %s is not authorized to access this route", models.ErrForbidden, actor.Role)
	}
	return nil
}

// Admin covers every complaint, user and category.
func (s *DashboardService) Admin(ctx context.Context, actor models.Principal) (*models.AdminDashboard, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var scope models.ComplaintFilter
	counts, byStatus, err := s.statusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	dash := &models.AdminDashboard{
		Counts:             models.AdminCounts{ComplaintCounts: counts},
		ComplaintsByStatus: byStatus,
	}

	userCounts := []struct {
		dest     *int64
		role     models.Role
		approval models.ApprovalStatus
	}{
		{&dash.Counts.TotalUsers, "", ""},
		{&dash.Counts.CitizenUsers, models.RoleCitizen, ""},
		{&dash.Counts.InstitutionUsers, models.RoleInstitution, ""},
		{&dash.Counts.PendingApprovals, models.RoleInstitution, models.ApprovalPending},
	}
	for _, uc := range userCounts {
		n, err := s.users.CountUsers(ctx, uc.role, uc.approval)
		if err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		*uc.dest = n
	}

	if dash.Counts.TotalCategories, err = s.categories.Count(ctx); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if dash.RecentComplaints, err = s.recent.Recent(ctx, actor); err != nil {
		return nil, err
	}
	if dash.ComplaintsByCategory, err = s.complaints.CountByCategory(ctx, scope); err != nil {
		return nil, fmt.Errorf("count complaints by category: %w", err)
	}
	if dash.ComplaintsByMonth, err = s.monthlyTrend(ctx, scope); err != nil {
		return nil, err
	}
	return dash, nil
}

// Institution covers the complaints assigned to the calling institution.
func (s *DashboardService) Institution(ctx context.Context, actor models.Principal) (*models.InstitutionDashboard, error) {
	if err := requireRole(actor, models.RoleInstitution); err != nil {
		return nil, err
	}

	scope := models.ComplaintFilter{Assignment: models.AssignmentTo, Assignee: actor.ID}
	counts, byStatus, err := s.statusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	dash := &models.InstitutionDashboard{Counts: counts, ComplaintsByStatus: byStatus}
	if dash.RecentComplaints, err = s.recent.Recent(ctx, actor); err != nil {
		return nil, err
	}
	if dash.ComplaintsByCategory, err = s.complaints.CountByCategory(ctx, scope); err != nil {
		return nil, fmt.Errorf("count complaints by category: %w", err)
	}
	if dash.ResponseTimeMetrics, err = s.complaints.ResponseTimes(ctx, scope); err != nil {
		return nil, fmt.Errorf("compute response times: %w", err)
	}

	s.log.WithField("institution_id", actor.ID.Hex()).Debug("institution dashboard built")
	return dash, nil
}

func (s *DashboardService) statusCounts(ctx context.Context, scope models.ComplaintFilter) (models.ComplaintCounts, []models.StatusCount, error) {
	var counts models.ComplaintCounts
	byStatus, err := s.complaints.CountByStatus(ctx, scope)
	if err != nil {
		return counts, nil, fmt.Errorf("count complaints by status: %w", err)
	}

	rows := make([]models.StatusCount, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		rows = append(rows, models.StatusCount{Status: status, Count: byStatus[status]})
		counts.TotalComplaints += byStatus[status]
	}
	counts.PendingComplaints = byStatus[models.StatusPending]
	counts.InProgressComplaints = byStatus[models.StatusInProgress]
	counts.ResolvedComplaints = byStatus[models.StatusResolved]
	counts.RejectedComplaints = byStatus[models.StatusRejected]
	return counts, rows, nil
}

// monthlyTrend returns one entry per month from the oldest in the window to
// the current one, filling months without complaints with zero.
func (s *DashboardService) monthlyTrend(ctx context.Context, scope models.ComplaintFilter) ([]models.MonthCount, error) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month()-(dashboardMonths-1), 1, 0, 0, 0, 0, s.loc)
	scope.CreatedFrom = start

	buckets, err := s.complaints.CountByMonth(ctx, scope, s.loc.String())
	if err != nil {
		return nil, fmt.Errorf("count complaints by month: %w", err)
	}
	byMonth := make(map[[2]int]int64, len(buckets))
	for _, b := range buckets {
		byMonth[[2]int{b.Year, b.Month}] = b.Count
	}

	trend := make([]models.MonthCount, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		month := start.AddDate(0, i, 0)
		trend = append(trend, models.MonthCount{
			Month: month.Month().String()[:3],
			Year:  month.Year(),
			Count: byMonth[[2]int{month.Year(), int(month.Month())}],
		})
	}
	return trend, nil
}
