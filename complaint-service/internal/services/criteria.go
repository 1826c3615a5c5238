package services

import (
	"strconv"
	"strings"
	"time"

	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	dateLayout = "2006-01-02"
)

// ListCriteria are the raw list query parameters as sent by the caller.
type ListCriteria struct {
	Status     string
	Category   string
	Date       string
	AssignedTo string
	Sort       string
	Page       string
	Limit      string
}

var sortableFields = map[string]bool{
	"createdAt":   true,
	"updatedAt":   true,
	"status":      true,
	"priority":    true,
	"title":       true,
	"complaintId": true,
}

var defaultSort = []models.SortField{{Field: "createdAt", Desc: true}}

type listQuery struct {
	filter models.ComplaintFilter
	sort   []models.SortField
	page   int
	limit  int
}

// parseCriteria maps the allow-listed parameters onto a typed filter.
// Unknown values are rejected rather than passed through to the store.
func parseCriteria(c ListCriteria, now time.Time) (listQuery, error) {
	q := listQuery{
		page:  positiveInt(c.Page, defaultPage),
		limit: positiveInt(c.Limit, defaultLimit),
	}
	if q.limit > maxLimit {
		q.limit = maxLimit
	}

	if s := strings.TrimSpace(c.Status); s != "" {
		status := models.Status(s)
		if !status.Valid() {
			return q, validationError("status must be one of: pending, in-progress, resolved, rejected")
		}
		q.filter.Status = status
	}

	if cat := strings.TrimSpace(c.Category); cat != "" {
		oid, err := primitive.ObjectIDFromHex(cat)
		if err != nil {
			return q, validationError("category must be a valid id")
		}
		q.filter.Category = &oid
	}

	if err := parseAssignment(strings.TrimSpace(c.AssignedTo), &q.filter); err != nil {
		return q, err
	}

	if d := strings.TrimSpace(c.Date); d != "" {
		from, to, err := DateRange(d, now)
		if err != nil {
			return q, err
		}
		q.filter.CreatedFrom, q.filter.CreatedTo = from, to
	}

	sort, err := parseSort(c.Sort)
	if err != nil {
		return q, err
	}
	q.sort = sort

	return q, nil
}

func parseAssignment(value string, f *models.ComplaintFilter) error {
	switch strings.ToLower(value) {
	case "":
		f.Assignment = models.AssignmentAny
	case "unassigned":
		f.Assignment = models.AssignmentNone
	case "assigned", "any":
		f.Assignment = models.AssignmentSome
	default:
		oid, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return validationError("assignedTo must be unassigned, assigned or an institution id")
		}
		f.Assignment = models.AssignmentTo
		f.Assignee = oid
	}
	return nil
}

func parseSort(value string) ([]models.SortField, error) {
	if strings.TrimSpace(value) == "" {
		return defaultSort, nil
	}

	var fields []models.SortField
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if !sortableFields[name] {
			return nil, validationError("cannot sort by %q", name)
		}
		fields = append(fields, models.SortField{Field: name, Desc: desc})
	}

	if len(fields) == 0 {
		return defaultSort, nil
	}
	return fields, nil
}

func positiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// DateRange expands a date filter to a half-open [from, to) range in the
// location of now. Accepted values are today, yesterday, thisweek (weeks
// start on Monday), thismonth and an explicit YYYY-MM-DD day.
func DateRange(value string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch strings.ToLower(value) {
	case "today":
		return today, today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "thisweek":
		sinceMonday := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -sinceMonday)
		return start, start.AddDate(0, 0, 7), nil
	case "thismonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	}

	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, time.Time{}, validationError("date must be today, yesterday, thisweek, thismonth or YYYY-MM-DD")
	}
	return day, day.AddDate(0, 0, 1), nil
}

// paginate computes the page envelope for total matches.
func paginate(total int64, page, limit int) (int64, models.Pagination) {
	totalPages := (total + int64(limit) - 1) / int64(limit)

	var p models.Pagination
	if int64(page)*int64(limit) < total {
		p.Next = &models.PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &models.PageRef{Page: page - 1, Limit: limit}
	}
	return totalPages, p
}
