package services

import (
	"context"
	"fmt"

	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *ComplaintService) viewOne(ctx context.Context, c *models.Complaint) (*models.ComplaintView, error) {
	views, err := s.project(ctx, []models.Complaint{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// project resolves the references of complaints with one lookup per
// collection and normalizes the result.
func (s *ComplaintService) project(ctx context.Context, complaints []models.Complaint) ([]models.ComplaintView, error) {
	views := make([]models.ComplaintView, 0, len(complaints))
	if len(complaints) == 0 {
		return views, nil
	}

	categoryIDs := newIDSet()
	userIDs := newIDSet()
	for i := range complaints {
		c := &complaints[i]
		categoryIDs.add(c.Category)
		userIDs.add(c.Citizen)
		if c.AssignedTo != nil {
			userIDs.add(*c.AssignedTo)
		}
		for _, r := range c.Responses {
			userIDs.add(r.From)
		}
	}

	categories, err := s.categories.FindByIDs(ctx, categoryIDs.ids)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	users, err := s.users.FindByIDs(ctx, userIDs.ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	for i := range complaints {
		views = append(views, normalize(&complaints[i], categories, users))
	}
	return views, nil
}

// normalize builds the outward view. Dangling references degrade to
// placeholders and absent scalars to empty strings.
func normalize(c *models.Complaint, categories map[primitive.ObjectID]models.Category, users map[primitive.ObjectID]models.User) models.ComplaintView {
	v := models.ComplaintView{
		ID:            c.ID.Hex(),
		ComplaintID:   c.ComplaintID,
		Title:         c.Title,
		Description:   c.Description,
		Province:      c.Province,
		District:      c.District,
		Sector:        c.Sector,
		Cell:          c.Cell,
		Village:       c.Village,
		Status:        c.Status,
		Priority:      c.Priority,
		ImageURL:      c.ImageURL,
		NationalID:    c.NationalID,
		Phone:         c.Phone,
		StatusHistory: make([]models.StatusEntryView, 0, len(c.StatusHistory)),
		Responses:     make([]models.ResponseView, 0, len(c.Responses)),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}

	if v.Priority == "" {
		v.Priority = models.PriorityMedium
	}

	if cat, ok := categories[c.Category]; ok {
		v.Category = models.CategoryRef{ID: cat.ID.Hex(), Name: cat.Name}
	} else {
		v.Category = models.CategoryRef{Name: models.UncategorizedName}
	}

	if u, ok := users[c.Citizen]; ok {
		v.Citizen = models.UserRef{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
	} else {
		v.Citizen = models.UserRef{ID: idOrEmpty(c.Citizen), Name: models.UnknownCitizenName}
	}

	if c.AssignedTo != nil {
		if u, ok := users[*c.AssignedTo]; ok {
			v.AssignedTo = &models.InstitutionRef{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Department: u.Department}
		} else {
			v.AssignedTo = &models.InstitutionRef{ID: c.AssignedTo.Hex(), Name: models.UnknownInstitutionName}
		}
	}

	for _, h := range c.StatusHistory {
		v.StatusHistory = append(v.StatusHistory, models.StatusEntryView{
			Status:    h.Status,
			Timestamp: h.Timestamp,
			UpdatedBy: idOrEmpty(h.UpdatedBy),
			Comment:   h.Comment,
		})
	}

	for _, r := range c.Responses {
		from := models.UserRef{ID: idOrEmpty(r.From), Name: models.UnknownUserName}
		if u, ok := users[r.From]; ok {
			from = models.UserRef{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
		}
		v.Responses = append(v.Responses, models.ResponseView{
			ID:        idOrEmpty(r.ID),
			From:      from,
			Message:   r.Message,
			Timestamp: r.Timestamp,
		})
	}

	return v
}

func idOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

type idSet struct {
	seen map[primitive.ObjectID]struct{}
	ids  []primitive.ObjectID
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[primitive.ObjectID]struct{})}
}

func (s *idSet) add(id primitive.ObjectID) {
	if id.IsZero() {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}
