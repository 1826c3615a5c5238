package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"complaint-portal/complaint-service/internal/config"
	"complaint-portal/complaint-service/internal/metrics"
	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/shared/pkg/validator"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxTitleLength  = 100
	maxCodeAttempts = 5
	recentLimit     = 5

	submittedComment = "Complaint submitted"
)

type CreateInput struct {
	Title       string
	Description string
	Category    string
	Province    string
	District    string
	Sector      string
	Cell        string
	Village     string
	Priority    string
	NationalID  string
	Phone       string
	Image       *models.ImageUpload
}

// ComplaintService is the lifecycle engine and query layer over the
// complaint store. Every method takes the authenticated caller explicitly.
type ComplaintService struct {
	repo       ComplaintRepository
	users      UserDirectory
	categories CategoryDirectory
	images     ImageStore
	seq        Sequence
	cache      StatsCache
	metrics    *metrics.Complaints
	log        *logrus.Entry
	cfg        *config.Config
	now        func() time.Time
}

func NewComplaintService(
	repo ComplaintRepository,
	users UserDirectory,
	categories CategoryDirectory,
	images ImageStore,
	seq Sequence,
	cfg *config.Config,
) *ComplaintService {
	return &ComplaintService{
		repo:       repo,
		users:      users,
		categories: categories,
		images:     images,
		seq:        seq,
		cfg:        cfg,
		log:        logrus.NewEntry(logrus.StandardLogger()),
		now:        time.Now,
	}
}

// WithStatsCache enables caching of Stats results.
func (s *ComplaintService) WithStatsCache(cache StatsCache) *ComplaintService {
	s.cache = cache
	return s
}

func (s *ComplaintService) WithMetrics(m *metrics.Complaints) *ComplaintService {
	s.metrics = m
	return s
}

func (s *ComplaintService) WithLogger(log *logrus.Entry) *ComplaintService {
	s.log = log
	return s
}

func (s *ComplaintService) clock() time.Time {
	return s.now().In(s.cfg.Location())
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func forbidden(action string) error {
	return fmt.Errorf("%w: not allowed to %s", models.ErrForbidden, action)
}

func complaintNotFound() error {
	return fmt.Errorf("%w: complaint not found", models.ErrNotFound)
}

// parseComplaintID treats a malformed id like an unknown one.
func parseComplaintID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, complaintNotFound()
	}
	return oid, nil
}

// Create validates the submission, stores the optional image, allocates the
// next complaint code of the current year and persists a pending complaint.
func (s *ComplaintService) Create(ctx context.Context, actor models.Principal, in CreateInput) (*models.ComplaintView, error) {
	if !actor.Is(models.RoleCitizen) {
		return nil, forbidden("submit complaints")
	}

	complaint, err := s.validateCreate(ctx, in)
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		if err := s.validateImage(in.Image); err != nil {
			return nil, err
		}
		url, err := s.images.Save(ctx, actor.ID, *in.Image)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		complaint.ImageURL = url
	}

	now := s.clock()
	complaint.Status = models.StatusPending
	complaint.Citizen = actor.ID
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	complaint.StatusHistory = []models.StatusEntry{{
		Status:    models.StatusPending,
		Timestamp: now,
		UpdatedBy: actor.ID,
		Comment:   submittedComment,
	}}
	complaint.Responses = []models.Response{}

	if err := s.insertWithCode(ctx, complaint, now.Year()); err != nil {
		if complaint.ImageURL != "" {
			s.removeImage(ctx, complaint.ImageURL)
		}
		return nil, err
	}

	s.metrics.Created()
	s.invalidateStats(ctx, complaint)

	return s.viewOne(ctx, complaint)
}

func (s *ComplaintService) validateCreate(ctx context.Context, in CreateInput) (*models.Complaint, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		return nil, validationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, validationError("title cannot be more than %d characters", maxTitleLength)
	}
	if description == "" {
		return nil, validationError("description is required")
	}

	categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.Category))
	if err != nil {
		return nil, validationError("category must be a valid id")
	}
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, validationError("category does not exist")
	}

	c := &models.Complaint{
		Title:       title,
		Description: description,
		Category:    categoryID,
		Province:    strings.TrimSpace(in.Province),
		District:    strings.TrimSpace(in.District),
		Sector:      strings.TrimSpace(in.Sector),
		Cell:        strings.TrimSpace(in.Cell),
		Village:     strings.TrimSpace(in.Village),
		NationalID:  strings.TrimSpace(in.NationalID),
		Phone:       strings.TrimSpace(in.Phone),
		Priority:    models.PriorityMedium,
	}

	switch {
	case c.Province == "":
		return nil, validationError("province is required")
	case c.District == "":
		return nil, validationError("district is required")
	case c.Sector == "":
		return nil, validationError("sector is required")
	}

	if p := strings.TrimSpace(in.Priority); p != "" {
		c.Priority = models.Priority(strings.ToLower(p))
		if !c.Priority.Valid() {
			return nil, validationError("priority must be one of: low, medium, high")
		}
	}
	if c.NationalID != "" && !validator.NationalID(c.NationalID) {
		return nil, validationError("national ID must be exactly 16 digits")
	}
	if c.Phone != "" && !validator.Phone(c.Phone) {
		return nil, validationError("phone must be a valid Rwandan phone number")
	}

	return c, nil
}

func (s *ComplaintService) validateImage(img *models.ImageUpload) error {
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return validationError("only image uploads are allowed")
	}
	if img.Size <= 0 {
		return validationError("image is empty")
	}
	if s.cfg.MaxImageBytes > 0 && img.Size > s.cfg.MaxImageBytes {
		return validationError("image exceeds the %d byte limit", s.cfg.MaxImageBytes)
	}
	return nil
}

// insertWithCode allocates a code and inserts, allocating again when another
// writer took the same code first.
func (s *ComplaintService) insertWithCode(ctx context.Context, c *models.Complaint, year int) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		n, err := s.seq.Next(ctx, year)
		if err != nil {
			return fmt.Errorf("allocate complaint code: %w", err)
		}
		c.ComplaintID = models.FormatComplaintCode(year, n)

		err = s.repo.Create(ctx, c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("create complaint: %w", err)
		}

		s.metrics.AllocatorRetry()
		s.log.WithFields(logrus.Fields{"code": c.ComplaintID, "attempt": attempt}).Debug("complaint code taken, retrying")
	}
	return fmt.Errorf("%w: could not allocate a unique complaint code, try again", models.ErrConflict)
}

// Transition moves a complaint to status and records who did it.
func (s *ComplaintService) Transition(ctx context.Context, actor models.Principal, id, status, comment string) (*models.ComplaintView, error) {
	if !actor.Is(models.RoleInstitution, models.RoleAdmin) {
		return nil, forbidden("update complaint status")
	}

	next := models.Status(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, validationError("status must be one of: pending, in-progress, resolved, rejected")
	}

	oid, err := parseComplaintID(id)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, s.storeError(err)
	}
	if !models.CanTransition(current.Status, next) {
		return nil, fmt.Errorf("%w: cannot move complaint from %s to %s", models.ErrConflict, current.Status, next)
	}

	updated, err := s.repo.AppendStatus(ctx, oid, models.StatusEntry{
		Status:    next,
		Timestamp: s.clock(),
		UpdatedBy: actor.ID,
		Comment:   strings.TrimSpace(comment),
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	s.metrics.Transitioned(next)
	s.invalidateStats(ctx, updated)

	return s.viewOne(ctx, updated)
}

// Assign routes a complaint to an approved institution. An empty
// institutionID clears the assignment.
func (s *ComplaintService) Assign(ctx context.Context, actor models.Principal, id string, institutionID *string) (*models.ComplaintView, error) {
	if !actor.Is(models.RoleAdmin) {
		return nil, forbidden("assign complaints")
	}

	oid, err := parseComplaintID(id)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, s.storeError(err)
	}

	var assignee *primitive.ObjectID
	if institutionID != nil && strings.TrimSpace(*institutionID) != "" {
		inst, err := s.approvedInstitution(ctx, *institutionID)
		if err != nil {
			return nil, err
		}
		assignee = &inst
	}

	updated, err := s.repo.SetAssignee(ctx, oid, assignee, s.clock())
	if err != nil {
		return nil, s.storeError(err)
	}

	s.invalidateStats(ctx, current, updated)

	return s.viewOne(ctx, updated)
}

func (s *ComplaintService) approvedInstitution(ctx context.Context, id string) (primitive.ObjectID, error) {
	notFound := fmt.Errorf("%w: institution not found or not approved", models.ErrNotFound)

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, notFound
	}

	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return primitive.NilObjectID, notFound
		}
		return primitive.NilObjectID, fmt.Errorf("load institution: %w", err)
	}
	if !user.ApprovedInstitution() {
		return primitive.NilObjectID, notFound
	}
	return user.ID, nil
}

// AddResponse appends a message from an institution or admin to the complaint thread.
func (s *ComplaintService) AddResponse(ctx context.Context, actor models.Principal, id, message string) (*models.ComplaintView, error) {
	if !actor.Is(models.RoleInstitution, models.RoleAdmin) {
		return nil, forbidden("respond to complaints")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationError("message is required")
	}

	oid, err := parseComplaintID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.AppendResponse(ctx, oid, models.Response{
		ID:        primitive.NewObjectID(),
		From:      actor.ID,
		Message:   message,
		Timestamp: s.clock(),
	})
	if err != nil {
		return nil, s.storeError(err)
	}

	return s.viewOne(ctx, updated)
}

// Delete removes a complaint and, best effort, its image.
func (s *ComplaintService) Delete(ctx context.Context, actor models.Principal, id string) error {
	if !actor.Is(models.RoleAdmin) {
		return forbidden("delete complaints")
	}

	oid, err := parseComplaintID(id)
	if err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return s.storeError(err)
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return s.storeError(err)
	}

	if current.ImageURL != "" {
		s.removeImage(ctx, current.ImageURL)
	}
	s.invalidateStats(ctx, current)

	return nil
}

func (s *ComplaintService) removeImage(ctx context.Context, url string) {
	if err := s.images.Remove(ctx, url); err != nil {
		s.log.WithError(err).WithField("image", url).Warn("failed to remove complaint image")
	}
}

func (s *ComplaintService) storeError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return complaintNotFound()
	}
	return err
}
