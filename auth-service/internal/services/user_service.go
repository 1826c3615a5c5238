package services

import (
	"context"
	"strconv"
	"strings"

	"complaint-portal/auth-service/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListInput is the raw query of an admin user listing.
type ListInput struct {
	Role           string
	ApprovalStatus string
	Page           string
	Limit          string
}

type ApprovalInput struct {
	ApprovalStatus  models.ApprovalStatus `json:"approvalStatus"`
	RejectionReason string                `json:"rejectionReason"`
}

// UpdateUserInput lists what an admin may change. Passwords are never
// updated through this path.
type UpdateUserInput struct {
	Name              *string   `json:"name" validate:"omitempty,max=50"`
	Email             *string   `json:"email" validate:"omitempty,email"`
	Role              *string   `json:"role" validate:"omitempty,oneof=citizen institution admin"`
	Phone             *string   `json:"phone" validate:"omitempty,rwphone"`
	NationalID        *string   `json:"nationalId" validate:"omitempty,nationalid"`
	Address           *string   `json:"address"`
	Department        *string   `json:"department"`
	InstitutionType   *string   `json:"institutionType"`
	HandledCategories *[]string `json:"handledCategories"`
}

// UserService backs the administrator user-management routes.
type UserService struct {
	users UserRepository
	cache ProfileCache
	log   *logrus.Entry
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users, log: logrus.NewEntry(logrus.StandardLogger())}
}

// WithProfileCache lets writes invalidate the profiles cached by AuthService.
func (s *UserService) WithProfileCache(c ProfileCache) *UserService {
	s.cache = c
	return s
}

func (s *UserService) WithLogger(log *logrus.Entry) *UserService {
	s.log = log
	return s
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *UserService) List(ctx context.Context, in ListInput) (*models.UserPage, error) {
	var f models.UserFilter
	if in.Role != "" {
		f.Role = models.Role(in.Role)
		if !f.Role.Valid() {
			return nil, validationError("unknown role %q", in.Role)
		}
	}
	if in.ApprovalStatus != "" {
		f.ApprovalStatus = models.ApprovalStatus(in.ApprovalStatus)
		if !f.ApprovalStatus.Valid() {
			return nil, validationError("unknown approval status %q", in.ApprovalStatus)
		}
	}

	page := positiveInt(in.Page, defaultPage)
	limit := positiveInt(in.Limit, defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	total, err := s.users.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	skip := int64(page-1) * int64(limit)
	users, err := s.users.Find(ctx, f, skip, int64(limit), false)
	if err != nil {
		return nil, err
	}

	result := &models.UserPage{
		Count:      len(users),
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		Data:       users,
	}
	if skip+int64(limit) < total {
		result.Pagination.Next = &models.PageRef{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		result.Pagination.Prev = &models.PageRef{Page: page - 1, Limit: limit}
	}
	return result, nil
}

// Institutions lists the approved institutions complaints can be assigned to.
func (s *UserService) Institutions(ctx context.Context) ([]models.User, error) {
	return s.users.Find(ctx, models.UserFilter{Role: models.RoleInstitution, ApprovalStatus: models.ApprovalApproved}, 0, 0, true)
}

func (s *UserService) PendingApprovals(ctx context.Context) ([]models.User, error) {
	return s.users.Find(ctx, models.UserFilter{Role: models.RoleInstitution, ApprovalStatus: models.ApprovalPending}, 0, 0, false)
}

// UpdateApproval approves or rejects an institution account. A rejection
// needs a reason.
func (s *UserService) UpdateApproval(ctx context.Context, userID string, in ApprovalInput) (*models.User, error) {
	if in.ApprovalStatus != models.ApprovalApproved && in.ApprovalStatus != models.ApprovalRejected {
		return nil, validationError("approval status must be approved or rejected")
	}
	reason := strings.TrimSpace(in.RejectionReason)
	if in.ApprovalStatus == models.ApprovalRejected && reason == "" {
		return nil, validationError("please provide a rejection reason")
	}

	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleInstitution {
		return nil, validationError("only institution accounts can be approved or rejected")
	}

	// An approval clears any reason left by an earlier rejection.
	if in.ApprovalStatus == models.ApprovalApproved {
		reason = ""
	}
	update := models.UserUpdate{ApprovalStatus: &in.ApprovalStatus, RejectionReason: &reason}
	updated, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.forget(ctx, id)
	s.log.WithFields(logrus.Fields{"user_id": id.Hex(), "approval_status": in.ApprovalStatus}).Info("institution approval updated")
	updated.Password = ""
	return updated, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, userID string, in UpdateUserInput) (*models.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := firstProblem(in); err != nil {
		return nil, err
	}

	update := models.UserUpdate{
		Name:            trimmed(in.Name),
		Phone:           in.Phone,
		NationalID:      in.NationalID,
		Address:         in.Address,
		Department:      trimmed(in.Department),
		InstitutionType: trimmed(in.InstitutionType),
	}
	if update.Name != nil && *update.Name == "" {
		return nil, validationError("name cannot be empty")
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		update.Email = &email
	}
	if in.Role != nil {
		role := models.Role(*in.Role)
		update.Role = &role
	}
	if in.HandledCategories != nil {
		cats, err := parseCategoryIDs(*in.HandledCategories)
		if err != nil {
			return nil, err
		}
		update.HandledCategories = &cats
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, id)
	user.Password = ""
	return user, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}
	if id.Hex() == strings.TrimSpace(actorID) {
		return validationError("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx, id)
	return nil
}

func (s *UserService) forget(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileKey(id)); err != nil {
		s.log.WithError(err).Warn("profile cache invalidation failed")
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

