package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"complaint-portal/auth-service/internal/config"
	"complaint-portal/auth-service/internal/models"
	"complaint-portal/shared/pkg/cache"
	"complaint-portal/shared/pkg/token"
	"complaint-portal/shared/pkg/validator"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterInput struct {
	Name              string      `json:"name" validate:"required,max=50"`
	Email             string      `json:"email" validate:"required,email"`
	Password          string      `json:"password" validate:"required,min=6"`
	Role              models.Role `json:"role" validate:"omitempty,oneof=citizen institution admin"`
	Phone             string      `json:"phone" validate:"omitempty,rwphone"`
	NationalID        string      `json:"nationalId" validate:"omitempty,nationalid"`
	Address           string      `json:"address"`
	Department        string      `json:"department" validate:"required_if=Role institution"`
	InstitutionType   string      `json:"institutionType" validate:"required_if=Role institution"`
	HandledCategories []string    `json:"handledCategories"`
}

type LoginInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type ProfileInput struct {
	Name       *string `json:"name" validate:"omitempty,max=50"`
	Phone      *string `json:"phone" validate:"omitempty,rwphone"`
	NationalID *string `json:"nationalId" validate:"omitempty,nationalid"`
	Address    *string `json:"address"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users    UserRepository
	tokens   TokenManager
	revoker  TokenRevoker
	cache    ProfileCache
	cacheTTL time.Duration
	log      *logrus.Entry
	now      func() time.Time
}

func NewAuthService(users UserRepository, tokens TokenManager, revoker TokenRevoker) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		log:     logrus.NewEntry(logrus.StandardLogger()),
		now:     time.Now,
	}
}

// WithProfileCache caches Me lookups for ttl.
func (s *AuthService) WithProfileCache(c ProfileCache, ttl time.Duration) *AuthService {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

func (s *AuthService) WithLogger(log *logrus.Entry) *AuthService {
	s.log = log
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func firstProblem(in interface{}) error {
	if problems := validator.Struct(in); len(problems) > 0 {
		return validationError("%s", problems[0])
	}
	return nil
}

// Register creates a citizen or institution account and signs a token for it.
// Institutions start pending and cannot log in until an admin approves them.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	in.InstitutionType = strings.TrimSpace(in.InstitutionType)

	if err := firstProblem(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleCitizen
	}
	if in.Role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be self-registered", models.ErrForbidden)
	}

	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Role:       in.Role,
		Phone:      strings.TrimSpace(in.Phone),
		NationalID: strings.TrimSpace(in.NationalID),
		Address:    strings.TrimSpace(in.Address),
		CreatedAt:  s.now().UTC(),
	}

	if in.Role == models.RoleInstitution {
		cats, err := parseCategoryIDs(in.HandledCategories)
		if err != nil {
			return nil, err
		}
		user.Department = in.Department
		user.InstitutionType = in.InstitutionType
		user.HandledCategories = cats
		user.SetApproval(models.ApprovalPending)
	} else {
		user.SetApproval(models.ApprovalApproved)
	}

	existing, err := s.users.FindByEmail(ctx, user.Email)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("user registered")
	return s.issue(user)
}

// Login checks the credentials, the optional expected role and, for
// institutions, the approval state.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, validationError("please provide both email and password")
	}

	invalid := fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return nil, invalid
	}

	if in.Role != "" && user.Role != in.Role {
		return nil, fmt.Errorf("%w: this account is registered as a %s, not as a %s", models.ErrForbidden, user.Role, in.Role)
	}

	if user.Role == models.RoleInstitution && !user.IsApproved {
		if user.ApprovalStatus == models.ApprovalRejected {
			reason := user.RejectionReason
			if reason == "" {
				reason = "not specified"
			}
			return nil, fmt.Errorf("%w: institution account has been rejected, reason: %s", models.ErrForbidden, reason)
		}
		return nil, fmt.Errorf("%w: institution account is pending approval", models.ErrForbidden)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	signed, _, err := s.tokens.Generate(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &AuthResult{Token: signed, User: user}, nil
}

// Me returns the caller's profile, served from the cache when possible.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached models.User
		err := s.cache.Get(ctx, profileKey(id), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WithError(err).Warn("profile cache read failed")
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""

	if s.cache != nil {
		if err := s.cache.Set(ctx, profileKey(id), user, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("profile cache write failed")
		}
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, validationError("name cannot be empty")
		}
		in.Name = &trimmed
	}
	if err := firstProblem(in); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, id, models.UserUpdate{
		Name:       in.Name,
		Phone:      in.Phone,
		NationalID: in.NationalID,
		Address:    in.Address,
	})
	if err != nil {
		return nil, err
	}
	s.forget(ctx, id)
	user.Password = ""
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}
	if len(next) < 6 {
		return validationError("new password must be at least 6 characters")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.ComparePassword(current); err != nil {
		return validationError("current password is incorrect")
	}

	user.Password = next
	if err := user.HashPassword(); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.users.Update(ctx, id, models.UserUpdate{Password: &user.Password})
	return err
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	return s.revoker.Revoke(ctx, claims)
}

// Validate verifies a token for other services and rejects revoked ones.
func (s *AuthService) Validate(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnauthorized, err.Error())
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", models.ErrUnauthorized)
	}
	return claims, nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses its
// email yet. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) (bool, error) {
	email := normalizeEmail(admin.Email)
	if email == "" {
		return false, nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	user := &models.User{
		Name:      strings.TrimSpace(admin.Name),
		Email:     email,
		Password:  admin.Password,
		Role:      models.RoleAdmin,
		CreatedAt: s.now().UTC(),
	}
	user.SetApproval(models.ApprovalApproved)
	if err := user.HashPassword(); err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// forget drops the cached profile of id after a write.
func (s *AuthService) forget(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileKey(id)); err != nil {
		s.log.WithError(err).Warn("profile cache invalidation failed")
	}
}
