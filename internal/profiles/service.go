package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/pkg/db"
	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 40
)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
}

// Service exposes profile operations.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	ResolveRole(ctx context.Context, userID uuid.UUID) (enums.UserRole, error)
	UpdateUsername(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID, username string) (*ProfileDTO, error)
	UpdateRole(ctx context.Context, actorRole enums.UserRole, targetID uuid.UUID, role enums.UserRole) (*ProfileDTO, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a profile service with the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

// ResolveRole returns the profile role for the given user. A missing profile
// row degrades to viewer rather than failing resolution.
func (s *service) ResolveRole(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return enums.UserRoleViewer, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve role")
	}
	if !profile.Role.IsValid() {
		return enums.UserRoleViewer, nil
	}
	return profile.Role, nil
}

func (s *service) UpdateUsername(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID, username string) (*ProfileDTO, error) {
	if actorID != targetID && actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another user's profile")
	}

	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("username must be %d-%d characters", minUsernameLen, maxUsernameLen))
	}

	if _, err := s.repo.FindByUserID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if err := s.repo.UpdateUsername(ctx, targetID, username); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update username")
	}

	return s.GetByUserID(ctx, targetID)
}

// UpdateRole applies the role mutation policy: only admins may change roles,
// and an admin may change any profile's role, their own included.
func (s *service) UpdateRole(ctx context.Context, actorRole enums.UserRole, targetID uuid.UUID, role enums.UserRole) (*ProfileDTO, error) {
	if actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may change roles")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.repo.FindByUserID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}

	return s.GetByUserID(ctx, targetID)
}
