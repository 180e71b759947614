package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

type identityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes identity lookups used outside the auth flow.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*IdentityDTO, error)
	LookupEmail(ctx context.Context, id uuid.UUID) (string, error)
}

type service struct {
	repo identityRepository
}

// NewService builds an identity service with the provided repository.
func NewService(repo identityRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*IdentityDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) LookupEmail(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
