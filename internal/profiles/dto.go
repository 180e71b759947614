package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// ProfileDTO is the transport shape for a user profile.
type ProfileDTO struct {
	UserID    uuid.UUID      `json:"user_id"`
	Username  string         `json:"username"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateProfileDTO holds the data required to persist a new profile row.
type CreateProfileDTO struct {
	UserID   uuid.UUID
	Username string
	Role     enums.UserRole
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		UserID:    p.UserID,
		Username:  p.Username,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleViewer
	}

	return &models.Profile{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     role,
	}
}
