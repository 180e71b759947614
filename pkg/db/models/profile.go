package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// Profile is the per-identity projection carrying username and role.
// The row lifetime is tied to the backing user (ON DELETE CASCADE).
type Profile struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Username  string         `gorm:"type:text;not null;uniqueIndex"`
	Role      enums.UserRole `gorm:"type:user_role;not null;default:'viewer'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
