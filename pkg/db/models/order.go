package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// Order is the canonical record of a cake order and its lifecycle.
// CompletedAt is derived: non-null exactly while Status is completed.
type Order struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName string            `gorm:"column:customer_name;type:text;not null"`
	OrderDetails string            `gorm:"column:order_details;type:text;not null"`
	Location     *string           `gorm:"type:text"`
	PhoneNumber  *string           `gorm:"column:phone_number;type:text"`
	PickupDate   *time.Time        `gorm:"column:pickup_date;type:timestamptz"`
	ExternalLink *string           `gorm:"column:external_link;type:text"`
	ImageURL     *string           `gorm:"column:image_url;type:text"`
	Status       enums.OrderStatus `gorm:"type:order_status;not null;default:'incoming'"`
	CompletedAt  *time.Time        `gorm:"column:completed_at;type:timestamptz"`
	CreatedBy    *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
