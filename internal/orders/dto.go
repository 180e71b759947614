package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	CustomerName string            `json:"customer_name"`
	OrderDetails string            `json:"order_details"`
	Location     *string           `json:"location,omitempty"`
	PhoneNumber  *string           `json:"phone_number,omitempty"`
	PickupDate   *time.Time        `json:"pickup_date,omitempty"`
	ExternalLink *string           `json:"external_link,omitempty"`
	ImageURL     *string           `json:"image_url,omitempty"`
	Status       enums.OrderStatus `json:"status"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	CreatedBy    *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateOrderInput captures the fields accepted when creating an order.
type CreateOrderInput struct {
	CustomerName string
	OrderDetails string
	Location     *string
	PhoneNumber  *string
	PickupDate   *time.Time
	ExternalLink *string
	ImageURL     *string
	Status       *enums.OrderStatus
}

// UpdateOrderInput is a merge patch: nil fields are left untouched.
// CompletedAt is an administrative override and is policy-gated.
type UpdateOrderInput struct {
	CustomerName *string
	OrderDetails *string
	Location     *string
	PhoneNumber  *string
	PickupDate   *time.Time
	ExternalLink *string
	ImageURL     *string
	Status       *enums.OrderStatus
	CompletedAt  *time.Time
}

// ListOrdersFilter restricts and pages the order listing.
type ListOrdersFilter struct {
	Status *enums.OrderStatus
	Limit  int
	Offset int
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	return &OrderDTO{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		OrderDetails: o.OrderDetails,
		Location:     o.Location,
		PhoneNumber:  o.PhoneNumber,
		PickupDate:   o.PickupDate,
		ExternalLink: o.ExternalLink,
		ImageURL:     o.ImageURL,
		Status:       o.Status,
		CompletedAt:  o.CompletedAt,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (c CreateOrderInput) ToModel(createdBy *uuid.UUID) *models.Order {
	status := enums.OrderStatusIncoming
	if c.Status != nil && c.Status.IsValid() {
		status = *c.Status
	}

	return &models.Order{
		CustomerName: c.CustomerName,
		OrderDetails: c.OrderDetails,
		Location:     c.Location,
		PhoneNumber:  c.PhoneNumber,
		PickupDate:   c.PickupDate,
		ExternalLink: c.ExternalLink,
		ImageURL:     c.ImageURL,
		Status:       status,
		CreatedBy:    createdBy,
	}
}
