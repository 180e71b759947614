package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// HistoryRecord is one append-only entry in the order audit trail.
// Rows are never updated; the repository exposes no mutation path.
type HistoryRecord struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	ActorID   *uuid.UUID             `gorm:"column:actor_id;type:uuid"`
	EventType enums.HistoryEventType `gorm:"column:event_type;type:history_event_type;not null"`
	OldStatus *enums.OrderStatus     `gorm:"column:old_status;type:order_status"`
	NewStatus *enums.OrderStatus     `gorm:"column:new_status;type:order_status"`
	Note      *string                `gorm:"type:text"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()"`
}
