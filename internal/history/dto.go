package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
)

// HistoryDTO is the transport shape for one audit trail entry.
type HistoryDTO struct {
	ID        uuid.UUID              `json:"id"`
	OrderID   uuid.UUID              `json:"order_id"`
	ActorID   *uuid.UUID             `json:"actor_id,omitempty"`
	EventType enums.HistoryEventType `json:"event_type"`
	OldStatus *enums.OrderStatus     `json:"old_status,omitempty"`
	NewStatus *enums.OrderStatus     `json:"new_status,omitempty"`
	Note      *string                `json:"note,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// AppendInput carries the fields for one new history record.
type AppendInput struct {
	OrderID   uuid.UUID
	ActorID   *uuid.UUID
	EventType enums.HistoryEventType
	OldStatus *enums.OrderStatus
	NewStatus *enums.OrderStatus
	Note      *string
}

// ListFilter restricts the history listing. CalendarDay matches records
// created on that UTC day regardless of order.
type ListFilter struct {
	OrderID     *uuid.UUID
	CalendarDay *time.Time
}

func FromModel(r *models.HistoryRecord) *HistoryDTO {
	if r == nil {
		return nil
	}

	return &HistoryDTO{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ActorID:   r.ActorID,
		EventType: r.EventType,
		OldStatus: r.OldStatus,
		NewStatus: r.NewStatus,
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
	}
}

func (a AppendInput) ToModel() *models.HistoryRecord {
	return &models.HistoryRecord{
		OrderID:   a.OrderID,
		ActorID:   a.ActorID,
		EventType: a.EventType,
		OldStatus: a.OldStatus,
		NewStatus: a.NewStatus,
		Note:      a.Note,
	}
}
