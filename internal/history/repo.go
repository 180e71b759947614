package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

// Repository handles history persistence. Records are append-only; no
// update or delete methods exist.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to history operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one history record.
func (r *Repository) Append(ctx context.Context, input AppendInput) (*models.HistoryRecord, error) {
	record := input.ToModel()
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// AppendWithTx inserts one history record using the provided transaction.
func (r *Repository) AppendWithTx(tx *gorm.DB, input AppendInput) (*models.HistoryRecord, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	record := input.ToModel()
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

type listHistoryParams struct {
	Filter ListFilter
	Limit  int
	Cursor *pagination.Cursor
}

// List returns a page of history records, newest first.
func (r *Repository) List(ctx context.Context, params listHistoryParams) ([]models.HistoryRecord, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.HistoryRecord{})
	if params.Filter.OrderID != nil {
		query = query.Where("order_id = ?", *params.Filter.OrderID)
	}
	if params.Filter.CalendarDay != nil {
		dayStart := params.Filter.CalendarDay.UTC().Truncate(24 * time.Hour)
		query = query.Where("created_at >= ? AND created_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var records []models.HistoryRecord
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, nil, err
	}

	if len(records) > normalized {
		next := records[normalized]
		records = records[:normalized]
		return records, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return records, nil, nil
}

// CountByOrder reports how many records exist for the given order.
func (r *Repository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HistoryRecord{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}
