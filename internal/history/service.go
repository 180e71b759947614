package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

// Service defines the append and list operations over the audit trail.
// The public contract carries no update or delete.
type Service interface {
	Append(ctx context.Context, input AppendInput) (*HistoryDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type historyRepository interface {
	Append(ctx context.Context, input AppendInput) (*models.HistoryRecord, error)
	List(ctx context.Context, params listHistoryParams) ([]models.HistoryRecord, *pagination.Cursor, error)
}

type service struct {
	repo historyRepository
}

// ListParams configures the history listing.
type ListParams struct {
	Filter ListFilter
	Limit  int
	Cursor string
}

// ListResult wraps returned records and the cursor for the next page.
type ListResult struct {
	Items  []HistoryDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

// NewService wires history dependencies.
func NewService(repo historyRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "history repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, input AppendInput) (*HistoryDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event type required")
	}

	record, err := s.repo.Append(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history record")
	}
	return FromModel(record), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listHistoryParams{
		Filter: params.Filter,
		Limit:  params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list history records")
	}

	items := make([]HistoryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: items, Cursor: cursor}, nil
}
