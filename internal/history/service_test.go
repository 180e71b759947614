package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

type fakeHistoryRepo struct {
	appended  []AppendInput
	appendErr error

	listRows   []models.HistoryRecord
	listCursor *pagination.Cursor
	listErr    error
	lastParams listHistoryParams
}

func (f *fakeHistoryRepo) Append(_ context.Context, input AppendInput) (*models.HistoryRecord, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.appended = append(f.appended, input)
	record := input.ToModel()
	record.ID = uuid.New()
	record.CreatedAt = time.Now().UTC()
	return record, nil
}

func (f *fakeHistoryRepo) List(_ context.Context, params listHistoryParams) ([]models.HistoryRecord, *pagination.Cursor, error) {
	f.lastParams = params
	return f.listRows, f.listCursor, f.listErr
}

func statusPtr(s enums.OrderStatus) *enums.OrderStatus { return &s }

func TestAppendRequiresOrderID(t *testing.T) {
	svc, err := NewService(&fakeHistoryRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Append(context.Background(), AppendInput{EventType: enums.HistoryEventNote})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestAppendRequiresEventType(t *testing.T) {
	svc, err := NewService(&fakeHistoryRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Append(context.Background(), AppendInput{OrderID: uuid.New()})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestAppendStatusChange(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	actor := uuid.New()
	dto, err := svc.Append(context.Background(), AppendInput{
		OrderID:   uuid.New(),
		ActorID:   &actor,
		EventType: enums.HistoryEventStatusChange,
		OldStatus: statusPtr(enums.OrderStatusPending),
		NewStatus: statusPtr(enums.OrderStatusCompleted),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if dto.EventType != enums.HistoryEventStatusChange {
		t.Fatalf("expected status_change, got %s", dto.EventType)
	}
	if dto.NewStatus == nil || *dto.NewStatus != enums.OrderStatusCompleted {
		t.Fatal("expected new status carried through")
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected one repo write, got %d", len(repo.appended))
	}
}

func TestAppendDependencyError(t *testing.T) {
	svc, err := NewService(&fakeHistoryRepo{appendErr: errors.New("boom")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Append(context.Background(), AppendInput{
		OrderID:   uuid.New(),
		EventType: enums.HistoryEventManual,
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestListPassesFilterThrough(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	orderID := uuid.New()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, err := svc.List(context.Background(), ListParams{
		Filter: ListFilter{OrderID: &orderID, CalendarDay: &day},
		Limit:  10,
	}); err != nil {
		t.Fatalf("list: %v", err)
	}

	if repo.lastParams.Filter.OrderID == nil || *repo.lastParams.Filter.OrderID != orderID {
		t.Fatal("expected order filter passed to repo")
	}
	if repo.lastParams.Filter.CalendarDay == nil || !repo.lastParams.Filter.CalendarDay.Equal(day) {
		t.Fatal("expected calendar day filter passed to repo")
	}
}

func TestListInvalidCursor(t *testing.T) {
	svc, err := NewService(&fakeHistoryRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.List(context.Background(), ListParams{Cursor: "%%%"})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	next := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	svc, err := NewService(&fakeHistoryRepo{listCursor: next})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Cursor == "" {
		t.Fatal("expected encoded next cursor")
	}
}
