package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/internal/history"
	"github.com/marisolvega/cakery-backend/internal/notifications"
	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/logger"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(&gorm.DB{})
}

type fakeOrderRepo struct {
	order   *models.Order
	findErr error

	created   *models.Order
	createErr error

	saved   *models.Order
	saveErr error

	listRows  []models.Order
	listTotal int64
	listErr   error

	deletedN  int64
	deleteErr error
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Order, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.order, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ ListOrdersFilter) ([]models.Order, int64, error) {
	return f.listRows, f.listTotal, f.listErr
}

func (f *fakeOrderRepo) Delete(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.deletedN, f.deleteErr
}

func (f *fakeOrderRepo) SaveWithTx(_ *gorm.DB, order *models.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = order
	return nil
}

type fakeHistoryAppender struct {
	appended []history.AppendInput
	err      error
}

func (f *fakeHistoryAppender) AppendWithTx(_ *gorm.DB, input history.AppendInput) (*models.HistoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.appended = append(f.appended, input)
	return input.ToModel(), nil
}

type fakeNotifier struct {
	broadcasts []notifications.AdminBroadcast
	err        error
}

func (f *fakeNotifier) NotifyAdmins(_ context.Context, b notifications.AdminBroadcast) error {
	f.broadcasts = append(f.broadcasts, b)
	return f.err
}

type serviceFixture struct {
	svc      Service
	repo     *fakeOrderRepo
	history  *fakeHistoryAppender
	notifier *fakeNotifier
}

func newServiceFixture(t *testing.T, repo *fakeOrderRepo) *serviceFixture {
	t.Helper()
	appender := &fakeHistoryAppender{}
	notifier := &fakeNotifier{}
	svc, err := NewService(ServiceParams{
		DB:       fakeTxRunner{},
		Repo:     repo,
		History:  appender,
		Notifier: notifier,
		Logger:   logger.New(logger.Options{ServiceName: "orders-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &serviceFixture{svc: svc, repo: repo, history: appender, notifier: notifier}
}

func adminActor() Actor  { return Actor{ID: uuid.New(), Role: enums.UserRoleAdmin} }
func viewerActor() Actor { return Actor{ID: uuid.New(), Role: enums.UserRoleViewer} }

func persistedOrder(status enums.OrderStatus) *models.Order {
	order := baseOrder(status)
	order.ID = uuid.New()
	if status == enums.OrderStatusCompleted {
		at := time.Now().UTC().Add(-time.Hour)
		order.CompletedAt = &at
	}
	return order
}

func TestCreateViewerForbidden(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{})

	_, err := f.svc.Create(context.Background(), viewerActor(), CreateOrderInput{
		CustomerName: "Dana",
		OrderDetails: "sheet cake",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateAdminDefaultsToIncoming(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{})
	actor := adminActor()

	dto, err := f.svc.Create(context.Background(), actor, CreateOrderInput{
		CustomerName: "Dana",
		OrderDetails: "sheet cake",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.OrderStatusIncoming {
		t.Fatalf("expected incoming default, got %s", dto.Status)
	}
	if dto.CreatedBy == nil || *dto.CreatedBy != actor.ID {
		t.Fatal("expected created_by set to the acting admin")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{})

	_, err := f.svc.Create(context.Background(), adminActor(), CreateOrderInput{
		CustomerName: "   ",
		OrderDetails: "sheet cake",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateWithCompletedStatusSetsCompletedAt(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{})
	status := enums.OrderStatusCompleted

	dto, err := f.svc.Create(context.Background(), adminActor(), CreateOrderInput{
		CustomerName: "Dana",
		OrderDetails: "wedding cake",
		Status:       &status,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.CompletedAt == nil {
		t.Fatal("expected completed_at derived for completed status")
	}
}

func TestGetNotFound(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{findErr: gorm.ErrRecordNotFound})

	_, err := f.svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusChangeFansOutAndRecordsHistory(t *testing.T) {
	order := persistedOrder(enums.OrderStatusPending)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	actor := adminActor()
	status := enums.OrderStatusCompleted

	dto, err := f.svc.Update(context.Background(), actor, order.ID, UpdateOrderInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if dto.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", dto.Status)
	}
	if dto.CompletedAt == nil {
		t.Fatal("expected completed_at set")
	}

	if len(f.notifier.broadcasts) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(f.notifier.broadcasts))
	}
	b := f.notifier.broadcasts[0]
	if b.Type != enums.NotificationTypeSuccess {
		t.Fatalf("expected success notification, got %s", b.Type)
	}
	if b.OrderID == nil || *b.OrderID != order.ID {
		t.Fatal("expected order reference on broadcast")
	}

	if len(f.history.appended) != 1 {
		t.Fatalf("expected one history record, got %d", len(f.history.appended))
	}
	h := f.history.appended[0]
	if h.EventType != enums.HistoryEventStatusChange {
		t.Fatalf("expected status_change event, got %s", h.EventType)
	}
	if h.OldStatus == nil || *h.OldStatus != enums.OrderStatusPending {
		t.Fatal("expected old status pending in history")
	}
	if h.ActorID == nil || *h.ActorID != actor.ID {
		t.Fatal("expected actor recorded in history")
	}
}

func TestUpdateLeavingCompletedClearsAndNotifiesOrderType(t *testing.T) {
	order := persistedOrder(enums.OrderStatusCompleted)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	status := enums.OrderStatusPending

	dto, err := f.svc.Update(context.Background(), viewerActor(), order.ID, UpdateOrderInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.CompletedAt != nil {
		t.Fatal("expected completed_at cleared")
	}
	if len(f.notifier.broadcasts) != 1 || f.notifier.broadcasts[0].Type != enums.NotificationTypeOrder {
		t.Fatalf("expected one order-typed broadcast, got %+v", f.notifier.broadcasts)
	}
}

func TestUpdateSameStatusNoNotification(t *testing.T) {
	order := persistedOrder(enums.OrderStatusPending)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	status := enums.OrderStatusPending

	if _, err := f.svc.Update(context.Background(), viewerActor(), order.ID, UpdateOrderInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.notifier.broadcasts) != 0 {
		t.Fatalf("expected no broadcast on same-status rewrite, got %d", len(f.notifier.broadcasts))
	}
	if len(f.history.appended) != 0 {
		t.Fatalf("expected no history on same-status rewrite, got %d", len(f.history.appended))
	}
}

func TestUpdateNonStatusFieldByAdminSendsGenericFanOut(t *testing.T) {
	order := persistedOrder(enums.OrderStatusIncoming)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	name := "Priya"

	if _, err := f.svc.Update(context.Background(), adminActor(), order.ID, UpdateOrderInput{CustomerName: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.notifier.broadcasts) != 1 || f.notifier.broadcasts[0].Title != "Order Updated" {
		t.Fatalf("expected generic broadcast, got %+v", f.notifier.broadcasts)
	}
}

func TestUpdateNonStatusFieldByViewerNoFanOut(t *testing.T) {
	order := persistedOrder(enums.OrderStatusIncoming)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	name := "Priya"

	if _, err := f.svc.Update(context.Background(), viewerActor(), order.ID, UpdateOrderInput{CustomerName: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.notifier.broadcasts) != 0 {
		t.Fatalf("expected no broadcast for viewer field update, got %d", len(f.notifier.broadcasts))
	}
}

func TestUpdateFanOutFailureDoesNotFailUpdate(t *testing.T) {
	order := persistedOrder(enums.OrderStatusIncoming)
	repo := &fakeOrderRepo{order: order}
	appender := &fakeHistoryAppender{}
	notifier := &fakeNotifier{err: errors.New("no admin profiles to notify")}
	svc, err := NewService(ServiceParams{
		DB:       fakeTxRunner{},
		Repo:     repo,
		History:  appender,
		Notifier: notifier,
		Logger:   logger.New(logger.Options{ServiceName: "orders-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	status := enums.OrderStatusAccepted
	if _, err := svc.Update(context.Background(), viewerActor(), order.ID, UpdateOrderInput{Status: &status}); err != nil {
		t.Fatalf("expected update to succeed despite fan-out failure, got %v", err)
	}
}

func TestUpdateViewerCompletedAtOnlyIsNoOp(t *testing.T) {
	order := persistedOrder(enums.OrderStatusCompleted)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	at := time.Now().UTC()

	_, err := f.svc.Update(context.Background(), viewerActor(), order.ID, UpdateOrderInput{CompletedAt: &at})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNoOp {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestUpdateAdminCompletedAtOverride(t *testing.T) {
	order := persistedOrder(enums.OrderStatusCompleted)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	dto, err := f.svc.Update(context.Background(), adminActor(), order.ID, UpdateOrderInput{CompletedAt: &at})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.CompletedAt == nil || !dto.CompletedAt.Equal(at) {
		t.Fatalf("expected override applied, got %v", dto.CompletedAt)
	}
}

func TestUpdateAdminCompletedAtOnNonCompletedOrderRejected(t *testing.T) {
	order := persistedOrder(enums.OrderStatusPending)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	at := time.Now().UTC()

	_, err := f.svc.Update(context.Background(), adminActor(), order.ID, UpdateOrderInput{CompletedAt: &at})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateCompletedAtOverrideWithCompletingStatus(t *testing.T) {
	order := persistedOrder(enums.OrderStatusPending)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	status := enums.OrderStatusCompleted
	at := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)

	dto, err := f.svc.Update(context.Background(), adminActor(), order.ID, UpdateOrderInput{Status: &status, CompletedAt: &at})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed status, got %s", dto.Status)
	}
	if dto.CompletedAt == nil || !dto.CompletedAt.Equal(at) {
		t.Fatalf("expected explicit completed_at %v, got %v", at, dto.CompletedAt)
	}
}

func TestUpdateCompletedAtWithStatusLeavingCompletedRejected(t *testing.T) {
	order := persistedOrder(enums.OrderStatusCompleted)
	f := newServiceFixture(t, &fakeOrderRepo{order: order})
	status := enums.OrderStatusPending
	at := time.Now().UTC()

	_, err := f.svc.Update(context.Background(), adminActor(), order.ID, UpdateOrderInput{Status: &status, CompletedAt: &at})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{findErr: gorm.ErrRecordNotFound})
	name := "Priya"

	_, err := f.svc.Update(context.Background(), adminActor(), uuid.New(), UpdateOrderInput{CustomerName: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteViewerForbidden(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{deletedN: 1})

	err := f.svc.Delete(context.Background(), viewerActor(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteAbsentOrderNotFound(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{deletedN: 0})

	err := f.svc.Delete(context.Background(), adminActor(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListInvalidStatusFilter(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{})
	bad := enums.OrderStatus("shipped")

	_, err := f.svc.List(context.Background(), ListOrdersFilter{Status: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListNormalizesPagination(t *testing.T) {
	f := newServiceFixture(t, &fakeOrderRepo{listRows: []models.Order{}, listTotal: 0})

	result, err := f.svc.List(context.Background(), ListOrdersFilter{Limit: -5, Offset: -2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Limit <= 0 || result.Offset != 0 {
		t.Fatalf("expected normalized pagination, got limit=%d offset=%d", result.Limit, result.Offset)
	}
}
