package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/internal/history"
	"github.com/marisolvega/cakery-backend/internal/notifications"
	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/logger"
	"github.com/marisolvega/cakery-backend/pkg/metrics"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

// Actor identifies who is performing an order operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// ListResult wraps one page of orders with the total match count.
type ListResult struct {
	Items  []OrderDTO `json:"items"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// Service exposes order operations.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListOrdersFilter) (*ListResult, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]models.Order, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	SaveWithTx(tx *gorm.DB, order *models.Order) error
}

type historyAppender interface {
	AppendWithTx(tx *gorm.DB, input history.AppendInput) (*models.HistoryRecord, error)
}

type adminNotifier interface {
	NotifyAdmins(ctx context.Context, broadcast notifications.AdminBroadcast) error
}

type service struct {
	db       txRunner
	repo     orderRepository
	history  historyAppender
	notifier adminNotifier
	logg     *logger.Logger
	metrics  *metrics.OrderMetrics
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	DB       txRunner
	Repo     orderRepository
	History  historyAppender
	Notifier adminNotifier
	Logger   *logger.Logger
	Metrics  *metrics.OrderMetrics
}

// NewService constructs an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.History == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("admin notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		db:       params.DB,
		repo:     params.Repo,
		history:  params.History,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateOrderInput) (*OrderDTO, error) {
	if err := CanCreate(actor.Role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if strings.TrimSpace(input.OrderDetails) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_details is required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	createdBy := actor.ID
	order := input.ToModel(&createdBy)
	if order.Status == enums.OrderStatusCompleted {
		at := s.now()
		order.CompletedAt = &at
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return FromModel(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListOrdersFilter) (*ListResult, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	filter.Limit = pagination.NormalizeLimit(filter.Limit)
	filter.Offset = pagination.NormalizeOffset(filter.Offset)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	input, dropped, err := FilterUpdate(actor.Role, input)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "dropped_fields", strings.Join(dropped, ",")),
			"dropped disallowed update fields")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	fieldsChanged := applyPatch(order, input)

	var oldStatus enums.OrderStatus
	statusChanged := false
	if input.Status != nil {
		oldStatus = ApplyStatus(order, *input.Status, s.now())
		statusChanged = oldStatus != order.Status
	}

	if input.CompletedAt != nil {
		// Administrative correction path: the override must not break the
		// completed_at/status invariant, so it applies after any status
		// mutation and only while the order remains completed.
		if order.Status != enums.OrderStatusCompleted {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "completed_at may only be set on a completed order")
		}
		at := input.CompletedAt.UTC()
		order.CompletedAt = &at
	}

	actorID := actor.ID
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SaveWithTx(tx, order); err != nil {
			return err
		}
		if statusChanged {
			newStatus := order.Status
			if _, err := s.history.AppendWithTx(tx, history.AppendInput{
				OrderID:   order.ID,
				ActorID:   &actorID,
				EventType: enums.HistoryEventStatusChange,
				OldStatus: &oldStatus,
				NewStatus: &newStatus,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "update order")
	}

	s.fanOut(ctx, actor, order, oldStatus, statusChanged, fieldsChanged)

	return FromModel(order), nil
}

// fanOut runs the best-effort admin notification after the mutation has
// committed. Failures are logged and swallowed; the order update is the
// operation of record.
func (s *service) fanOut(ctx context.Context, actor Actor, order *models.Order, oldStatus enums.OrderStatus, statusChanged, fieldsChanged bool) {
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	switch {
	case statusChanged:
		s.metrics.IncTransition(string(oldStatus), string(order.Status))
		title, message, typ := StatusNotification(order, order.Status)
		orderID := order.ID
		if err := s.notifier.NotifyAdmins(ctx, notifications.AdminBroadcast{
			Title:   title,
			Message: message,
			Type:    typ,
			OrderID: &orderID,
		}); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("status notification fan-out incomplete: %v", err))
		}

	case fieldsChanged && actor.Role == enums.UserRoleAdmin:
		title, message, typ := UpdateNotification(order)
		orderID := order.ID
		if err := s.notifier.NotifyAdmins(ctx, notifications.AdminBroadcast{
			Title:   title,
			Message: message,
			Type:    typ,
			OrderID: &orderID,
		}); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("update notification fan-out incomplete: %v", err))
		}
	}
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := CanDelete(actor.Role); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// applyPatch merges the non-status fields of the patch into the order and
// reports whether any of them were present.
func applyPatch(order *models.Order, input UpdateOrderInput) bool {
	changed := false
	if input.CustomerName != nil {
		order.CustomerName = *input.CustomerName
		changed = true
	}
	if input.OrderDetails != nil {
		order.OrderDetails = *input.OrderDetails
		changed = true
	}
	if input.Location != nil {
		order.Location = cloneString(input.Location)
		changed = true
	}
	if input.PhoneNumber != nil {
		order.PhoneNumber = cloneString(input.PhoneNumber)
		changed = true
	}
	if input.PickupDate != nil {
		at := input.PickupDate.UTC()
		order.PickupDate = &at
		changed = true
	}
	if input.ExternalLink != nil {
		order.ExternalLink = cloneString(input.ExternalLink)
		changed = true
	}
	if input.ImageURL != nil {
		order.ImageURL = cloneString(input.ImageURL)
		changed = true
	}
	return changed
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
