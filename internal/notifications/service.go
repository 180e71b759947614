package notifications

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/metrics"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
	"github.com/marisolvega/cakery-backend/pkg/retry"
)

// Service defines the notification inbox and admin broadcast operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
	Create(ctx context.Context, actorRole enums.UserRole, input CreateNotificationInput) (*models.Notification, error)
	NotifyAdmins(ctx context.Context, broadcast AdminBroadcast) error
}

type adminLister interface {
	ListAdminUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type service struct {
	repo    Repository
	admins  adminLister
	retry   retry.Policy
	metrics *metrics.OrderMetrics
}

// ListParams configures pagination for the per-user inbox.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
	Unread int64                 `json:"unread"`
}

// CreateNotificationInput is an admin-authored notification for a single user.
type CreateNotificationInput struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Type    enums.NotificationType
	OrderID *uuid.UUID
}

// AdminBroadcast is one notification payload fanned out to every admin.
type AdminBroadcast struct {
	Title   string
	Message string
	Type    enums.NotificationType
	OrderID *uuid.UUID
}

// NewService wires notification dependencies.
func NewService(repo Repository, admins adminLister, retryPolicy retry.Policy, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if admins == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin lister required")
	}
	return &service{
		repo:    repo,
		admins:  admins,
		retry:   retryPolicy,
		metrics: orderMetrics,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	unread, err := s.repo.CountUnread(ctx, params.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
		Unread: unread,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}

	affected, err := s.repo.Delete(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// Create persists an admin-authored notification for a single user.
func (s *service) Create(ctx context.Context, actorRole enums.UserRole, input CreateNotificationInput) (*models.Notification, error) {
	if actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may author notifications")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target user id required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message required")
	}
	typ := input.Type
	if !typ.IsValid() {
		typ = enums.NotificationTypeInfo
	}

	notification := &models.Notification{
		UserID:  input.UserID,
		Type:    typ,
		Title:   input.Title,
		Message: input.Message,
		OrderID: input.OrderID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return notification, nil
}

// NotifyAdmins writes one notification per admin profile. Failures are
// aggregated so the caller can log them; partial delivery is acceptable.
func (s *service) NotifyAdmins(ctx context.Context, broadcast AdminBroadcast) error {
	adminIDs, err := s.admins.ListAdminUserIDs(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin profiles")
	}
	if len(adminIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "no admin profiles to notify")
	}

	kind := string(broadcast.Type)
	var errs error
	for _, adminID := range adminIDs {
		notification := &models.Notification{
			UserID:  adminID,
			Type:    broadcast.Type,
			Title:   broadcast.Title,
			Message: broadcast.Message,
			OrderID: broadcast.OrderID,
		}
		writeErr := retry.Do(ctx, s.retry, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, notification); err != nil {
				return retry.Transient(err)
			}
			return nil
		})
		if writeErr != nil {
			s.metrics.IncFanoutFailed(kind)
			errs = multierr.Append(errs, writeErr)
			continue
		}
		s.metrics.IncFanoutDelivered(kind)
	}
	return errs
}
