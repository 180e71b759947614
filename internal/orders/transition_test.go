package orders

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
)

func baseOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		CustomerName: "Dana",
		OrderDetails: "two-tier chocolate with raspberry filling",
		Status:       status,
	}
}

func TestApplyStatusEnteringCompletedSetsTimestamp(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	old := ApplyStatus(order, enums.OrderStatusCompleted, now)

	if old != enums.OrderStatusPending {
		t.Fatalf("expected old status pending, got %s", old)
	}
	if order.CompletedAt == nil || !order.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at=%s, got %v", now, order.CompletedAt)
	}
}

func TestApplyStatusLeavingCompletedClearsTimestamp(t *testing.T) {
	at := time.Now().UTC()
	order := baseOrder(enums.OrderStatusCompleted)
	order.CompletedAt = &at

	ApplyStatus(order, enums.OrderStatusPending, time.Now().UTC())

	if order.CompletedAt != nil {
		t.Fatal("expected completed_at cleared on leaving completed")
	}
}

func TestApplyStatusCompletedToCompletedKeepsTimestamp(t *testing.T) {
	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	order := baseOrder(enums.OrderStatusCompleted)
	order.CompletedAt = &at

	ApplyStatus(order, enums.OrderStatusCompleted, time.Now().UTC())

	if order.CompletedAt == nil || !order.CompletedAt.Equal(at) {
		t.Fatal("expected original completed_at preserved on no-op rewrite")
	}
}

func TestApplyStatusInvariantHoldsForAllTargets(t *testing.T) {
	targets := []enums.OrderStatus{
		enums.OrderStatusIncoming,
		enums.OrderStatusAccepted,
		enums.OrderStatusDeclined,
		enums.OrderStatusPending,
		enums.OrderStatusCompleted,
	}
	for _, from := range targets {
		for _, to := range targets {
			order := baseOrder(from)
			if from == enums.OrderStatusCompleted {
				at := time.Now().UTC()
				order.CompletedAt = &at
			}
			ApplyStatus(order, to, time.Now().UTC())

			isCompleted := order.Status == enums.OrderStatusCompleted
			hasTimestamp := order.CompletedAt != nil
			if isCompleted != hasTimestamp {
				t.Fatalf("invariant broken for %s -> %s: completed=%v timestamp=%v",
					from, to, isCompleted, hasTimestamp)
			}
		}
	}
}

func TestStatusNotificationTypes(t *testing.T) {
	cases := []struct {
		next enums.OrderStatus
		typ  enums.NotificationType
	}{
		{enums.OrderStatusCompleted, enums.NotificationTypeSuccess},
		{enums.OrderStatusDeclined, enums.NotificationTypeWarning},
		{enums.OrderStatusAccepted, enums.NotificationTypeOrder},
		{enums.OrderStatusPending, enums.NotificationTypeOrder},
		{enums.OrderStatusIncoming, enums.NotificationTypeOrder},
	}

	for _, tc := range cases {
		_, _, typ := StatusNotification(baseOrder(enums.OrderStatusIncoming), tc.next)
		if typ != tc.typ {
			t.Fatalf("status %s: expected type %s, got %s", tc.next, tc.typ, typ)
		}
	}
}

func TestStatusNotificationTitleCarriesUppercasedStatus(t *testing.T) {
	title, message, _ := StatusNotification(baseOrder(enums.OrderStatusIncoming), enums.OrderStatusDeclined)

	if !strings.Contains(title, "DECLINED") {
		t.Fatalf("expected upper-cased status in title, got %q", title)
	}
	if !strings.Contains(message, "Dana") {
		t.Fatalf("expected customer name in message, got %q", message)
	}
	if !strings.Contains(message, "two-tier chocolate") {
		t.Fatalf("expected order details in message, got %q", message)
	}
}

func TestUpdateNotificationIsGeneric(t *testing.T) {
	title, message, typ := UpdateNotification(baseOrder(enums.OrderStatusAccepted))

	if title != "Order Updated" {
		t.Fatalf("expected generic title, got %q", title)
	}
	if typ != enums.NotificationTypeInfo {
		t.Fatalf("expected info type, got %s", typ)
	}
	if !strings.Contains(message, "Dana") {
		t.Fatalf("expected customer name in message, got %q", message)
	}
}

func TestDetailsSnippetTruncatesLongDetails(t *testing.T) {
	order := baseOrder(enums.OrderStatusIncoming)
	order.OrderDetails = strings.Repeat("cake ", 100)

	_, message, _ := StatusNotification(order, enums.OrderStatusAccepted)
	if !strings.Contains(message, "...") {
		t.Fatalf("expected truncated details, got %q", message)
	}
}

func TestDetailsSnippetTruncatesOnRuneBoundary(t *testing.T) {
	order := baseOrder(enums.OrderStatusIncoming)
	order.OrderDetails = strings.Repeat("é", 200)

	_, message, _ := StatusNotification(order, enums.OrderStatusAccepted)
	if !utf8.ValidString(message) {
		t.Fatalf("expected valid utf-8 message, got %q", message)
	}
	if got := strings.Count(message, "é"); got != detailsSnippetLen {
		t.Fatalf("expected %d runes kept, got %d", detailsSnippetLen, got)
	}
}
