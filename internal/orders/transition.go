package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
)

const detailsSnippetLen = 80

// ApplyStatus moves the order to next and derives completed_at in the same
// mutation: set on entering completed, cleared on every other status. Any
// status may transition to any other; valid-transition business rules live
// outside this layer. Returns the prior status.
func ApplyStatus(order *models.Order, next enums.OrderStatus, now time.Time) enums.OrderStatus {
	old := order.Status
	order.Status = next

	switch {
	case next == enums.OrderStatusCompleted && old != enums.OrderStatusCompleted:
		at := now.UTC()
		order.CompletedAt = &at
	case next != enums.OrderStatusCompleted:
		order.CompletedAt = nil
	}

	return old
}

// StatusNotification builds the admin fan-out payload for a status change.
func StatusNotification(order *models.Order, next enums.OrderStatus) (title, message string, typ enums.NotificationType) {
	title = fmt.Sprintf("Order %s", strings.ToUpper(string(next)))
	message = fmt.Sprintf("Order for %s is now %s: %s",
		order.CustomerName, next, detailsSnippet(order.OrderDetails))

	switch next {
	case enums.OrderStatusCompleted:
		typ = enums.NotificationTypeSuccess
	case enums.OrderStatusDeclined:
		typ = enums.NotificationTypeWarning
	default:
		typ = enums.NotificationTypeOrder
	}
	return title, message, typ
}

// UpdateNotification builds the generic fan-out payload for an admin's
// non-status field update.
func UpdateNotification(order *models.Order) (title, message string, typ enums.NotificationType) {
	title = "Order Updated"
	message = fmt.Sprintf("Order for %s was updated: %s",
		order.CustomerName, detailsSnippet(order.OrderDetails))
	return title, message, enums.NotificationTypeInfo
}

func detailsSnippet(details string) string {
	details = strings.TrimSpace(details)
	runes := []rune(details)
	if len(runes) <= detailsSnippetLen {
		return details
	}
	return string(runes[:detailsSnippetLen]) + "..."
}
