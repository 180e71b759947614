package orders

import (
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

// CanCreate gates order creation to admins.
func CanCreate(role enums.UserRole) error {
	if role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may create orders")
	}
	return nil
}

// CanDelete gates order deletion to admins.
func CanDelete(role enums.UserRole) error {
	if role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete orders")
	}
	return nil
}

// FilterUpdate decides per-field update permission for the given role.
// Disallowed fields are silently dropped; the names of dropped fields are
// returned for logging. A permitted set that ends up empty fails NoOp.
func FilterUpdate(role enums.UserRole, input UpdateOrderInput) (UpdateOrderInput, []string, error) {
	var dropped []string

	// completed_at stays derived in normal operation; a direct override is
	// reserved for administrative correction.
	if input.CompletedAt != nil && role != enums.UserRoleAdmin {
		input.CompletedAt = nil
		dropped = append(dropped, "completed_at")
	}

	if isEmptyPatch(input) {
		return input, dropped, pkgerrors.New(pkgerrors.CodeNoOp, "no permitted changes in request")
	}
	return input, dropped, nil
}

func isEmptyPatch(input UpdateOrderInput) bool {
	return input.CustomerName == nil &&
		input.OrderDetails == nil &&
		input.Location == nil &&
		input.PhoneNumber == nil &&
		input.PickupDate == nil &&
		input.ExternalLink == nil &&
		input.ImageURL == nil &&
		input.Status == nil &&
		input.CompletedAt == nil
}
