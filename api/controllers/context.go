package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/marisolvega/cakery-backend/api/middleware"
	"github.com/marisolvega/cakery-backend/internal/orders"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

// actorFromRequest reads the authenticated identity the auth middleware left
// on the request context.
func actorFromRequest(r *http.Request) (orders.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role := enums.UserRole(middleware.RoleFromContext(r.Context()))
	if !role.IsValid() {
		role = enums.UserRoleViewer
	}
	return orders.Actor{ID: userID, Role: role}, nil
}

func pathUUID(r *http.Request, param string, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+param).WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
