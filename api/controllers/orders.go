package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marisolvega/cakery-backend/api/responses"
	"github.com/marisolvega/cakery-backend/api/validators"
	"github.com/marisolvega/cakery-backend/internal/orders"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	"github.com/marisolvega/cakery-backend/pkg/logger"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

type createOrderRequest struct {
	CustomerName string     `json:"customer_name" validate:"required,max=200"`
	OrderDetails string     `json:"order_details" validate:"required"`
	Location     *string    `json:"location,omitempty"`
	PhoneNumber  *string    `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	ExternalLink *string    `json:"external_link,omitempty" validate:"omitempty,url"`
	ImageURL     *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=incoming accepted declined pending completed"`
}

type updateOrderRequest struct {
	CustomerName *string    `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	OrderDetails *string    `json:"order_details,omitempty"`
	Location     *string    `json:"location,omitempty"`
	PhoneNumber  *string    `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	ExternalLink *string    `json:"external_link,omitempty" validate:"omitempty,url"`
	ImageURL     *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=incoming accepted declined pending completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CreateOrder handles POST /orders. Creation is admin-only; the policy check
// lives in the service so the rule holds for every caller.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			CustomerName: body.CustomerName,
			OrderDetails: body.OrderDetails,
			Location:     body.Location,
			PhoneNumber:  body.PhoneNumber,
			PickupDate:   body.PickupDate,
			ExternalLink: body.ExternalLink,
			ImageURL:     body.ImageURL,
			Status:       statusFromString(body.Status),
		}

		order, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders handles GET /orders with optional status filter and offset paging.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := orders.ListOrdersFilter{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			filter.Status = &status
		}

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetOrder handles GET /orders/{orderId}.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// UpdateOrder handles PATCH /orders/{orderId} as a merge patch.
func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateOrderInput{
			CustomerName: body.CustomerName,
			OrderDetails: body.OrderDetails,
			Location:     body.Location,
			PhoneNumber:  body.PhoneNumber,
			PickupDate:   body.PickupDate,
			ExternalLink: body.ExternalLink,
			ImageURL:     body.ImageURL,
			Status:       statusFromString(body.Status),
			CompletedAt:  body.CompletedAt,
		}

		order, err := svc.Update(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// DeleteOrder handles DELETE /orders/{orderId}. Admin-only.
func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func statusFromString(raw *string) *enums.OrderStatus {
	if raw == nil {
		return nil
	}
	status := enums.OrderStatus(strings.ToLower(strings.TrimSpace(*raw)))
	return &status
}
