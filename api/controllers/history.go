package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marisolvega/cakery-backend/api/responses"
	"github.com/marisolvega/cakery-backend/api/validators"
	"github.com/marisolvega/cakery-backend/internal/history"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
	"github.com/marisolvega/cakery-backend/pkg/logger"
	"github.com/marisolvega/cakery-backend/pkg/pagination"
)

type appendNoteRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// ListHistory handles GET /history with optional order and calendar-day filters.
func ListHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := history.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			day, parseErr := time.Parse("2006-01-02", raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD"))
				return
			}
			params.Filter.CalendarDay = &day
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AppendOrderNote handles POST /orders/{orderId}/history: a free-form note
// pinned to the order's audit trail, attributed to the caller.
func AppendOrderNote(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appendNoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note := strings.TrimSpace(body.Note)
		if note == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "note must not be blank"))
			return
		}

		actorID := actor.ID
		record, err := svc.Append(r.Context(), history.AppendInput{
			OrderID:   orderID,
			ActorID:   &actorID,
			EventType: enums.HistoryEventNote,
			Note:      &note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// ListOrderHistory handles GET /orders/{orderId}/history.
func ListOrderHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := history.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		params.Filter.OrderID = &orderID

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
