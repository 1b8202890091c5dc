package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vendixo/vendixo-backend/api/responses"
	"github.com/vendixo/vendixo-backend/api/validators"
	orderssvc "github.com/vendixo/vendixo-backend/internal/orders"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

// AdminOrdersList returns all orders, optionally filtered by status or
// customer email.
func AdminOrdersList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters := orderssvc.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !enums.ValidOrderStatus(status) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("email")); raw != "" {
			email := strings.ToLower(raw)
			filters.Email = &email
		}

		records, err := svc.ListAdmin(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ordersListResponse{Orders: records})
	}
}

// AdminOrderUpdateStatus transitions an order through its lifecycle.
func AdminOrderUpdateStatus(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateStatus(r.Context(), orderssvc.UpdateStatusInput{
			OrderID: orderID,
			Status:  enums.OrderStatus(payload.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminOrderSetExpectedDelivery records or clears the delivery estimate.
func AdminOrderSetExpectedDelivery(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload setExpectedDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var expected *time.Time
		if payload.ExpectedDelivery != nil && *payload.ExpectedDelivery != "" {
			parsed, parseErr := time.Parse(time.RFC3339, *payload.ExpectedDelivery)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid expected delivery timestamp"))
				return
			}
			expected = &parsed
		}

		record, err := svc.SetExpectedDelivery(r.Context(), orderID, expected)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type setExpectedDeliveryRequest struct {
	ExpectedDelivery *string `json:"expected_delivery"`
}
