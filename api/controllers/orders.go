package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendixo/vendixo-backend/api/middleware"
	"github.com/vendixo/vendixo-backend/api/responses"
	orderssvc "github.com/vendixo/vendixo-backend/internal/orders"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

// OrdersList returns the caller's order history, newest first.
func OrdersList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		records, err := svc.ListForUser(r.Context(),
			middleware.UserIDFromContext(r.Context()),
			middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ordersListResponse{Orders: records})
	}
}

// OrderGetByNumber returns one order by its customer-facing number. The
// service scopes the lookup to the caller's user or session.
func OrderGetByNumber(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		record, err := svc.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"),
			middleware.UserIDFromContext(r.Context()),
			middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type ordersListResponse struct {
	Orders []orderssvc.OrderDTO `json:"orders"`
}
