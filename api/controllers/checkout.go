package controllers

import (
	"net/http"

	"github.com/vendixo/vendixo-backend/api/middleware"
	"github.com/vendixo/vendixo-backend/api/responses"
	"github.com/vendixo/vendixo-backend/api/validators"
	checkoutsvc "github.com/vendixo/vendixo-backend/internal/checkout"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

// CheckoutPreview returns the price breakdown for the session's cart
// without placing anything.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		preview, err := svc.Preview(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

// CheckoutSubmit places the order for the session's cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.SubmitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.UserID == "" {
			payload.UserID = middleware.UserIDFromContext(r.Context())
		}

		order, err := svc.Submit(r.Context(), middleware.SessionIDFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
