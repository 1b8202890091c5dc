package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/api/middleware"
	"github.com/vendixo/vendixo-backend/api/responses"
	"github.com/vendixo/vendixo-backend/api/validators"
	wishlistsvc "github.com/vendixo/vendixo-backend/internal/wishlist"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

// WishlistGet returns the session's wishlist entries.
func WishlistGet(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		entries, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Items: entries})
	}
}

// WishlistToggle adds the product if absent, removes it if present.
func WishlistToggle(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload toggleWishlistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, added, err := svc.Toggle(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toEntry())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistToggleResponse{Items: entries, Added: added})
	}
}

// WishlistClear empties the session's wishlist.
func WishlistClear(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Items: []wishlistsvc.Entry{}})
	}
}

type wishlistResponse struct {
	Items []wishlistsvc.Entry `json:"items"`
}

type wishlistToggleResponse struct {
	Items []wishlistsvc.Entry `json:"items"`
	Added bool                `json:"added"`
}

type toggleWishlistRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url,omitempty"`
}

func (r toggleWishlistRequest) toEntry() wishlistsvc.Entry {
	return wishlistsvc.Entry{
		ProductID: r.ProductID,
		Title:     r.Title,
		UnitPrice: r.UnitPrice,
		Category:  enums.ProductCategory(r.Category),
		ImageURL:  r.ImageURL,
	}
}
