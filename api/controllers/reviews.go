package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/api/middleware"
	"github.com/vendixo/vendixo-backend/api/responses"
	"github.com/vendixo/vendixo-backend/api/validators"
	catalogsvc "github.com/vendixo/vendixo-backend/internal/catalog"
	"github.com/vendixo/vendixo-backend/pkg/db/models"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

type reviewRequest struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	ImageURL string `json:"image_url"`
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type reviewsListResponse struct {
	Reviews       []reviewResponse `json:"reviews"`
	AverageRating decimal.Decimal  `json:"average_rating"`
	Count         int              `json:"count"`
}

func newReviewResponse(review *models.ProductReview) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		ImageURL:  review.ImageURL,
		CreatedAt: review.CreatedAt,
	}
}

// ReviewsList returns a product's reviews with the aggregate rating.
func ReviewsList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		summary, err := svc.ListReviews(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]reviewResponse, len(summary.Reviews))
		for i := range summary.Reviews {
			out[i] = newReviewResponse(&summary.Reviews[i])
		}
		responses.WriteSuccess(w, reviewsListResponse{
			Reviews:       out,
			AverageRating: summary.AverageRating,
			Count:         summary.Count,
		})
	}
}

// ReviewAdd records a customer review. Guests may post; the display name
// falls back to an anonymous label when omitted.
func ReviewAdd(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload reviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.AddReview(r.Context(), id, catalogsvc.ReviewInput{
			UserID:   middleware.UserIDFromContext(r.Context()),
			UserName: payload.UserName,
			Rating:   payload.Rating,
			Comment:  payload.Comment,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReviewResponse(created))
	}
}
