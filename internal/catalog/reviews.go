package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
)

// ReviewInput carries one customer review submission.
type ReviewInput struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	ImageURL string `json:"image_url,omitempty"`
}

// ReviewSummary bundles a product's reviews with the aggregate the
// storefront renders next to them.
type ReviewSummary struct {
	Reviews       []models.ProductReview `json:"reviews"`
	AverageRating decimal.Decimal        `json:"average_rating"`
	Count         int                    `json:"count"`
}

// ListReviews returns a product's reviews newest first with the average
// rating rounded to one decimal place.
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID) (*ReviewSummary, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	reviews, err := s.repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	if reviews == nil {
		reviews = []models.ProductReview{}
	}

	average := decimal.Zero
	if len(reviews) > 0 {
		sum := decimal.Zero
		for _, review := range reviews {
			sum = sum.Add(decimal.NewFromInt(int64(review.Rating)))
		}
		average = sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	}

	return &ReviewSummary{Reviews: reviews, AverageRating: average, Count: len(reviews)}, nil
}

// AddReview appends one review to an existing product. The product must
// exist but may be inactive or out of stock; owners of old purchases still
// get to review them.
func (s *service) AddReview(ctx context.Context, productID uuid.UUID, input ReviewInput) (*models.ProductReview, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	userName := strings.TrimSpace(input.UserName)
	if userName == "" {
		userName = "Anonymous User"
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = enums.GuestUserID
	}

	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		ImageURL:  strings.TrimSpace(input.ImageURL),
	}
	created, err := s.repo.InsertReview(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving review")
	}
	return created, nil
}
