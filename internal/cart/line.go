package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/internal/pricing"
	"github.com/vendixo/vendixo-backend/pkg/enums"
)

// Line is one cart entry. At most one line exists per product id; repeated
// adds merge into the existing line by incrementing quantity.
type Line struct {
	ProductID string                `json:"product_id"`
	Title     string                `json:"title"`
	UnitPrice decimal.Decimal       `json:"unit_price"`
	Quantity  int                   `json:"quantity"`
	Category  enums.ProductCategory `json:"category"`
	Size      *string               `json:"size,omitempty"`
	ImageURL  string                `json:"image_url,omitempty"`
}

// PricingLines projects cart lines into the calculator's input shape.
func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	return out
}
