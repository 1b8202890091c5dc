package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	"github.com/vendixo/vendixo-backend/pkg/types"
)

// OrderDTO is the API-facing order shape.
type OrderDTO struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	UserID           string              `json:"user_id"`
	CustomerName     string              `json:"customer_name"`
	Email            string              `json:"email"`
	Address          types.Address       `json:"address"`
	Items            []models.OrderItem  `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	ShippingFee      decimal.Decimal     `json:"shipping_fee"`
	CODFee           decimal.Decimal     `json:"cod_fee"`
	Discount         decimal.Decimal     `json:"discount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	AppliedCoupon    *string             `json:"applied_coupon,omitempty"`
	PaymentMethod    enums.PaymentMethod `json:"payment_method"`
	Status           enums.OrderStatus   `json:"status"`
	ExpectedDelivery *time.Time          `json:"expected_delivery,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toOrderDTO(order models.Order) OrderDTO {
	return OrderDTO{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		CustomerName:     order.CustomerName,
		Email:            order.Email,
		Address:          order.Address,
		Items:            order.Items,
		Subtotal:         order.Subtotal,
		ShippingFee:      order.ShippingFee,
		CODFee:           order.CODFee,
		Discount:         order.Discount,
		TotalAmount:      order.TotalAmount,
		AppliedCoupon:    order.AppliedCoupon,
		PaymentMethod:    order.PaymentMethod,
		Status:           order.Status,
		ExpectedDelivery: order.ExpectedDelivery,
		CreatedAt:        order.CreatedAt,
	}
}

func toOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderDTO(row))
	}
	return out
}
