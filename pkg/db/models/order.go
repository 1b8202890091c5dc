package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/enums"
	"github.com/vendixo/vendixo-backend/pkg/types"
)

// Order is the durable record of a placed checkout. Items is an immutable
// snapshot of the cart at submission time; later cart edits never touch it.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID           string              `gorm:"column:user_id;not null;default:'guest';index:orders_user_id_idx"`
	SessionID        string              `gorm:"column:session_id;not null;default:'';index:orders_session_id_idx"`
	CustomerName     string              `gorm:"column:customer_name;not null"`
	Email            string              `gorm:"column:email;not null;index:orders_email_idx"`
	Address          types.Address       `gorm:"column:address;type:jsonb;serializer:json"`
	Items            []OrderItem         `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingFee      decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	CODFee           decimal.Decimal     `gorm:"column:cod_fee;type:numeric(12,2);not null"`
	Discount         decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	AppliedCoupon    *string             `gorm:"column:applied_coupon"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'Pending';index:orders_status_idx"`
	ExpectedDelivery *time.Time          `gorm:"column:expected_delivery"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one snapshotted cart line inside an order.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
	Size      *string         `json:"size,omitempty"`
}

// BeforeCreate assigns the primary key when the driver has no uuid default.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
