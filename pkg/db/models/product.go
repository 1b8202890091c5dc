package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/enums"
)

// Product is one catalog entry managed from the admin console.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Title         string                `gorm:"column:title;not null"`
	Description   string                `gorm:"column:description"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal      `gorm:"column:original_price;type:numeric(12,2)"`
	Category      enums.ProductCategory `gorm:"column:category;type:text;not null;index:products_category_idx"`
	Sizes         pq.StringArray        `gorm:"column:sizes;type:text[]"`
	Stock         int                   `gorm:"column:stock;not null;default:0"`
	ImageURL      string                `gorm:"column:image_url"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
