package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAlert is a back-in-stock waitlist entry. At most one per
// product/email pair; cleared once the restock notification is queued.
type StockAlert struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:stock_alerts_product_email_key"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:stock_alerts_product_email_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (s *StockAlert) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
