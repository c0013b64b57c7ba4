package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a product line at purchase time so later catalog edits
// never alter a placed order.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	UnitPriceMinor int       `gorm:"column:unit_price_minor;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	LineTotalMinor int       `gorm:"column:line_total_minor;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
