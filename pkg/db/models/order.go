package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/fadeatelier/fade-backend/pkg/db/types"
	"github.com/fadeatelier/fade-backend/pkg/enums"
)

// Order is the purchase record created at checkout. Monetary fields capture
// the pricing breakdown frozen at the moment the order was placed.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference       string              `gorm:"column:reference;not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Email           string              `gorm:"column:email;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalMinor   int                 `gorm:"column:subtotal_minor;not null"`
	DiscountMinor   int                 `gorm:"column:discount_minor;not null;default:0"`
	ShippingMinor   int                 `gorm:"column:shipping_minor;not null"`
	TotalMinor      int                 `gorm:"column:total_minor;not null"`
	Currency        enums.Currency      `gorm:"column:currency;type:text;not null;default:'NGN'"`
	CouponCode      *string             `gorm:"column:coupon_code"`
	DeliverySpeed   enums.DeliverySpeed `gorm:"column:delivery_speed;type:text;not null;default:'standard'"`
	ShippingAddress dbtypes.AddressJSON `gorm:"column:shipping_address;type:jsonb;not null"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	ShippedAt       *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
