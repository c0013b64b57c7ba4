package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadeatelier/fade-backend/pkg/enums"
)

// Coupon represents a discount code. For percentage coupons Value is the
// percentage (e.g. 10 or 12.5); for fixed-amount coupons it is the discount
// in minor currency units.
type Coupon struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string           `gorm:"column:code;not null;uniqueIndex"`
	Kind             enums.CouponKind `gorm:"column:kind;type:text;not null"`
	Value            decimal.Decimal  `gorm:"column:value;type:numeric(12,2);not null"`
	MinSubtotalMinor int              `gorm:"column:min_subtotal_minor;not null;default:0"`
	ExpiresAt        *time.Time       `gorm:"column:expires_at"`
	MaxRedemptions   *int             `gorm:"column:max_redemptions"`
	RedemptionCount  int              `gorm:"column:redemption_count;not null;default:0"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Expired reports whether the coupon's expiry has passed at the given time.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Exhausted reports whether the redemption cap has been reached.
func (c Coupon) Exhausted() bool {
	return c.MaxRedemptions != nil && c.RedemptionCount >= *c.MaxRedemptions
}
