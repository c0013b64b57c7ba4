package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
)

// CouponDTO is the admin-facing transport shape for a coupon.
type CouponDTO struct {
	ID               uuid.UUID        `json:"id"`
	Code             string           `json:"code"`
	Kind             enums.CouponKind `json:"kind"`
	Value            decimal.Decimal  `json:"value"`
	MinSubtotalMinor int              `json:"min_subtotal_minor"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	MaxRedemptions   *int             `json:"max_redemptions,omitempty"`
	RedemptionCount  int              `json:"redemption_count"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CreateCouponDTO holds the data to persist a new coupon. Value is the
// percentage for percentage coupons, or minor units for fixed-amount ones.
type CreateCouponDTO struct {
	Code             string           `json:"code" validate:"required"`
	Kind             enums.CouponKind `json:"kind" validate:"required"`
	Value            decimal.Decimal  `json:"value" validate:"required"`
	MinSubtotalMinor int              `json:"min_subtotal_minor" validate:"gte=0"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	MaxRedemptions   *int             `json:"max_redemptions,omitempty" validate:"omitempty,gt=0"`
}

// Validation is the outcome of checking a code against a subtotal. When OK is
// false, Reason carries the machine-readable cause.
type Validation struct {
	OK               bool             `json:"ok"`
	Reason           string           `json:"reason,omitempty"`
	Code             string           `json:"code"`
	Kind             enums.CouponKind `json:"kind,omitempty"`
	DiscountMinor    int              `json:"discount_minor"`
	MinSubtotalMinor int              `json:"min_subtotal_minor,omitempty"`
}

// Rejection reasons reported by Validate.
const (
	ReasonNotFound     = "not_found"
	ReasonInactive     = "inactive"
	ReasonExpired      = "expired"
	ReasonExhausted    = "exhausted"
	ReasonBelowMinimum = "below_minimum"
)

func FromModel(c *models.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	return &CouponDTO{
		ID:               c.ID,
		Code:             c.Code,
		Kind:             c.Kind,
		Value:            c.Value,
		MinSubtotalMinor: c.MinSubtotalMinor,
		ExpiresAt:        c.ExpiresAt,
		MaxRedemptions:   c.MaxRedemptions,
		RedemptionCount:  c.RedemptionCount,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (c CreateCouponDTO) ToModel() *models.Coupon {
	return &models.Coupon{
		Code:             c.Code,
		Kind:             c.Kind,
		Value:            c.Value,
		MinSubtotalMinor: c.MinSubtotalMinor,
		ExpiresAt:        c.ExpiresAt,
		MaxRedemptions:   c.MaxRedemptions,
		IsActive:         true,
	}
}
