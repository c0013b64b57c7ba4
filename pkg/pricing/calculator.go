package pricing

import (
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/google/uuid"
)

// LineItem is the minimal priced unit a breakdown is computed from.
type LineItem struct {
	ProductID      uuid.UUID
	UnitPriceMinor int
	Quantity       int
}

// Rule carries the configured shipping tiers in minor units.
type Rule struct {
	FreeThresholdMinor int
	StandardFeeMinor   int
	ExpressFeeMinor    int
}

// Breakdown is the derived subtotal/discount/shipping/total tuple for one
// consistent snapshot of a cart. It is never stored; callers recompute it
// from current state on every read.
type Breakdown struct {
	SubtotalMinor int `json:"subtotal_minor"`
	DiscountMinor int `json:"discount_minor"`
	ShippingMinor int `json:"shipping_minor"`
	TotalMinor    int `json:"total_minor"`
}

// Subtotal sums unit price times quantity over the items. Quantities below
// one and negative unit prices are rejected.
func Subtotal(items []LineItem) (int, error) {
	subtotal := 0
	for _, item := range items {
		if item.Quantity < 1 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be at least 1")
		}
		if item.UnitPriceMinor < 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "line item unit price cannot be negative")
		}
		subtotal += item.UnitPriceMinor * item.Quantity
	}
	return subtotal, nil
}

// ShippingFee resolves the flat fee for the chosen speed, waived once the
// subtotal reaches the free-shipping threshold. A subtotal exactly equal to
// the threshold ships free.
func ShippingFee(subtotalMinor int, speed enums.DeliverySpeed, rule Rule) int {
	if subtotalMinor >= rule.FreeThresholdMinor {
		return 0
	}
	if speed == enums.DeliverySpeedExpress {
		return rule.ExpressFeeMinor
	}
	return rule.StandardFeeMinor
}

// Compute derives the full breakdown for the given items, discount and
// shipping selection. The discount is clamped to [0, subtotal] so the total
// can never drop below the shipping fee. An empty cart owes nothing: with no
// line items there is nothing to ship, so the shipping fee is zero and the
// total is zero. Pure; no I/O, no side effects.
func Compute(items []LineItem, discountMinor int, speed enums.DeliverySpeed, rule Rule) (Breakdown, error) {
	subtotal, err := Subtotal(items)
	if err != nil {
		return Breakdown{}, err
	}

	discount := discountMinor
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	shipping := 0
	if len(items) > 0 {
		shipping = ShippingFee(subtotal, speed, rule)
	}

	return Breakdown{
		SubtotalMinor: subtotal,
		DiscountMinor: discount,
		ShippingMinor: shipping,
		TotalMinor:    subtotal - discount + shipping,
	}, nil
}
