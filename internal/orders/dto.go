package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	"github.com/fadeatelier/fade-backend/pkg/types"
)

// OrderItemDTO is a purchased line frozen at checkout time.
type OrderItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceMinor int       `json:"unit_price_minor"`
	Quantity       int       `json:"quantity"`
	LineTotalMinor int       `json:"line_total_minor"`
}

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	Reference       string              `json:"reference"`
	UserID          uuid.UUID           `json:"user_id"`
	Email           string              `json:"email"`
	Status          enums.OrderStatus   `json:"status"`
	SubtotalMinor   int                 `json:"subtotal_minor"`
	DiscountMinor   int                 `json:"discount_minor"`
	ShippingMinor   int                 `json:"shipping_minor"`
	TotalMinor      int                 `json:"total_minor"`
	Currency        enums.Currency      `json:"currency"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	DeliverySpeed   enums.DeliverySpeed `json:"delivery_speed"`
	ShippingAddress types.Address       `json:"shipping_address"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// TransitionRequest is the admin payload advancing an order's status.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// Page is a cursor-paginated slice of orders.
type Page struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceMinor: item.UnitPriceMinor,
			Quantity:       item.Quantity,
			LineTotalMinor: item.LineTotalMinor,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		Email:           o.Email,
		Status:          o.Status,
		SubtotalMinor:   o.SubtotalMinor,
		DiscountMinor:   o.DiscountMinor,
		ShippingMinor:   o.ShippingMinor,
		TotalMinor:      o.TotalMinor,
		Currency:        o.Currency,
		CouponCode:      o.CouponCode,
		DeliverySpeed:   o.DeliverySpeed,
		ShippingAddress: o.ShippingAddress.Address,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}
