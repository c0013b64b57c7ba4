package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/internal/coupons"
	"github.com/fadeatelier/fade-backend/pkg/config"
	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/pricing"
)

const maxLineQuantity = 20

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code string, subtotalMinor int) (*coupons.Validation, error)
}

// View is a cart with its breakdown recomputed from current items and the
// stored coupon code. CouponWarning is set when a stored code no longer
// validates; the quote then carries zero discount.
type View struct {
	Items         []Item            `json:"items"`
	CouponCode    string            `json:"coupon_code,omitempty"`
	CouponWarning string            `json:"coupon_warning,omitempty"`
	DeliverySpeed string            `json:"delivery_speed"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
}

// Service mutates session carts and derives quotes.
type Service interface {
	Quote(ctx context.Context, sessionID string, speed enums.DeliverySpeed) (*View, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*View, error)
}

type service struct {
	store    Store
	products productFinder
	coupons  couponValidator
	rule     pricing.Rule
	logg     *logger.Logger
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Store    Store
	Products productFinder
	Coupons  couponValidator
	Shipping config.ShippingConfig
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product finder is required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon validator is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		store:    params.Store,
		products: params.Products,
		coupons:  params.Coupons,
		rule: pricing.Rule{
			FreeThresholdMinor: params.Shipping.FreeThresholdMinor,
			StandardFeeMinor:   params.Shipping.StandardFeeMinor,
			ExpressFeeMinor:    params.Shipping.ExpressFeeMinor,
		},
		logg: params.Logger,
	}, nil
}

func (s *service) Quote(ctx context.Context, sessionID string, speed enums.DeliverySpeed) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart, speed)
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	desired := quantity
	if line := cart.Line(productID); line != nil {
		desired += line.Quantity
	}
	if err := checkQuantity(product, desired); err != nil {
		return nil, err
	}

	if line := cart.Line(productID); line != nil {
		line.Quantity = desired
		line.ProductName = product.Name
		line.UnitPriceMinor = product.PriceMinor
	} else {
		cart.Items = append(cart.Items, Item{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceMinor: product.PriceMinor,
			Quantity:       quantity,
		})
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart, enums.DeliverySpeedStandard)
}

// SetQuantity replaces a line's quantity. Zero or below removes the line.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	line := cart.Line(productID)
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := checkQuantity(product, quantity); err != nil {
		return nil, err
	}

	line.Quantity = quantity
	line.ProductName = product.Name
	line.UnitPriceMinor = product.PriceMinor

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart, enums.DeliverySpeedStandard)
}

// RemoveItem drops a line. Removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveLine(productID)
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart, enums.DeliverySpeedStandard)
}

// Clear drops the whole cart, coupon included.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// ApplyCoupon validates the code against the current subtotal and attaches
// it. A failed validation leaves the cart unchanged.
func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	subtotal, err := pricing.Subtotal(lineItems(cart))
	if err != nil {
		return nil, err
	}

	validation, err := s.coupons.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	if !validation.OK {
		return nil, couponRejection(validation)
	}

	cart.CouponCode = validation.Code
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart, enums.DeliverySpeedStandard)
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart, enums.DeliverySpeedStandard)
}

// view derives a fresh breakdown from the cart's current items and coupon.
// An attached code that stopped validating downgrades to a warning with zero
// discount rather than failing the read.
func (s *service) view(ctx context.Context, cart *Cart, speed enums.DeliverySpeed) (*View, error) {
	if !speed.IsValid() {
		speed = enums.DeliverySpeedStandard
	}

	items := lineItems(cart)
	subtotal, err := pricing.Subtotal(items)
	if err != nil {
		return nil, err
	}

	discount := 0
	warning := ""
	if cart.CouponCode != "" {
		validation, err := s.coupons.Validate(ctx, cart.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		if validation.OK {
			discount = validation.DiscountMinor
		} else {
			warning = "coupon " + cart.CouponCode + " no longer applies: " + validation.Reason
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"coupon_code": cart.CouponCode,
				"reason":      validation.Reason,
			}), "stored coupon no longer validates")
		}
	}

	breakdown, err := pricing.Compute(items, discount, speed, s.rule)
	if err != nil {
		return nil, err
	}

	view := &View{
		Items:         append([]Item(nil), cart.Items...),
		CouponCode:    cart.CouponCode,
		CouponWarning: warning,
		DeliverySpeed: speed.String(),
		Breakdown:     breakdown,
	}
	if view.Items == nil {
		view.Items = []Item{}
	}
	return view, nil
}

func (s *service) activeProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func checkQuantity(product *models.Product, quantity int) error {
	if quantity > maxLineQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line limit").
			WithDetails(map[string]any{"max_quantity": maxLineQuantity})
	}
	if quantity > product.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "not enough stock").
			WithDetails(map[string]any{"stock_quantity": product.StockQuantity})
	}
	return nil
}

func couponRejection(validation *coupons.Validation) error {
	switch validation.Reason {
	case coupons.ReasonNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	case coupons.ReasonBelowMinimum:
		return pkgerrors.New(pkgerrors.CodeValidation, "subtotal is below the coupon minimum").
			WithDetails(map[string]any{"min_subtotal_minor": validation.MinSubtotalMinor})
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is not redeemable").
			WithDetails(map[string]any{"reason": validation.Reason})
	}
}

func lineItems(cart *Cart) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, pricing.LineItem{
			ProductID:      item.ProductID,
			UnitPriceMinor: item.UnitPriceMinor,
			Quantity:       item.Quantity,
		})
	}
	return items
}
