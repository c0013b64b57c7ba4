package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadeatelier/fade-backend/internal/cart"
	"github.com/fadeatelier/fade-backend/internal/catalog"
	"github.com/fadeatelier/fade-backend/internal/coupons"
	"github.com/fadeatelier/fade-backend/internal/orders"
	"github.com/fadeatelier/fade-backend/pkg/config"
	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/db/models"
	dbtypes "github.com/fadeatelier/fade-backend/pkg/db/types"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/paystack"
	"github.com/fadeatelier/fade-backend/pkg/pricing"
	"github.com/fadeatelier/fade-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentInitializer interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.Authorization, error)
}

// Request is the payload turning a session cart into an order.
type Request struct {
	DeliverySpeed   string        `json:"delivery_speed"`
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
}

// Result carries the placed order and the Paystack redirect. When payment
// initialization fails the order is still created and stays pending;
// AuthorizationURL is then empty and PaymentError explains why.
type Result struct {
	Order            *orders.OrderDTO `json:"order"`
	AuthorizationURL string           `json:"authorization_url,omitempty"`
	AccessCode       string           `json:"access_code,omitempty"`
	PaymentError     string           `json:"payment_error,omitempty"`
}

// Service turns session carts into pending orders and starts payment.
type Service interface {
	CreateOrder(ctx context.Context, sessionID string, userID uuid.UUID, email string, input Request) (*Result, error)
}

type service struct {
	tx       txRunner
	carts    cart.Store
	orders   orders.Repository
	products catalog.Repository
	coupons  coupons.Repository
	payments paymentInitializer
	rule     pricing.Rule
	callback string
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams wires the checkout service dependencies.
type ServiceParams struct {
	Tx          txRunner
	Carts       cart.Store
	Orders      orders.Repository
	Products    catalog.Repository
	Coupons     coupons.Repository
	Payments    paymentInitializer
	Shipping    config.ShippingConfig
	CallbackURL string
	Logger      *logger.Logger
	Now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case params.Carts == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store is required")
	case params.Orders == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository is required")
	case params.Products == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository is required")
	case params.Coupons == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon repository is required")
	case params.Payments == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment initializer is required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		tx:       params.Tx,
		carts:    params.Carts,
		orders:   params.Orders,
		products: params.Products,
		coupons:  params.Coupons,
		payments: params.Payments,
		rule: pricing.Rule{
			FreeThresholdMinor: params.Shipping.FreeThresholdMinor,
			StandardFeeMinor:   params.Shipping.StandardFeeMinor,
			ExpressFeeMinor:    params.Shipping.ExpressFeeMinor,
		},
		callback: params.CallbackURL,
		logg:     params.Logger,
		now:      now,
	}, nil
}

// CreateOrder snapshots the cart into a pending order inside one transaction:
// stock is decremented, the coupon revalidated and redeemed, and the
// breakdown recomputed from live product prices at that moment. The cart is
// cleared and a Paystack transaction initialized only after the commit.
func (s *service) CreateOrder(ctx context.Context, sessionID string, userID uuid.UUID, email string, input Request) (*Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if input.ShippingAddress.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	speed, err := enums.ParseDeliverySpeed(input.DeliverySpeed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown delivery speed")
	}

	sessionCart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sessionCart.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		ID:              uuid.New(),
		Reference:       newReference(),
		UserID:          userID,
		Email:           email,
		Status:          enums.OrderStatusPending,
		Currency:        enums.CurrencyNGN,
		DeliverySpeed:   speed,
		ShippingAddress: dbtypes.AddressJSON{Address: input.ShippingAddress},
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		couponRepo := s.coupons.WithTx(tx)

		ids := make([]uuid.UUID, 0, len(sessionCart.Items))
		for _, cartItem := range sessionCart.Items {
			ids = append(ids, cartItem.ProductID)
		}
		available, err := products.FindActiveByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load products")
		}
		byID := make(map[uuid.UUID]*models.Product, len(available))
		for i := range available {
			byID[available[i].ID] = &available[i]
		}

		lines := make([]pricing.LineItem, 0, len(sessionCart.Items))
		items := make([]models.OrderItem, 0, len(sessionCart.Items))
		for _, cartItem := range sessionCart.Items {
			// deleted and deactivated products both fall out of the active set
			product, ok := byID[cartItem.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "a cart item is no longer available").
					WithDetails(map[string]any{"product_id": cartItem.ProductID})
			}

			ok, err := products.DecrementStock(ctx, product.ID, cartItem.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to reserve stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "not enough stock").
					WithDetails(map[string]any{
						"product_id":     product.ID,
						"stock_quantity": product.StockQuantity,
					})
			}

			lines = append(lines, pricing.LineItem{
				ProductID:      product.ID,
				UnitPriceMinor: product.PriceMinor,
				Quantity:       cartItem.Quantity,
			})
			items = append(items, models.OrderItem{
				OrderID:        order.ID,
				ProductID:      product.ID,
				ProductName:    product.Name,
				UnitPriceMinor: product.PriceMinor,
				Quantity:       cartItem.Quantity,
				LineTotalMinor: product.PriceMinor * cartItem.Quantity,
			})
		}

		subtotal, err := pricing.Subtotal(lines)
		if err != nil {
			return err
		}

		discount := 0
		if sessionCart.CouponCode != "" {
			coupon, err := s.redeemableCoupon(ctx, couponRepo, sessionCart.CouponCode, subtotal)
			if err != nil {
				return err
			}
			discount = coupons.DiscountFor(coupon, subtotal)
			if err := couponRepo.IncrementRedemption(ctx, coupon.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record redemption")
			}
			code := coupon.Code
			order.CouponCode = &code
		}

		breakdown, err := pricing.Compute(lines, discount, speed, s.rule)
		if err != nil {
			return err
		}
		order.SubtotalMinor = breakdown.SubtotalMinor
		order.DiscountMinor = breakdown.DiscountMinor
		order.ShippingMinor = breakdown.ShippingMinor
		order.TotalMinor = breakdown.TotalMinor
		order.Items = items

		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "failed to clear cart after checkout", err)
	}

	result := &Result{Order: orders.FromModel(order)}
	authorization, err := s.payments.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountMinor: order.TotalMinor,
		Reference:   order.Reference,
		CallbackURL: s.callback,
		Currency:    enums.CurrencyNGN.String(),
	})
	if err != nil {
		// the order stays pending; payment can be retried against the same
		// reference
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "failed to initialize payment", err)
		result.PaymentError = "payment initialization failed"
		return result, nil
	}
	result.AuthorizationURL = authorization.AuthorizationURL
	result.AccessCode = authorization.AccessCode
	return result, nil
}

func (s *service) redeemableCoupon(ctx context.Context, repo coupons.Repository, code string, subtotalMinor int) (*models.Coupon, error) {
	coupon, err := repo.FindByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is no longer redeemable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up coupon")
	}
	switch {
	case !coupon.IsActive, coupon.Expired(s.now()), coupon.Exhausted():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is no longer redeemable")
	case subtotalMinor < coupon.MinSubtotalMinor:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal is below the coupon minimum").
			WithDetails(map[string]any{"min_subtotal_minor": coupon.MinSubtotalMinor})
	}
	return coupon, nil
}

// newReference mints the customer-facing order reference that doubles as the
// Paystack transaction reference.
func newReference() string {
	return "FADE-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
