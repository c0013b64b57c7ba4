package coupons

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
)

// Service validates discount codes against cart subtotals and exposes the
// admin-facing coupon operations.
type Service interface {
	Validate(ctx context.Context, code string, subtotalMinor int) (*Validation, error)
	Redeem(ctx context.Context, code string) error
	Create(ctx context.Context, input CreateCouponDTO) (*CouponDTO, error)
	List(ctx context.Context, activeOnly bool) ([]CouponDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// ServiceParams wires the coupon service dependencies.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

var oneHundred = decimal.NewFromInt(100)

// DiscountFor computes the minor-unit discount a coupon grants on the given
// subtotal. Percentage discounts are floored; fixed discounts never exceed
// the subtotal.
func DiscountFor(coupon *models.Coupon, subtotalMinor int) int {
	switch coupon.Kind {
	case enums.CouponKindPercentage:
		discount := decimal.NewFromInt(int64(subtotalMinor)).
			Mul(coupon.Value).
			Div(oneHundred).
			Floor()
		return int(discount.IntPart())
	default:
		fixed := int(coupon.Value.Floor().IntPart())
		if fixed > subtotalMinor {
			return subtotalMinor
		}
		return fixed
	}
}

// Validate checks a code against a subtotal without side effects. A failed
// check is reported in the Validation, not as an error; errors are reserved
// for infrastructure failures and blank input.
func (s *service) Validate(ctx context.Context, code string, subtotalMinor int) (*Validation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if subtotalMinor < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return &Validation{Code: code, Reason: ReasonNotFound}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up coupon")
	}

	result := &Validation{Code: coupon.Code, Kind: coupon.Kind, MinSubtotalMinor: coupon.MinSubtotalMinor}
	switch {
	case !coupon.IsActive:
		result.Reason = ReasonInactive
	case coupon.Expired(s.now()):
		result.Reason = ReasonExpired
	case coupon.Exhausted():
		result.Reason = ReasonExhausted
	case subtotalMinor < coupon.MinSubtotalMinor:
		result.Reason = ReasonBelowMinimum
	default:
		result.OK = true
		result.DiscountMinor = DiscountFor(coupon, subtotalMinor)
	}
	return result, nil
}

// Redeem bumps the redemption counter after a successful checkout.
func (s *service) Redeem(ctx context.Context, code string) error {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up coupon")
	}
	if err := s.repo.IncrementRedemption(ctx, coupon.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record redemption")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateCouponDTO) (*CouponDTO, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon kind")
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
	}
	if input.Kind == enums.CouponKindPercentage && input.Value.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage cannot exceed 100")
	}
	if input.MinSubtotalMinor < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum subtotal cannot be negative")
	}
	if input.MaxRedemptions != nil && *input.MaxRedemptions <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max redemptions must be positive")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry cannot be in the past")
	}

	coupon := input.ToModel()
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "idx_coupons_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create coupon")
	}
	return FromModel(coupon), nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]CouponDTO, error) {
	coupons, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list coupons")
	}
	out := make([]CouponDTO, 0, len(coupons))
	for i := range coupons {
		out = append(out, *FromModel(&coupons[i]))
	}
	return out, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to deactivate coupon")
	}
	return nil
}
