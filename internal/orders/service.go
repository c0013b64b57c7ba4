package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/pagination"
)

// notifier receives one callback per successful status transition. Dispatch
// is best-effort; implementations must not return their failures here.
type notifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

// ListFilter narrows an order listing.
type ListFilter struct {
	Limit  int
	Cursor string
	UserID *uuid.UUID
	Status string
}

// Service reads orders and drives their forward-only status lifecycle.
type Service interface {
	Get(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*OrderDTO, error)
	GetByReference(ctx context.Context, reference string, requester *uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) (*Page, error)
	Transition(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	ConfirmPayment(ctx context.Context, reference string, amountMinor int) (*OrderDTO, error)
}

type service struct {
	repo     Repository
	notifier notifier
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo     Repository
	Notifier notifier
	Logger   *logger.Logger
	Now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, notifier: params.Notifier, logg: params.Logger, now: now}, nil
}

// Get loads one order. A non-nil requester scopes the lookup to that user's
// own orders; other users' orders read as missing.
func (s *service) Get(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester != nil && order.UserID != *requester {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) GetByReference(ctx context.Context, reference string, requester *uuid.UUID) (*OrderDTO, error) {
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if requester != nil && order.UserID != *requester {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	params := ListParams{Limit: filter.Limit, Cursor: cursor, UserID: filter.UserID}
	if filter.Status != "" {
		status, err := enums.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status")
		}
		params.Status = &status
	}

	orders, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}

	page := &Page{Orders: make([]OrderDTO, 0, len(orders))}
	for i := range orders {
		page.Orders = append(page.Orders, *FromModel(&orders[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// Transition advances an order one step forward. Requesting the order's
// current status is a no-op; anything other than the single next status is a
// state conflict. Orders never move backwards.
func (s *service) Transition(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return FromModel(order), nil
	}
	if order.Status.Next() != target {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition").
			WithDetails(map[string]any{"from": order.Status, "to": target})
	}

	return s.advance(ctx, order, target)
}

// ConfirmPayment settles PENDING → PAID from a verified Paystack charge.
// A mismatched amount never transitions; a charge for an already-paid order
// is acknowledged as a no-op.
func (s *service) ConfirmPayment(ctx context.Context, reference string, amountMinor int) (*OrderDTO, error) {
	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}

	if order.Status != enums.OrderStatusPending {
		return FromModel(order), nil
	}
	if amountMinor != order.TotalMinor {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "paid amount does not match the order total").
			WithDetails(map[string]any{
				"expected_minor": order.TotalMinor,
				"received_minor": amountMinor,
			})
	}

	return s.advance(ctx, order, enums.OrderStatusPaid)
}

func (s *service) advance(ctx context.Context, order *models.Order, target enums.OrderStatus) (*OrderDTO, error) {
	moved, err := s.repo.AdvanceStatus(ctx, order.ID, order.Status, target, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order status")
	}
	if !moved {
		// lost the race to a concurrent transition
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	updated, err := s.load(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
		"from": order.Status.String(),
		"to":   target.String(),
	}), "order status advanced")
	s.notifier.OrderStatusChanged(ctx, updated)

	return FromModel(updated), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}
