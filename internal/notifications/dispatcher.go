package notifications

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/resend"
)

type emailSender interface {
	Send(ctx context.Context, email resend.Email) (string, error)
}

// Dispatcher fans out one in-app notification and one customer email per
// order status transition. Dispatch is best-effort: failures are logged and
// swallowed so a status write never rolls back over a notification.
type Dispatcher struct {
	repo  Repository
	email emailSender
	logg  *logger.Logger
}

// DispatcherParams wires the dispatcher dependencies.
type DispatcherParams struct {
	Repo   Repository
	Email  emailSender
	Logger *logger.Logger
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notification repository is required")
	}
	if params.Email == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "email sender is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Dispatcher{repo: params.Repo, email: params.Email, logg: params.Logger}, nil
}

type transitionCopy struct {
	kind    enums.NotificationType
	title   string
	message string
	subject string
	body    string
}

func copyFor(order *models.Order) (transitionCopy, bool) {
	switch order.Status {
	case enums.OrderStatusPaid:
		return transitionCopy{
			kind:    enums.NotificationTypeOrderPaid,
			title:   "Payment received",
			message: fmt.Sprintf("Your payment for order %s was confirmed.", order.Reference),
			subject: fmt.Sprintf("Order %s confirmed", order.Reference),
			// amounts are whole naira; the minor unit is 1 NGN
			body: fmt.Sprintf(
				"Thank you for shopping with Fade Atelier. We received your payment of NGN %d for order %s and are preparing your fragrances.",
				order.TotalMinor, order.Reference),
		}, true
	case enums.OrderStatusShipped:
		return transitionCopy{
			kind:    enums.NotificationTypeOrderShipped,
			title:   "Order shipped",
			message: fmt.Sprintf("Order %s is on its way.", order.Reference),
			subject: fmt.Sprintf("Order %s has shipped", order.Reference),
			body: fmt.Sprintf(
				"Good news: order %s left our atelier and is on its way to you.",
				order.Reference),
		}, true
	case enums.OrderStatusDelivered:
		return transitionCopy{
			kind:    enums.NotificationTypeOrderDelivered,
			title:   "Order delivered",
			message: fmt.Sprintf("Order %s was delivered.", order.Reference),
			subject: fmt.Sprintf("Order %s was delivered", order.Reference),
			body: fmt.Sprintf(
				"Order %s was delivered. We hope you love your new scent.",
				order.Reference),
		}, true
	default:
		return transitionCopy{}, false
	}
}

// OrderStatusChanged records the in-app notification and emails the customer
// for the order's current status. Safe to call for any status; pending is
// ignored.
func (d *Dispatcher) OrderStatusChanged(ctx context.Context, order *models.Order) {
	content, ok := copyFor(order)
	if !ok {
		return
	}

	var errs error
	orderID := order.ID
	if err := d.repo.Create(ctx, &models.Notification{
		UserID:  order.UserID,
		Type:    content.kind,
		Title:   content.title,
		Message: content.message,
		OrderID: &orderID,
	}); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("in-app notification: %w", err))
	}

	if _, err := d.email.Send(ctx, resend.Email{
		To:      []string{order.Email},
		Subject: content.subject,
		Text:    content.body,
	}); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("customer email: %w", err))
	}

	if errs != nil {
		d.logg.Error(d.logg.WithOrderID(ctx, order.ID.String()), "notification dispatch incomplete", errs)
	}
}
