package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fadeatelier/fade-backend/api/responses"
	"github.com/fadeatelier/fade-backend/internal/orders"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
)

const chargeSuccessEvent = "charge.success"

type signatureValidator interface {
	ValidateSignature(body []byte, signature string) bool
}

type paymentConfirmer interface {
	ConfirmPayment(ctx context.Context, reference string, amountMinor int) (*orders.OrderDTO, error)
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int    `json:"amount"`
		Currency  string `json:"currency"`
		Status    string `json:"status"`
	} `json:"data"`
}

// Paystack handles transaction webhooks. The HMAC signature is verified
// before the payload is trusted; charge.success marks the order paid and
// every other event type is acknowledged and ignored. Paystack retries on
// non-2xx, so business rejections still return 200.
func Paystack(validator signatureValidator, svc paymentConfirmer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if validator == nil || svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook handler unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := strings.TrimSpace(r.Header.Get("X-Paystack-Signature"))
		if !validator.ValidateSignature(payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event paystackEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}

		if event.Event != chargeSuccessEvent {
			if logg != nil {
				logg.Info(logg.WithField(ctx, "event", event.Event), "paystack event ignored")
			}
			responses.WriteSuccess(w, map[string]bool{"received": true})
			return
		}

		if event.Data.Reference == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing reference"))
			return
		}

		order, err := svc.ConfirmPayment(ctx, event.Data.Reference, event.Data.Amount)
		if err != nil {
			typed := pkgerrors.As(err)
			// Amount mismatches must be surfaced, but an unknown reference
			// is acknowledged so Paystack stops retrying a dead event.
			if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				if logg != nil {
					logCtx := logg.WithField(ctx, "reference", event.Data.Reference)
					logg.Warn(logCtx, "paystack webhook for unknown order reference")
				}
				responses.WriteSuccess(w, map[string]bool{"received": true})
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"reference": event.Data.Reference,
				"order_id":  order.ID.String(),
			})
			logg.Info(logCtx, "paystack charge confirmed")
		}
		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
