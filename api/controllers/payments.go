package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/fadeatelier/fade-backend/api/responses"
	"github.com/fadeatelier/fade-backend/internal/orders"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/paystack"
)

type transactionVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Verification, error)
}

// VerifyPayment is the landing endpoint for the Paystack redirect. It verifies
// the transaction server-side and marks the order paid when Paystack agrees,
// so the storefront never has to trust query parameters alone.
func VerifyPayment(verifier transactionVerifier, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if verifier == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment verification unavailable"))
			return
		}

		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "reference is required"))
			return
		}

		verification, err := verifier.VerifyTransaction(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !verification.Succeeded() {
			responses.WriteSuccess(w, map[string]any{
				"reference": reference,
				"status":    verification.Status,
				"paid":      false,
			})
			return
		}

		order, err := svc.ConfirmPayment(r.Context(), reference, verification.AmountMinor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"reference": reference,
			"paid":      true,
			"order":     order,
		})
	}
}
