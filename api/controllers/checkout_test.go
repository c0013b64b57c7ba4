package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/api/middleware"
	"github.com/fadeatelier/fade-backend/internal/checkout"
	"github.com/fadeatelier/fade-backend/internal/orders"
)

type testCheckoutService struct {
	createFn func(ctx context.Context, sessionID string, userID uuid.UUID, email string, input checkout.Request) (*checkout.Result, error)
}

func (s *testCheckoutService) CreateOrder(ctx context.Context, sessionID string, userID uuid.UUID, email string, input checkout.Request) (*checkout.Result, error) {
	if s.createFn != nil {
		return s.createFn(ctx, sessionID, userID, email, input)
	}
	return &checkout.Result{Order: &orders.OrderDTO{}}, nil
}

func checkoutBody() string {
	return `{"email":"buyer@example.com","delivery_speed":"express","shipping_address":{"line1":"14 Awolowo Rd","city":"Ikoyi","state":"Lagos","country":"NG"}}`
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.NewString()
	var gotSession, gotEmail string
	var gotUser uuid.UUID
	var gotInput checkout.Request
	svc := &testCheckoutService{
		createFn: func(_ context.Context, sid string, uid uuid.UUID, email string, input checkout.Request) (*checkout.Result, error) {
			gotSession = sid
			gotUser = uid
			gotEmail = email
			gotInput = input
			return &checkout.Result{Order: &orders.OrderDTO{UserID: uid}, AuthorizationURL: "https://checkout.paystack.com/abc"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody()))
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithSessionID(ctx, sessionID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	Checkout(svc, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSession != sessionID || gotUser != userID || gotEmail != "buyer@example.com" {
		t.Fatalf("unexpected call %s %s %s", gotSession, gotUser, gotEmail)
	}
	if gotInput.DeliverySpeed != "express" || gotInput.ShippingAddress.City != "Ikoyi" {
		t.Fatalf("unexpected input %+v", gotInput)
	}
}

func TestCheckoutRequiresAuthenticatedUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody()))
	req = req.WithContext(middleware.WithSessionID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	Checkout(&testCheckoutService{}, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckoutValidatesShippingAddress(t *testing.T) {
	body := `{"email":"buyer@example.com","shipping_address":{"line1":"","city":"","state":"","country":""}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithSessionID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	Checkout(&testCheckoutService{}, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
