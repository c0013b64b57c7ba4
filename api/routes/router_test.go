package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fadeatelier/fade-backend/internal/auth"
	"github.com/fadeatelier/fade-backend/internal/cart"
	"github.com/fadeatelier/fade-backend/internal/catalog"
	checkoutsvc "github.com/fadeatelier/fade-backend/internal/checkout"
	"github.com/fadeatelier/fade-backend/internal/coupons"
	"github.com/fadeatelier/fade-backend/internal/notifications"
	"github.com/fadeatelier/fade-backend/internal/orders"
	"github.com/fadeatelier/fade-backend/internal/users"
	"github.com/fadeatelier/fade-backend/pkg/config"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubCatalogService struct {
	lastFilter catalog.ListFilter
}

func (s *stubCatalogService) List(_ context.Context, filter catalog.ListFilter) (*catalog.Page, error) {
	s.lastFilter = filter
	return &catalog.Page{Products: []catalog.ProductDTO{{Name: "Oud Royale"}}}, nil
}

func (s *stubCatalogService) Get(context.Context, uuid.UUID, bool) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (s *stubCatalogService) Create(context.Context, catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (s *stubCatalogService) Update(context.Context, uuid.UUID, catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (s *stubCatalogService) Deactivate(context.Context, uuid.UUID) error { return nil }

type stubCartService struct{}

func (stubCartService) Quote(context.Context, string, enums.DeliverySpeed) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) AddItem(context.Context, string, uuid.UUID, int) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) SetQuantity(context.Context, string, uuid.UUID, int) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) RemoveItem(context.Context, string, uuid.UUID) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) Clear(context.Context, string) error { return nil }

func (stubCartService) ApplyCoupon(context.Context, string, string) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) RemoveCoupon(context.Context, string) (*cart.View, error) {
	return &cart.View{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateOrder(context.Context, string, uuid.UUID, string, checkoutsvc.Request) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Get(context.Context, uuid.UUID, *uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) GetByReference(context.Context, string, *uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) List(context.Context, orders.ListFilter) (*orders.Page, error) {
	return &orders.Page{}, nil
}

func (stubOrdersService) Transition(context.Context, uuid.UUID, enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ConfirmPayment(context.Context, string, int) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

type stubCouponsService struct{}

func (stubCouponsService) Validate(context.Context, string, int) (*coupons.Validation, error) {
	return &coupons.Validation{}, nil
}

func (stubCouponsService) Redeem(context.Context, string) error { return nil }

func (stubCouponsService) Create(context.Context, coupons.CreateCouponDTO) (*coupons.CouponDTO, error) {
	return &coupons.CouponDTO{}, nil
}

func (stubCouponsService) List(context.Context, bool) ([]coupons.CouponDTO, error) {
	return nil, nil
}

func (stubCouponsService) Deactivate(context.Context, uuid.UUID) error { return nil }

type stubNotificationsService struct{}

func (stubNotificationsService) List(context.Context, uuid.UUID, notifications.ListFilter) (*notifications.Page, error) {
	return &notifications.Page{}, nil
}

func (stubNotificationsService) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubNotificationsService) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func testRouter(t *testing.T) (http.Handler, *stubCatalogService) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret-test-secret-test-1234"
	cfg.JWT.Issuer = "fade-test"
	cfg.JWT.ExpirationMinutes = 15

	catalogStub := &stubCatalogService{}
	handler := NewRouter(RouterParams{
		Config:        cfg,
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:            stubPinger{},
		Redis:         redis.NewWithStore(goredis.NewClient(&goredis.Options{Addr: "localhost:1"})),
		Session:       stubSessionChecker{},
		Auth:          stubAuthService{},
		Catalog:       catalogStub,
		Cart:          stubCartService{},
		Checkout:      stubCheckoutService{},
		Orders:        stubOrdersService{},
		Coupons:       stubCouponsService{},
		Notifications: stubNotificationsService{},
	})
	return handler, catalogStub
}

func TestRouterHealthLive(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Fade-Env") != "test" {
		t.Fatal("missing environment header")
	}
}

func TestRouterPublicProducts(t *testing.T) {
	handler, catalogStub := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?featured=true&brand=Fade", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !catalogStub.lastFilter.FeaturedOnly {
		t.Fatal("featured filter not forwarded")
	}
	if catalogStub.lastFilter.IncludeHidden {
		t.Fatal("public listing must not include hidden products")
	}

	var envelope struct {
		Data catalog.Page `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 {
		t.Fatalf("unexpected product count %d", len(envelope.Data.Products))
	}
}

func TestRouterCartMintsSession(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cart-Session") == "" {
		t.Fatal("expected a minted cart session header")
	}
}

func TestRouterOrdersRequireAuth(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
