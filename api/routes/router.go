package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fadeatelier/fade-backend/api/controllers"
	webhookcontrollers "github.com/fadeatelier/fade-backend/api/controllers/webhooks"
	"github.com/fadeatelier/fade-backend/api/middleware"
	"github.com/fadeatelier/fade-backend/internal/auth"
	"github.com/fadeatelier/fade-backend/internal/cart"
	"github.com/fadeatelier/fade-backend/internal/catalog"
	checkoutsvc "github.com/fadeatelier/fade-backend/internal/checkout"
	"github.com/fadeatelier/fade-backend/internal/coupons"
	"github.com/fadeatelier/fade-backend/internal/notifications"
	"github.com/fadeatelier/fade-backend/internal/orders"
	"github.com/fadeatelier/fade-backend/pkg/auth/session"
	"github.com/fadeatelier/fade-backend/pkg/config"
	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/metrics"
	"github.com/fadeatelier/fade-backend/pkg/paystack"
	"github.com/fadeatelier/fade-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Session       session.AccessSessionChecker
	HTTPMetrics   *metrics.HTTPMetrics
	Paystack      *paystack.Client
	Auth          auth.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Coupons       coupons.Service
	Notifications notifications.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Metrics(p.HTTPMetrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paystack", webhookcontrollers.Paystack(p.Paystack, p.Orders, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.Redis, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	// Public storefront surface. Guests get a cart session without signing in.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(p.Catalog, logg))
		r.Get("/{productId}", controllers.GetProduct(p.Catalog, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Get("/", controllers.CartFetch(p.Cart, logg))
		r.Delete("/", controllers.CartClear(p.Cart, logg))
		r.Post("/items", controllers.CartAddItem(p.Cart, logg))
		r.Put("/items/{productId}", controllers.CartSetQuantity(p.Cart, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Cart, logg))
		r.Post("/coupon", controllers.CartApplyCoupon(p.Cart, logg))
		r.Delete("/coupon", controllers.CartRemoveCoupon(p.Cart, logg))
	})

	r.Get("/api/v1/payments/verify", controllers.VerifyPayment(p.Paystack, p.Orders, logg))

	// Authenticated customer surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Session, logg))

		r.With(
			middleware.Session(logg),
			middleware.Idempotency(p.Redis, logg),
		).Post("/api/v1/checkout", controllers.Checkout(p.Checkout, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(p.Orders, logg))
			r.Get("/{orderId}", controllers.GetMyOrder(p.Orders, logg))
		})

		r.Route("/api/v1/notifications", func(r chi.Router) {
			r.Use(middleware.Idempotency(p.Redis, logg))
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
		})
	})

	// Back-office surface.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Session, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(p.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(p.Catalog, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(p.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(p.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeactivateProduct(p.Catalog, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(p.Coupons, logg))
			r.Post("/", controllers.AdminCreateCoupon(p.Coupons, logg))
			r.Delete("/{couponId}", controllers.AdminDeactivateCoupon(p.Coupons, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(p.Orders, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(p.Orders, logg))
			r.Post("/{orderId}/transition", controllers.AdminTransitionOrder(p.Orders, logg))
		})
	})

	return r
}
