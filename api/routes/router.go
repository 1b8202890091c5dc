package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendixo/vendixo-backend/api/controllers"
	"github.com/vendixo/vendixo-backend/api/middleware"
	cartsvc "github.com/vendixo/vendixo-backend/internal/cart"
	catalogsvc "github.com/vendixo/vendixo-backend/internal/catalog"
	checkoutsvc "github.com/vendixo/vendixo-backend/internal/checkout"
	couponsvc "github.com/vendixo/vendixo-backend/internal/coupon"
	orderssvc "github.com/vendixo/vendixo-backend/internal/orders"
	wishlistsvc "github.com/vendixo/vendixo-backend/internal/wishlist"
	"github.com/vendixo/vendixo-backend/pkg/config"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	cartService cartsvc.Service,
	wishlistService wishlistsvc.Service,
	couponService couponsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
	catalogService catalogsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Public catalog. No session required for browsing.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(catalogService, logg, false))
		r.Get("/{productId}", controllers.ProductGet(catalogService, logg))
		r.Post("/{productId}/stock-alerts", controllers.ProductStockAlert(catalogService, logg))
		r.Get("/{productId}/reviews", controllers.ReviewsList(catalogService, logg))
		r.Post("/{productId}/reviews", controllers.ReviewAdd(catalogService, logg))
	})

	// Session-scoped storefront state.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(wishlistService, logg))
			r.Delete("/", controllers.WishlistClear(wishlistService, logg))
			r.Post("/toggle", controllers.WishlistToggle(wishlistService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/apply", controllers.CouponApply(couponService, logg))
			r.Get("/active", controllers.CouponGet(couponService, logg))
			r.Delete("/active", controllers.CouponClear(couponService, logg))
		})

		r.Get("/checkout/preview", controllers.CheckoutPreview(checkoutService, logg))
		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderNumber}", controllers.OrderGetByNumber(ordersService, logg))
		})
	})

	// Admin surface. Tokens come from the external auth provider.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminAuth, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(ordersService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
			r.Put("/{orderId}/expected-delivery", controllers.AdminOrderSetExpectedDelivery(ordersService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg, true))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
			r.Post("/{productId}/restock", controllers.ProductRestock(catalogService, logg))
		})
	})

	return r
}
