package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poultrygear/poultrygear-backend/api/controllers"
	"github.com/poultrygear/poultrygear-backend/api/middleware"
	"github.com/poultrygear/poultrygear-backend/internal/addresses"
	"github.com/poultrygear/poultrygear-backend/internal/cart"
	"github.com/poultrygear/poultrygear-backend/internal/catalog"
	checkoutsvc "github.com/poultrygear/poultrygear-backend/internal/checkout"
	"github.com/poultrygear/poultrygear-backend/internal/contact"
	"github.com/poultrygear/poultrygear-backend/internal/inventory"
	"github.com/poultrygear/poultrygear-backend/internal/notifications"
	"github.com/poultrygear/poultrygear-backend/internal/orders"
	"github.com/poultrygear/poultrygear-backend/internal/paymentmethods"
	"github.com/poultrygear/poultrygear-backend/internal/users"
	"github.com/poultrygear/poultrygear-backend/internal/waitlist"
	"github.com/poultrygear/poultrygear-backend/pkg/auth/session"
	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/metrics"
	"github.com/poultrygear/poultrygear-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Users          users.Service
	Catalog        catalog.Service
	Cart           cart.Service
	Addresses      addresses.Service
	PaymentMethods paymentmethods.Service
	Checkout       checkoutsvc.Service
	Orders         orders.Service
	Inventory      inventory.Service
	Notifications  notifications.Service
	Contact        contact.Service
	Waitlist       waitlist.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	admin := string(enums.UserRoleAdmin)

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Uploaded product images are served straight off disk.
	uploadsPrefix := strings.TrimSuffix(cfg.Uploads.PublicPath, "/") + "/"
	r.Handle(uploadsPrefix+"*", http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(cfg.Uploads.Dir))))

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(svcs.Users, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Users, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Users, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Users, cfg.JWT, logg))

		r.Get("/categories", controllers.ListCategories(svcs.Catalog, logg))
		r.Get("/categories/{slug}", controllers.GetCategory(svcs.Catalog, logg))
		r.Get("/products", controllers.ListProducts(svcs.Catalog, logg, false))
		r.Get("/products/{slug}", controllers.GetProduct(svcs.Catalog, logg, false))

		r.Post("/stock-notifications", controllers.StockNotificationSubscribe(svcs.Notifications, logg))
		r.Post("/contact", controllers.ContactCreate(svcs.Contact, logg))
		r.Post("/waitlist", controllers.WaitlistJoin(svcs.Waitlist, logg))

		// Checkout admits guests; identity is attached when present.
		r.With(middleware.OptionalAuth(cfg.JWT, sessions, logg)).
			Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		// Authenticated customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/user", func(r chi.Router) {
				r.Get("/", controllers.UserProfile(svcs.Users, logg))
				r.Put("/profile", controllers.UserUpdateProfile(svcs.Users, logg))
				r.Put("/change-password", controllers.UserChangePassword(svcs.Users, logg))

				r.Route("/payment-methods", func(r chi.Router) {
					r.Get("/", controllers.PaymentMethodList(svcs.PaymentMethods, logg))
					r.Post("/", controllers.PaymentMethodCreate(svcs.PaymentMethods, logg))
					r.Put("/{methodId}", controllers.PaymentMethodUpdate(svcs.PaymentMethods, logg))
					r.Put("/{methodId}/default", controllers.PaymentMethodSetDefault(svcs.PaymentMethods, logg))
					r.Delete("/{methodId}", controllers.PaymentMethodDelete(svcs.PaymentMethods, logg))
				})
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(svcs.Addresses, logg))
				r.Post("/", controllers.AddressCreate(svcs.Addresses, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(svcs.Addresses, logg))
				r.Put("/{addressId}/default", controllers.AddressSetDefault(svcs.Addresses, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(svcs.Addresses, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/{productId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
				r.Get("/{orderId}/invoice", controllers.OrderInvoice(svcs.Orders, logg))
			})
		})

		// Back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(admin, logg))

			r.Get("/dashboard", controllers.AdminDashboard(
				svcs.Orders, svcs.Users, svcs.Inventory, svcs.Contact, svcs.Waitlist, logg,
			))
			r.Get("/customers", controllers.AdminCustomerList(svcs.Users, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(svcs.Users, logg))
				r.Delete("/{userId}", controllers.AdminUserDelete(svcs.Users, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
				r.Put("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(svcs.Catalog, logg, true))
				r.Get("/{slug}", controllers.GetProduct(svcs.Catalog, logg, true))
				r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
				r.Put("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
				r.Patch("/{slug}/media", controllers.AdminReplaceProductMedia(svcs.Catalog, logg))
			})

			r.Post("/uploads", controllers.AdminUploadImage(cfg.Uploads, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderGet(svcs.Orders, logg))
				r.Get("/{orderId}/invoice", controllers.OrderInvoice(svcs.Orders, logg))
				r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
				r.Put("/{orderId}/payment-status", controllers.AdminOrderUpdatePaymentStatus(svcs.Orders, logg))
				r.Put("/{orderId}/notes", controllers.AdminOrderUpdateNotes(svcs.Orders, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/products", controllers.AdminInventoryProducts(svcs.Inventory, logg))
				r.Get("/low-stock", controllers.AdminInventoryLowStock(svcs.Inventory, logg))
				r.Get("/transactions", controllers.AdminInventoryTransactions(svcs.Inventory, logg))
				r.Post("/transactions", controllers.AdminInventoryApply(svcs.Inventory, logg))
				r.Put("/products/{productId}/thresholds", controllers.AdminInventoryThresholds(svcs.Inventory, logg))
			})

			r.Route("/stock-notifications", func(r chi.Router) {
				r.Get("/", controllers.AdminStockNotificationList(svcs.Notifications, logg))
				r.Post("/{productId}/notify", controllers.AdminStockNotificationClose(svcs.Notifications, logg))
			})

			r.Route("/contact-messages", func(r chi.Router) {
				r.Get("/", controllers.AdminContactList(svcs.Contact, logg))
				r.Get("/{messageId}", controllers.AdminContactGet(svcs.Contact, logg))
				r.Put("/{messageId}/status", controllers.AdminContactUpdateStatus(svcs.Contact, logg))
				r.Delete("/{messageId}", controllers.AdminContactDelete(svcs.Contact, logg))
			})

			r.Route("/waitlist-entries", func(r chi.Router) {
				r.Get("/", controllers.AdminWaitlistList(svcs.Waitlist, logg))
				r.Delete("/{entryId}", controllers.AdminWaitlistDelete(svcs.Waitlist, logg))
			})
		})
	})

	return r
}
