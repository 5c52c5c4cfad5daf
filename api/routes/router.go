package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusfound/lostfound-backend/api/controllers"
	"github.com/campusfound/lostfound-backend/api/middleware"
	"github.com/campusfound/lostfound-backend/internal/auth"
	"github.com/campusfound/lostfound-backend/internal/catalog"
	"github.com/campusfound/lostfound-backend/internal/contacts"
	"github.com/campusfound/lostfound-backend/internal/items"
	"github.com/campusfound/lostfound-backend/internal/ledger"
	"github.com/campusfound/lostfound-backend/internal/notifications"
	"github.com/campusfound/lostfound-backend/internal/rewards"
	"github.com/campusfound/lostfound-backend/pkg/auth/session"
	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/metrics"
	"github.com/campusfound/lostfound-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil services produce 500s
// from their handlers rather than panics.
type Deps struct {
	Sessions      session.AccessSessionChecker
	Idempotency   redis.IdempotencyStore
	RateLimits    redis.RateLimitStore
	Readiness     []controllers.ReadinessCheck
	HTTPMetrics   *metrics.HTTPMetrics
	MetricsHandle http.Handler

	Auth          auth.Service
	Register      auth.RegisterService
	StaffRegister auth.StaffRegisterService
	Items         items.Service
	Contacts      contacts.Service
	Catalog       catalog.Service
	Ledger        ledger.Service
	Rewards       rewards.Service
	Notifications notifications.Service
	Resender      controllers.NotificationResender
	Notifier      controllers.EventNotifier
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	contactPolicy := middleware.NewRateLimitPolicy(
		"contact",
		cfg.AuthRateLimit.ContactWindow,
		cfg.AuthRateLimit.ContactIPLimit,
		cfg.AuthRateLimit.ContactEmailLimit,
	)

	authenticate := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})
	if deps.MetricsHandle != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandle)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, deps.RateLimits, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.RateLimit(registerPolicy, deps.RateLimits, logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			if cfg.FeatureFlags.StaffSelfRegister && !cfg.App.IsProd() {
				r.With(middleware.RateLimit(registerPolicy, deps.RateLimits, logg)).Post("/staff/register", controllers.AdminRegisterStaff(deps.StaffRegister, logg))
			}
		})

		// Public browse surface. Item routes stay flat: a Route mount on
		// /items/{itemId} would shadow the public GET.
		r.Group(func(r chi.Router) {
			r.Get("/items", controllers.ListItems(deps.Items, logg))
			r.Get("/items/{itemId}", controllers.GetItem(deps.Items, logg))
			r.With(middleware.RateLimit(contactPolicy, deps.RateLimits, logg)).Post("/items/{itemId}/contacts", controllers.CreateItemContact(deps.Contacts, deps.Notifier, logg))
			r.Get("/categories", controllers.ListCategories(deps.Catalog, logg))
			r.Get("/locations", controllers.ListLocations(deps.Catalog, logg))
			r.Get("/banners", controllers.ListBanners(deps.Catalog, logg))
			r.Get("/vouchers", controllers.ListVouchers(deps.Rewards, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(idempotent)

			r.Post("/items", controllers.CreateItem(deps.Items, deps.Notifier, logg))
			r.Patch("/items/{itemId}", controllers.UpdateItem(deps.Items, deps.Notifier, logg))
			r.Delete("/items/{itemId}", controllers.DeleteItem(deps.Items, logg))
			r.Post("/items/{itemId}/claim", controllers.ClaimItem(deps.Items, deps.Notifier, logg))
			r.Post("/items/{itemId}/close", controllers.CloseItem(deps.Items, deps.Notifier, logg))
			r.Post("/items/{itemId}/images", controllers.AddItemImage(deps.Items, logg))
			r.Get("/items/{itemId}/contacts", controllers.ListItemContacts(deps.Contacts, logg))
			r.Post("/contacts/{contactId}/responded", controllers.MarkContactResponded(deps.Contacts, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/items", controllers.ListMyItems(deps.Items, logg))
				r.Get("/wallet", controllers.GetWallet(deps.Ledger, logg))
				r.Get("/wallet/transactions", controllers.ListWalletTransactions(deps.Ledger, logg))
				r.Get("/redemptions", controllers.ListMyRedemptions(deps.Rewards, logg))
			})

			r.Post("/vouchers/{voucherId}/redeem", controllers.RedeemVoucher(deps.Rewards, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Use(idempotent)

		r.Route("/items/{itemId}", func(r chi.Router) {
			r.Post("/verify", controllers.AdminVerifyItem(deps.Items, deps.Notifier, logg))
			r.Post("/drop-off", controllers.AdminDropOffItem(deps.Items, deps.Notifier, logg))
			r.Post("/claim", controllers.AdminProcessClaim(deps.Items, deps.Notifier, logg))
			r.Post("/status", controllers.AdminUpdateItemStatus(deps.Items, deps.Notifier, logg))
			r.Post("/notes", controllers.AdminAddItemNote(deps.Items, deps.Notifier, logg))
			r.Get("/operations", controllers.AdminItemOperations(deps.Items, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.AdminListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/resend", controllers.AdminResendNotification(deps.Resender, logg))
		})

		r.Post("/vouchers", controllers.AdminCreateVoucher(deps.Rewards, logg))
		r.Post("/redemptions/{redemptionId}/use", controllers.AdminMarkRedemptionUsed(deps.Rewards, logg))
		r.Post("/staff", controllers.AdminRegisterStaff(deps.StaffRegister, logg))
	})

	return r
}
