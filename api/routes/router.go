package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marisolvega/cakery-backend/api/controllers"
	"github.com/marisolvega/cakery-backend/api/middleware"
	"github.com/marisolvega/cakery-backend/internal/auth"
	"github.com/marisolvega/cakery-backend/internal/history"
	"github.com/marisolvega/cakery-backend/internal/identity"
	"github.com/marisolvega/cakery-backend/internal/notifications"
	"github.com/marisolvega/cakery-backend/internal/orders"
	"github.com/marisolvega/cakery-backend/internal/profiles"
	"github.com/marisolvega/cakery-backend/pkg/auth/session"
	"github.com/marisolvega/cakery-backend/pkg/config"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	"github.com/marisolvega/cakery-backend/pkg/logger"
	"github.com/marisolvega/cakery-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         *redis.Client
	Sessions      session.AccessSessionChecker
	AuthService   auth.Service
	Identity      identity.Service
	Profiles      profiles.Service
	Orders        orders.Service
	Notifications notifications.Service
	History       history.Service
	Metrics       *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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

	var redisPinger controllers.Pinger
	if p.Redis != nil {
		redisPinger = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.HealthDeps(p.DB, redisPinger)))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, p.Profiles, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(p.Orders, logg))
			r.Post("/", controllers.CreateOrder(p.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(p.Orders, logg))
			r.Patch("/{orderId}", controllers.UpdateOrder(p.Orders, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(p.Orders, logg))
			r.Get("/{orderId}/history", controllers.ListOrderHistory(p.History, logg))
			r.Post("/{orderId}/history", controllers.AppendOrderNote(p.History, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
			r.Delete("/{notificationId}", controllers.DeleteNotification(p.Notifications, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).Post("/", controllers.CreateNotification(p.Notifications, logg))
		})

		r.Get("/history", controllers.ListHistory(p.History, logg))

		r.Get("/me", controllers.AccountMe(p.Identity, p.Profiles, logg))

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", controllers.ProfileMe(p.Profiles, logg))
			r.Patch("/{userId}/username", controllers.UpdateUsername(p.Profiles, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).Patch("/{userId}/role", controllers.UpdateRole(p.Profiles, logg))
		})
	})

	return r
}
