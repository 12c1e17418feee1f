package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xavierca1/garage-leads/internal/infra/http/middleware"
)

type RouterConfig struct {
	Lead   *LeadHandler
	Coupon *CouponHandler
	Upsell *UpsellHandler
	Admin  *AdminHandler
	Health *HealthHandler

	// Metrics is mounted at /metrics when set.
	Metrics          http.Handler
	AllowedOrigins   []string
	TrustedProxyHops int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.ClientIP(cfg.TrustedProxyHops))
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", cfg.Lead.CaptureLead)
		r.Post("/coupons/send", cfg.Coupon.Send)
		r.Post("/upsell/record", cfg.Upsell.Record)

		r.Post("/admin/auth", cfg.Admin.Login)
		r.Post("/admin/verify-auth", cfg.Admin.Verify)
		r.With(middleware.AdminAuth(cfg.Admin.Auth)).Get("/admin/leads", cfg.Admin.Leads)
	})

	return r
}
