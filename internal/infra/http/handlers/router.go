package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
)

type Router struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Webhook   *WebhookHandler
	Leads     *LeadHandler
	Flows     *FlowHandler
	Settings  *SettingsHandler
	Simulator *SimulatorHandler
	Stats     *StatsHandler
	Gateway   *GatewayHandler

	Authenticator middleware.Authenticator
	CORSOrigins   []string
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SignatureHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}

	r.Post("/auth/signup", rt.Auth.SignUp)
	r.Post("/auth/signin", rt.Auth.SignIn)
	r.Post("/webhook/{accountId}", rt.Webhook.Handle)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(rt.Authenticator))

		r.Post("/auth/signout", rt.Auth.SignOut)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", rt.Leads.List)
			r.Post("/", rt.Leads.Create)
			r.Get("/{id}", rt.Leads.Get)
			r.Patch("/{id}", rt.Leads.Update)
			r.Put("/{id}", rt.Leads.Update)
			r.Delete("/{id}", rt.Leads.Delete)
			r.Get("/{id}/messages", rt.Leads.Messages)
		})

		r.Route("/flows", func(r chi.Router) {
			r.Get("/", rt.Flows.List)
			r.Post("/", rt.Flows.Create)
			r.Get("/{id}", rt.Flows.Get)
			r.Put("/{id}", rt.Flows.Update)
			r.Post("/{id}/toggle", rt.Flows.Toggle)
			r.Delete("/{id}", rt.Flows.Delete)
		})

		r.Get("/settings", rt.Settings.Get)
		r.Patch("/settings", rt.Settings.Update)
		r.Post("/settings/notification", rt.Settings.Notification)

		r.Post("/simulator/messages", rt.Simulator.Handle)
		r.Get("/stats", rt.Stats.Handle)

		r.Get("/whatsapp/qrcode", rt.Gateway.QRCode)
		r.Get("/whatsapp/status", rt.Gateway.Status)
	})

	return r
}
