package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/conley21p/alpine-outdoor-living/internal/auth"
	"github.com/conley21p/alpine-outdoor-living/internal/ratelimit"
	"github.com/conley21p/alpine-outdoor-living/internal/web/handlers"
	"github.com/conley21p/alpine-outdoor-living/internal/web/middleware"
)

// RouterDeps holds all dependencies needed to build the router.
type RouterDeps struct {
	SiteHandler           *handlers.SiteHandler
	AuthHandler           *handlers.AuthHandler
	AdminHandler          *handlers.AdminHandler
	AgentHandler          *handlers.AgentHandler
	PublicAPIHandler      *handlers.PublicAPIHandler
	PaymentWebhookHandler *handlers.PaymentWebhookHandler
	AuthService           *auth.Service
	Limiter               *ratelimit.Limiter
	AgentAPIKey           string
	StaticFS              fs.FS
}

// NewRouter wires all routes into a Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RealIP)

	// Serve static files
	fileServer := http.FileServer(http.FS(deps.StaticFS))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Public site pages + stored images
	r.Group(func(r chi.Router) {
		r.Get("/", deps.SiteHandler.ShowHome)
		r.Get("/services", deps.SiteHandler.ShowServices)
		r.Get("/gallery", deps.SiteHandler.ShowGallery)
		r.Get("/reviews", deps.SiteHandler.ShowReviews)
		r.Get("/contact", deps.SiteHandler.ShowContact)
		r.Get("/images/*", deps.SiteHandler.HandleImage)
	})

	// Public API (rate limited, no CSRF: consumed by fetch from the site
	// and by email clients following approval links)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Limiter))

		r.Post("/api/contact", deps.PublicAPIHandler.HandleContactForm)
		r.Get("/api/webhooks/payment-approval", deps.PaymentWebhookHandler.HandleApprovalLink)
	})

	// Admin login (CSRF, no session required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.OptionalAuth(deps.AuthService))

		r.Get("/admin/login", deps.AuthHandler.ShowLogin)
		r.Post("/admin/login", deps.AuthHandler.HandleLogin)
		r.Post("/admin/logout", deps.AuthHandler.HandleLogout)
	})

	// Admin dashboard (CSRF + RequireAuth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth(deps.AuthService))

		r.Get("/admin", deps.AdminHandler.ShowDashboard)
		r.Get("/admin/contacts", deps.AdminHandler.ShowContacts)
		r.Get("/admin/contacts/export", deps.AdminHandler.HandleExportContacts)
		r.Get("/admin/leads", deps.AdminHandler.ShowLeads)
		r.Post("/admin/leads/{id}", deps.AdminHandler.HandleUpdateLead)
		r.Get("/admin/appointments", deps.AdminHandler.ShowAppointments)
		r.Post("/admin/appointments/{id}", deps.AdminHandler.HandleUpdateAppointment)
		r.Get("/admin/jobs", deps.AdminHandler.ShowJobs)
		r.Post("/admin/jobs/{id}", deps.AdminHandler.HandleUpdateJob)
		r.Post("/admin/jobs/{id}/photos", deps.AdminHandler.HandleUploadJobPhoto)
		r.Get("/admin/employees", deps.AdminHandler.ShowEmployees)
		r.Post("/admin/employees", deps.AdminHandler.HandleCreateEmployee)
		r.Post("/admin/employees/toggle", deps.AdminHandler.HandleToggleEmployee)
		r.Get("/admin/emails", deps.AdminHandler.ShowEmailQueue)
		r.Post("/admin/emails/{id}/approve", deps.AdminHandler.HandleApproveEmail)
		r.Post("/admin/emails/{id}/cancel", deps.AdminHandler.HandleCancelEmail)
		r.Get("/admin/payments", deps.AdminHandler.ShowPayments)
		r.Post("/admin/payments/{id}", deps.AdminHandler.HandleResolvePayment)
		r.Get("/admin/log", deps.AdminHandler.ShowAgentLog)
	})

	// Agent API (shared key, no CSRF, no cookies)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AgentKey(deps.AgentAPIKey))

		r.Route("/api/agent", func(r chi.Router) {
			r.Get("/contacts", deps.AgentHandler.HandleListContacts)
			r.Post("/contacts", deps.AgentHandler.HandleCreateContact)
			r.Get("/contacts/{id}", deps.AgentHandler.HandleGetContact)
			r.Patch("/contacts/{id}", deps.AgentHandler.HandleUpdateContact)

			r.Get("/leads", deps.AgentHandler.HandleListLeads)
			r.Post("/leads", deps.AgentHandler.HandleCreateLead)
			r.Get("/leads/{id}", deps.AgentHandler.HandleGetLead)
			r.Patch("/leads/{id}", deps.AgentHandler.HandleUpdateLead)

			r.Get("/appointments", deps.AgentHandler.HandleListAppointments)
			r.Post("/appointments", deps.AgentHandler.HandleCreateAppointment)
			r.Patch("/appointments/{id}", deps.AgentHandler.HandleUpdateAppointment)

			r.Get("/jobs", deps.AgentHandler.HandleListJobs)
			r.Post("/jobs", deps.AgentHandler.HandleCreateJob)
			r.Patch("/jobs/{id}", deps.AgentHandler.HandleUpdateJob)

			r.Get("/emails", deps.AgentHandler.HandleListQueuedEmails)
			r.Post("/emails", deps.AgentHandler.HandleQueueEmail)

			r.Get("/payments", deps.AgentHandler.HandleListPaymentRequests)
			r.Post("/payments", deps.AgentHandler.HandleCreatePaymentRequest)
			r.Get("/payments/{id}", deps.AgentHandler.HandleGetPaymentRequest)

			r.Get("/log", deps.AgentHandler.HandleListAgentLog)
			r.Post("/log", deps.AgentHandler.HandleWriteAgentLog)
		})
	})

	return r
}
