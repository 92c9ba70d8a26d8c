package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-invoicer/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Get("/public/invoices/{token}", h.publicInvoice)

		r.Get("/version", h.getServerVersion)
		r.Get("/healthz", h.healthz)
		r.Method("GET", "/metrics", h.metricsHandler())
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/auth/logout", h.logout)
		r.Get("/auth/me", h.me)
		r.Post("/auth/password", h.changePassword)

		r.Get("/invoices", h.listInvoices)
		r.Post("/invoices", h.createInvoice)
		r.Get("/invoices/stats", h.invoiceStats)
		r.Get("/invoices/{id}", h.getInvoice)
		r.Put("/invoices/{id}", h.updateInvoice)
		r.Delete("/invoices/{id}", h.deleteInvoice)
		r.Put("/invoices/{id}/status", h.setInvoiceStatus)
		r.Post("/invoices/{id}/duplicate", h.duplicateInvoice)
		r.Post("/invoices/{id}/recurring", h.spawnRecurring)
		r.Post("/invoices/{id}/share", h.shareInvoice)

		r.Get("/clients", h.listClients)
		r.Post("/clients", h.createClient)
		r.Get("/clients/{id}", h.getClient)
		r.Put("/clients/{id}", h.updateClient)
		r.Delete("/clients/{id}", h.deleteClient)

		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Get("/products/{id}", h.getProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)

		r.Get("/dashboard/stats", h.dashboardStats)
		r.Get("/dashboard/charts", h.dashboardCharts)
		r.Get("/audit-logs", h.auditLogs)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(models.RoleAdmin))
			r.Put("/admin/users/{id}/active", h.setUserActive)
		})
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
