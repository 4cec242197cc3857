package invoices

import "github.com/go-chi/chi/v5"

// MountRoutes registers the invoice routes. The stats and print/export
// endpoints live in the reporting and report packages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoices", h.list)
	r.Get("/invoices/new", h.newDraft)
	r.Get("/invoices/{id}", h.show)
	r.Post("/invoices", h.create)
	r.Put("/invoices/{id}", h.update)
	r.Post("/invoices/{id}/status", h.changeStatus)
	r.Delete("/invoices/{id}", h.remove)
}
