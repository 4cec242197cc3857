package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rainline/rainline/internal/billing/customers"
	"github.com/rainline/rainline/internal/billing/invoices"
	"github.com/rainline/rainline/internal/platform/httpx"
)

// Handler serves the printable and PDF representations of an invoice.
type Handler struct {
	logger          *slog.Logger
	invoiceService  *invoices.Service
	customerService *customers.Service
	renderer        *Renderer
	client          *Client
}

func NewHandler(logger *slog.Logger, invoiceService *invoices.Service, customerService *customers.Service, renderer *Renderer, client *Client) *Handler {
	return &Handler{
		logger:          logger,
		invoiceService:  invoiceService,
		customerService: customerService,
		renderer:        renderer,
		client:          client,
	}
}

// MountRoutes registers the print and export routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoices/{id}/print", h.printHTML)
	r.Get("/invoices/{id}/export.pdf", h.exportPDF)
	r.Get("/ping", h.ping)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) printHTML(w http.ResponseWriter, r *http.Request) {
	html, _, ok := h.renderInvoice(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	html, inv, ok := h.renderInvoice(w, r)
	if !ok {
		return
	}

	pdf, err := h.client.ConvertHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("convert invoice pdf", slog.Int64("id", inv.ID), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", inv.Number))
	_, _ = w.Write(pdf)
}

func (h *Handler) renderInvoice(w http.ResponseWriter, r *http.Request) ([]byte, *invoices.Invoice, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return nil, nil, false
	}

	inv, err := h.invoiceService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get invoice for report", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return nil, nil, false
	}

	customer, err := h.customerService.Get(r.Context(), inv.CustomerID)
	if err != nil {
		h.logger.Warn("customer missing for report", slog.Int64("customer_id", inv.CustomerID), slog.Any("error", err))
		customer = nil
	}

	html, err := h.renderer.RenderInvoice(InvoiceDocument{
		Invoice:     inv,
		Customer:    customer,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		h.logger.Error("render invoice", slog.Int64("id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return nil, nil, false
	}
	return html, inv, true
}
