// Package invoice implements the invoice CRUD surface. Totals are always
// recomputed server-side from the submitted line items.
package invoice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/httpx"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Input is the JSON payload for creating an invoice.
type Input struct {
	CustomerID    *uuid.UUID           `json:"customerId"`
	Items         []domain.InvoiceItem `json:"items"`
	Discount      float64              `json:"discount"`
	PaymentMethod string               `json:"paymentMethod"`
}

func (in Input) validate() error {
	if len(in.Items) == 0 {
		return errors.New("at least one line item is required")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return errors.New("item unit price cannot be negative")
		}
	}
	if in.Discount < 0 {
		return errors.New("discount cannot be negative")
	}
	return nil
}

// Handler exposes the invoice endpoints.
type Handler struct {
	invoices repository.InvoiceRepository
	logger   *zap.Logger
}

// NewHandler creates the invoice HTTP handler.
func NewHandler(invoices repository.InvoiceRepository, logger *zap.Logger) *Handler {
	return &Handler{invoices: invoices, logger: logger}
}

// Routes mounts the invoice endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	invoices, err := h.invoices.List(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list invoices", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "ListFailed", "failed to fetch invoices")
		return
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	httpx.WriteJSON(w, http.StatusOK, invoices)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "invoice id must be a UUID")
		return
	}
	invoice, err := h.invoices.GetByID(r.Context(), orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "invoice not found")
			return
		}
		h.logger.Error("failed to get invoice", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "GetFailed", "failed to fetch invoice")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invoice)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	if err := in.validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "ValidationError", err.Error())
		return
	}

	invoice := domain.NewInvoice(orgID, in.CustomerID, in.Items, in.Discount, in.PaymentMethod)
	created, err := h.invoices.Create(r.Context(), invoice)
	if err != nil {
		h.logger.Error("failed to create invoice", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "CreateFailed", "failed to create invoice")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "invoice id must be a UUID")
		return
	}
	if err := h.invoices.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "invoice not found")
			return
		}
		h.logger.Error("failed to delete invoice", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "DeleteFailed", "failed to delete invoice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
