// Package customer implements the customer CRUD surface.
package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/httpx"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Input is the JSON payload for creating or updating a customer.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return errors.New("email is not valid")
	}
	return nil
}

// Handler exposes the customer CRUD endpoints.
type Handler struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

// NewHandler creates the customer HTTP handler.
func NewHandler(customers repository.CustomerRepository, logger *zap.Logger) *Handler {
	return &Handler{customers: customers, logger: logger}
}

// Routes mounts the customer endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	customers, err := h.customers.List(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "ListFailed", "failed to fetch customers")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	httpx.WriteJSON(w, http.StatusOK, customers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "customer id must be a UUID")
		return
	}
	customer, err := h.customers.GetByID(r.Context(), orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "customer not found")
			return
		}
		h.logger.Error("failed to get customer", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "GetFailed", "failed to fetch customer")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customer)
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
	customer := domain.NewCustomer(orgID, strings.TrimSpace(in.Name))
	customer.Email = strings.TrimSpace(in.Email)
	customer.Phone = strings.TrimSpace(in.Phone)
	customer.Address = strings.TrimSpace(in.Address)

	created, err := h.customers.Create(r.Context(), customer)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "CreateFailed", "failed to create customer")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "customer id must be a UUID")
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

	existing, err := h.customers.GetByID(r.Context(), orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "customer not found")
			return
		}
		h.logger.Error("failed to load customer", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "UpdateFailed", "failed to update customer")
		return
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Email = strings.TrimSpace(in.Email)
	existing.Phone = strings.TrimSpace(in.Phone)
	existing.Address = strings.TrimSpace(in.Address)
	existing.UpdatedAt = time.Now().UTC()

	updated, err := h.customers.Update(r.Context(), existing)
	if err != nil {
		h.logger.Error("failed to update customer", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "UpdateFailed", "failed to update customer")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "customer id must be a UUID")
		return
	}
	if err := h.customers.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "customer not found")
			return
		}
		h.logger.Error("failed to delete customer", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "DeleteFailed", "failed to delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
