package catalog

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

// Handler exposes the product CRUD endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the product endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Get("/barcode/{barcode}", h.getByBarcode)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	products, err := h.service.List(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "ListFailed", "failed to fetch products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "product id must be a UUID")
		return
	}
	product, err := h.service.Get(r.Context(), orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "product not found")
			return
		}
		h.logger.Error("failed to get product", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "GetFailed", "failed to fetch product")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) getByBarcode(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	product, err := h.service.GetByBarcode(r.Context(), orgID, chi.URLParam(r, "barcode"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "product not found")
			return
		}
		h.logger.Error("failed to get product by barcode", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "GetFailed", "failed to fetch product")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	product, err := h.service.Create(r.Context(), orgID, in)
	if err != nil {
		h.writeServiceError(w, err, "failed to create product")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "product id must be a UUID")
		return
	}
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	product, err := h.service.Update(r.Context(), orgID, id, in)
	if err != nil {
		h.writeServiceError(w, err, "failed to update product")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidID", "product id must be a UUID")
		return
	}
	if err := h.service.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "NotFound", "product not found")
			return
		}
		h.logger.Error("failed to delete product", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "DeleteFailed", "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "ValidationError", err.Error())
	case errors.Is(err, repository.ErrDuplicateSKU):
		httpx.WriteError(w, http.StatusConflict, "Conflict", "SKU already exists")
	case errors.Is(err, repository.ErrDuplicateBarcode):
		httpx.WriteError(w, http.StatusConflict, "Conflict", "Barcode already exists")
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NotFound", "product not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "InternalError", fallback)
	}
}
