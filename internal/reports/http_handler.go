package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/httpx"
)

// Handler exposes the reporting endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the reports HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the reports endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/sales", h.sales)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	sales, err := h.service.Sales(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to build sales report", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "ReportFailed", "failed to load sales report")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sales)
}
