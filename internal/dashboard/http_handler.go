package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/httpx"
)

// Handler exposes the dashboard snapshot endpoint.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the dashboard HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the dashboard endpoint on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	snapshot, err := h.service.Snapshot(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to build dashboard snapshot", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "DashboardFailed", "failed to load dashboard data")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snapshot)
}
