package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/httpx"
)

// Handler exposes the charge endpoint.
type Handler struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewHandler creates the payment HTTP handler.
func NewHandler(gateway Gateway, logger *zap.Logger) *Handler {
	return &Handler{gateway: gateway, logger: logger}
}

// Routes mounts the payment endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/charge", h.charge)
}

func (h *Handler) charge(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.OrgIDFromContext(r.Context()); !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}
	var req ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	if req.Amount <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "ValidationError", "amount must be positive")
		return
	}

	result, err := h.gateway.Charge(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			httpx.WriteError(w, http.StatusServiceUnavailable, "NotConfigured", "payment gateway not configured")
		case errors.Is(err, ErrGatewayUnavailable):
			h.logger.Warn("payment gateway error", zap.Error(err))
			httpx.WriteError(w, http.StatusBadGateway, "GatewayError", "payment gateway unavailable")
		default:
			h.logger.Error("charge failed", zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, "ChargeFailed", "failed to process charge")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}
