package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/httpx"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the auth HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the auth endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	user, token, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.WriteError(w, http.StatusConflict, "EmailTaken", err.Error())
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "RegistrationFailed", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "InvalidBody", "request body must be JSON")
		return
	}
	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "LoginFailed", "failed to log in")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}
