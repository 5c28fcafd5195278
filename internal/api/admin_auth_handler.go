package api

import (
	"errors"
	"net/http"

	apperrors "demobooking/internal/errors"
	"demobooking/internal/service"

	"go.uber.org/zap"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
	logger  *zap.Logger
}

func NewAdminAuthHandler(svc service.AdminAuthService, logger *zap.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.logger.Warn("admin login rejected", zap.String("email", req.Email))
		writeError(w, h.logger, apperrors.ErrUnauthorized("Invalid credentials"))
		return
	case err != nil:
		writeError(w, h.logger, apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgInternal, err))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
