package api

import (
	"net/http"

	"demobooking/internal/calendar"
)

type HealthHandler struct {
	provider calendar.Provider
}

func NewHealthHandler(provider calendar.Provider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

type HealthResponse struct {
	Status     string `json:"status"`
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Provider:   h.provider.Name(),
		Configured: h.provider.Ready() == nil,
	})
}
