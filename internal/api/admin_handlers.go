package api

import (
	"net/http"

	"demobooking/internal/auth"
	"demobooking/internal/entities"
	"demobooking/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	Service *service.AdminService
	logger  *zap.Logger
}

func NewAdminHandler(svc *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Service: svc, logger: logger}
}

// UpdateEvent handles PATCH /admin/events/{id}.
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req entities.EventUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.Service.UpdateEvent(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("admin updated event", zap.String("event_id", id), zap.String("admin", auth.AdminEmail(r.Context())))
	writeJSON(w, http.StatusOK, result)
}

// DeleteEvent handles DELETE /admin/events/{id}.
func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Service.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("admin deleted event", zap.String("event_id", id), zap.String("admin", auth.AdminEmail(r.Context())))
	writeJSON(w, http.StatusOK, entities.CalendarEventResult{Success: true, EventID: id})
}
