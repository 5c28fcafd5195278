package api

import (
	"net/http"

	"demobooking/internal/entities"
	"demobooking/internal/service"

	"go.uber.org/zap"
)

type BookingHandler struct {
	Service *service.BookingService
	logger  *zap.Logger
}

func NewBookingHandler(svc *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, logger: logger}
}

// BookDemo handles POST /api/book-demo.
func (h *BookingHandler) BookDemo(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp, err := h.Service.Book(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
