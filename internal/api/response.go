package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"demobooking/internal/entities"
	apperrors "demobooking/internal/errors"

	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"success":false,"error":...}. Anything that is
// not an HTTPError becomes a generic 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var herr *apperrors.HTTPError
	if !errors.As(err, &herr) {
		herr = apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgInternal, err)
	}
	if herr.Code >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", herr.Code), zap.String("message", herr.Message), zap.Error(herr.Err))
	}
	writeJSON(w, herr.Code, entities.BookingResponse{Success: false, Error: herr.Message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(http.StatusBadRequest, apperrors.MsgInvalidBody, err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, entities.BookingResponse{Success: false, Error: apperrors.MsgMethodNotAllowed})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	herr := apperrors.ErrNotFound(apperrors.MsgNotFound)
	writeJSON(w, herr.Code, entities.BookingResponse{Success: false, Error: herr.Message})
}
