package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"demobooking/internal/calendar"
	"demobooking/internal/entities"
	apperrors "demobooking/internal/errors"
	"demobooking/internal/utils"

	"go.uber.org/zap"
)

// AdminService edits and cancels booked events on behalf of an admin.
type AdminService struct {
	provider calendar.Provider
	logger   *zap.Logger
}

func NewAdminService(provider calendar.Provider, logger *zap.Logger) *AdminService {
	return &AdminService{provider: provider, logger: logger}
}

func (s *AdminService) UpdateEvent(ctx context.Context, eventID string, req entities.EventUpdateRequest) (*entities.CalendarEventResult, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, apperrors.ErrBadRequest("Missing event id")
	}

	patch := entities.CalendarEventPatch{
		Title:       req.Title,
		Description: req.Description,
		TimeZone:    req.Timezone,
		Attendees:   entities.FilterAttendees(req.Attendees...),
	}
	switch {
	case req.Date != "" && req.Time != "":
		tz := req.Timezone
		if tz == "" {
			tz = "UTC"
		}
		slot, err := utils.ResolveSlot(req.Date, req.Time, tz)
		if err != nil {
			return nil, apperrors.Wrap(http.StatusBadRequest, apperrors.MsgInvalidSchedule, err)
		}
		patch.Start, patch.End, patch.TimeZone = &slot.Start, &slot.End, slot.TimeZone
	case req.Date != "" || req.Time != "":
		return nil, apperrors.ErrBadRequest("Both date and time are required to reschedule")
	}

	if err := s.provider.Ready(); err != nil {
		return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgNotConfigured, err)
	}

	result, err := s.provider.UpdateEvent(ctx, eventID, patch)
	if err != nil {
		s.logger.Error("failed to update event", zap.String("event_id", eventID), zap.Error(err))
		return nil, calendarHTTPError(err)
	}
	s.logger.Info("event updated", zap.String("event_id", eventID))
	return result, nil
}

func (s *AdminService) DeleteEvent(ctx context.Context, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return apperrors.ErrBadRequest("Missing event id")
	}
	if err := s.provider.Ready(); err != nil {
		return apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgNotConfigured, err)
	}
	if err := s.provider.DeleteEvent(ctx, eventID); err != nil {
		s.logger.Error("failed to delete event", zap.String("event_id", eventID), zap.Error(err))
		return calendarHTTPError(err)
	}
	s.logger.Info("event deleted", zap.String("event_id", eventID))
	return nil
}

// calendarHTTPError maps a provider failure on an admin route to a status.
func calendarHTTPError(err error) *apperrors.HTTPError {
	var cerr *calendar.CalendarError
	if !errors.As(err, &cerr) {
		return apperrors.Wrap(http.StatusBadGateway, err.Error(), err)
	}
	switch cerr.Kind {
	case calendar.KindConfig:
		return apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgNotConfigured, err)
	case calendar.KindNotFound:
		return apperrors.Wrap(http.StatusNotFound, cerr.Message, err)
	default:
		return apperrors.Wrap(http.StatusBadGateway, cerr.Message, err)
	}
}
