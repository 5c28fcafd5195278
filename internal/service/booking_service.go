package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"demobooking/internal/calendar"
	"demobooking/internal/entities"
	apperrors "demobooking/internal/errors"
	"demobooking/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlaceholderMeetLink is returned when the provider produced no link.
const PlaceholderMeetLink = "Calendar event created - meeting link will be sent separately"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Notifier interface {
	SendCustomerConfirmation(ctx context.Context, b entities.BookingRequest, slot entities.Slot, meetLink string) NotifyResult
	SendAdminNotification(ctx context.Context, b entities.BookingRequest, slot entities.Slot, meetLink string) NotifyResult
	SendAdminSMS(ctx context.Context, b entities.BookingRequest, slot entities.Slot) NotifyResult
}

type BookingService struct {
	provider   calendar.Provider
	notifier   Notifier
	brand      string
	adminEmail string
	logger     *zap.Logger
}

func NewBookingService(provider calendar.Provider, notifier Notifier, brand, adminEmail string, logger *zap.Logger) *BookingService {
	return &BookingService{
		provider:   provider,
		notifier:   notifier,
		brand:      brand,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// ValidateBooking checks the required fields and the email format, then
// resolves the requested slot.
func ValidateBooking(b entities.BookingRequest) (entities.Slot, error) {
	required := []string{
		b.FirstName, b.LastName, b.WorkEmail, b.PhoneNumber, b.Company,
		b.BusinessType, b.Readiness, b.Date, b.Time, b.Timezone,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return entities.Slot{}, apperrors.ErrBadRequest(apperrors.MsgMissingFields)
		}
	}
	if !emailPattern.MatchString(b.WorkEmail) {
		return entities.Slot{}, apperrors.ErrBadRequest(apperrors.MsgInvalidEmail)
	}

	slot, err := utils.ResolveSlot(b.Date, b.Time, b.Timezone)
	if err != nil {
		return entities.Slot{}, apperrors.Wrap(http.StatusBadRequest, apperrors.MsgInvalidSchedule, err)
	}
	return slot, nil
}

// Book validates the request, creates the calendar event and sends the
// notifications. Returned errors are *errors.HTTPError.
func (s *BookingService) Book(ctx context.Context, b entities.BookingRequest) (*entities.BookingResponse, error) {
	slot, err := ValidateBooking(b)
	if err != nil {
		return nil, err
	}

	if err := s.provider.Ready(); err != nil {
		s.logger.Error("calendar provider not configured", zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.MsgNotConfigured, err)
	}

	s.logger.Info("demo booking received",
		zap.String("company", b.Company),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.String("timezone", b.Timezone),
	)

	result, err := s.provider.CreateEvent(ctx, s.eventFor(b, slot))
	if err == nil && !result.Success {
		err = errors.New(result.Error)
	}
	if err != nil {
		s.logger.Error("failed to create calendar event", zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil, apperrors.Wrap(http.StatusInternalServerError, eventErrorMessage(err), err)
	}

	meetLink := result.MeetLink
	if meetLink == "" {
		s.logger.Warn("no meeting link generated", zap.String("event_id", result.EventID))
		meetLink = PlaceholderMeetLink
	}

	s.notify(ctx, b, slot, meetLink)

	return &entities.BookingResponse{
		Success:  true,
		MeetLink: meetLink,
		EventID:  result.EventID,
	}, nil
}

func (s *BookingService) eventFor(b entities.BookingRequest, slot entities.Slot) entities.CalendarEvent {
	message := b.Message
	if strings.TrimSpace(message) == "" {
		message = "No message provided"
	}
	return entities.CalendarEvent{
		Title: fmt.Sprintf("%s Demo - %s %s", s.brand, b.FirstName, b.LastName),
		Description: fmt.Sprintf("Demo booking for %s\n\nBusiness Type: %s\nReadiness: %s\n\nMessage: %s",
			b.Company, b.BusinessType, b.Readiness, message),
		Start:     slot.Start,
		End:       slot.End,
		TimeZone:  slot.TimeZone,
		Attendees: entities.FilterAttendees(b.WorkEmail, s.adminEmail),
	}
}

// notify runs every notification concurrently and waits for all of them.
// Failures are logged and dropped.
func (s *BookingService) notify(ctx context.Context, b entities.BookingRequest, slot entities.Slot, meetLink string) {
	results := make([]NotifyResult, 3)

	var g errgroup.Group
	g.Go(func() error {
		results[0] = s.notifier.SendCustomerConfirmation(ctx, b, slot, meetLink)
		return nil
	})
	g.Go(func() error {
		results[1] = s.notifier.SendAdminNotification(ctx, b, slot, meetLink)
		return nil
	})
	g.Go(func() error {
		results[2] = s.notifier.SendAdminSMS(ctx, b, slot)
		return nil
	})
	_ = g.Wait()

	for _, r := range results {
		switch {
		case r.Skipped:
			s.logger.Debug("notification skipped", zap.String("channel", r.Channel))
		case r.Err != nil:
			s.logger.Error("notification failed", zap.String("channel", r.Channel), zap.String("to", r.Recipient), zap.Error(r.Err))
		default:
			s.logger.Info("notification sent", zap.String("channel", r.Channel), zap.String("to", r.Recipient))
		}
	}
}

func eventErrorMessage(err error) string {
	var cerr *calendar.CalendarError
	if errors.As(err, &cerr) && cerr.Message != "" {
		return cerr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return apperrors.MsgCreateEventFailed
}
