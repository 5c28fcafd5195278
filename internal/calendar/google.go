package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"demobooking/internal/config"
	"demobooking/internal/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleFallbackMeetLink is returned when the created event carries no
// conference link of its own.
const GoogleFallbackMeetLink = "https://meet.google.com/new"

type GoogleConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	CalendarID          string
	EnableMeet          bool
	InviteAttendees     bool
}

func GoogleConfigFromEnv(cfg *config.Config) GoogleConfig {
	return GoogleConfig{
		ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
		PrivateKey:          cfg.GooglePrivateKey,
		CalendarID:          cfg.GoogleCalendarID,
		EnableMeet:          cfg.GoogleEnableMeet,
		InviteAttendees:     cfg.GoogleInviteAttendees,
	}
}

// Missing lists the unset environment variables.
func (c GoogleConfig) Missing() []string {
	var missing []string
	if c.ServiceAccountEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if c.CalendarID == "" {
		missing = append(missing, "GOOGLE_CALENDAR_ID")
	}
	return missing
}

// GoogleProvider writes events through the Calendar v3 API as a service
// account.
type GoogleProvider struct {
	cfg     GoogleConfig
	service *gcal.Service
	tokens  oauth2.TokenSource
	logger  *zap.Logger

	newRequestID func() string
}

// NewGoogleProvider builds the API client. Extra options are applied after
// the service account token source, so WithHTTPClient replaces it.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleProvider, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, configError(ProviderGoogle, missing)
	}

	jwtCfg := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{gcal.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}
	tokens := jwtCfg.TokenSource(ctx)

	clientOpts := append([]option.ClientOption{option.WithTokenSource(tokens)}, opts...)
	svc, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	return &GoogleProvider{
		cfg:          cfg,
		service:      svc,
		tokens:       tokens,
		logger:       logger,
		newRequestID: uuid.NewString,
	}, nil
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) Ready() error { return nil }

func (p *GoogleProvider) Warm(ctx context.Context) error {
	if _, err := p.tokens.Token(); err != nil {
		return p.classify(err, "Failed to obtain Google access token")
	}
	return nil
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, ev entities.CalendarEvent) (*entities.CalendarEventResult, error) {
	created, err := p.insert(ctx, ev, p.cfg.EnableMeet)
	if err != nil && p.cfg.EnableMeet && conferenceRejected(err) {
		p.logger.Warn("conferencing rejected, creating event without it", zap.Error(err))
		created, err = p.insert(ctx, ev, false)
	}
	if err != nil {
		p.logger.Error("google event insert failed", zap.Error(err))
		return nil, p.classify(err, "Failed to create calendar event")
	}

	link := meetLink(created)
	if link == "" {
		link = GoogleFallbackMeetLink
	}
	p.logger.Info("google event created", zap.String("event_id", created.Id), zap.Bool("native_link", created.HangoutLink != ""))

	return &entities.CalendarEventResult{Success: true, MeetLink: link, EventID: created.Id}, nil
}

func (p *GoogleProvider) insert(ctx context.Context, ev entities.CalendarEvent, withMeet bool) (*gcal.Event, error) {
	event := &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       eventTime(ev.Start, ev.TimeZone),
		End:         eventTime(ev.End, ev.TimeZone),
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       []*gcal.EventReminder{{Method: "popup", Minutes: 30}},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if p.cfg.InviteAttendees {
		for _, email := range ev.Attendees {
			event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
		}
	}

	call := p.service.Events.Insert(p.cfg.CalendarID, event).SendUpdates("none").Context(ctx)
	if withMeet {
		event.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             p.newRequestID(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		call = call.ConferenceDataVersion(1)
	}
	return call.Do()
}

func (p *GoogleProvider) UpdateEvent(ctx context.Context, eventID string, patch entities.CalendarEventPatch) (*entities.CalendarEventResult, error) {
	event := &gcal.Event{
		Summary:     patch.Title,
		Description: patch.Description,
	}
	if patch.Start != nil {
		event.Start = eventTime(*patch.Start, patch.TimeZone)
	}
	if patch.End != nil {
		event.End = eventTime(*patch.End, patch.TimeZone)
	}
	if p.cfg.InviteAttendees {
		for _, email := range patch.Attendees {
			event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
		}
	}

	updated, err := p.service.Events.Patch(p.cfg.CalendarID, eventID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, p.classify(err, "Failed to update calendar event")
	}
	return &entities.CalendarEventResult{Success: true, MeetLink: meetLink(updated), EventID: updated.Id}, nil
}

func (p *GoogleProvider) DeleteEvent(ctx context.Context, eventID string) error {
	if err := p.service.Events.Delete(p.cfg.CalendarID, eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return p.classify(err, "Failed to delete calendar event")
	}
	return nil
}

func (p *GoogleProvider) classify(err error, fallback string) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		return &CalendarError{
			Kind:    KindAuth,
			Message: "Google Calendar authentication failed. Please check service account credentials.",
			Err:     err,
		}
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &CalendarError{Kind: KindProvider, Message: messageOr(err.Error(), fallback), Err: err}
	}
	switch gerr.Code {
	case http.StatusUnauthorized:
		return &CalendarError{
			Kind:    KindAuth,
			Message: "Google Calendar authentication failed. Please check service account credentials.",
			Err:     err,
		}
	case http.StatusForbidden:
		return &CalendarError{
			Kind:    KindPermission,
			Message: fmt.Sprintf("Permission denied. Please share the calendar %q with the service account.", p.cfg.CalendarID),
			Err:     err,
		}
	}
	return &CalendarError{Kind: KindProvider, Message: messageOr(gerr.Message, fallback), Err: err}
}

// conferenceRejected reports whether an insert failed because the calendar
// refused to attach a conference.
func conferenceRejected(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return strings.Contains(strings.ToLower(err.Error()), "conference")
	}
	if gerr.Code == http.StatusForbidden || strings.Contains(strings.ToLower(gerr.Message), "conference") {
		return true
	}
	for _, item := range gerr.Errors {
		if strings.Contains(strings.ToLower(item.Message), "conference") {
			return true
		}
	}
	return false
}

// meetLink prefers the event's hangout link, then its video entry point.
func meetLink(ev *gcal.Event) string {
	if ev == nil {
		return ""
	}
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}

func eventTime(t time.Time, timezone string) *gcal.EventDateTime {
	if timezone == "" {
		timezone = "UTC"
	}
	return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: timezone}
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
