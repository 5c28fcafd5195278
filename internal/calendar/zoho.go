package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"demobooking/internal/config"
	"demobooking/internal/entities"

	"github.com/sendgrid/rest"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const zohoTimeLayout = "20060102T150405"

type ZohoConfig struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	CalendarID     string
	Region         string
	EnableMeeting  bool
	OrganizationID string
	PresenterZUID  string

	// Base URLs derived from Region when empty.
	AccountsURL string
	CalendarURL string
	MeetingURL  string
}

func ZohoConfigFromEnv(cfg *config.Config) ZohoConfig {
	return ZohoConfig{
		ClientID:       cfg.ZohoClientID,
		ClientSecret:   cfg.ZohoClientSecret,
		RefreshToken:   cfg.ZohoRefreshToken,
		CalendarID:     cfg.ZohoCalendarID,
		Region:         cfg.ZohoRegion,
		EnableMeeting:  cfg.ZohoEnableMeeting,
		OrganizationID: cfg.ZohoOrganizationID,
		PresenterZUID:  cfg.ZohoPresenterZUID,
	}
}

// Missing lists the unset environment variables.
func (c ZohoConfig) Missing() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "ZOHO_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "ZOHO_CLIENT_SECRET")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "ZOHO_REFRESH_TOKEN")
	}
	if c.CalendarID == "" {
		missing = append(missing, "ZOHO_CALENDAR_ID")
	}
	if c.EnableMeeting && c.OrganizationID == "" {
		missing = append(missing, "ZOHO_ORGANIZATION_ID")
	}
	return missing
}

func (c ZohoConfig) withDefaults() ZohoConfig {
	if c.Region == "" {
		c.Region = "com"
	}
	if c.AccountsURL == "" {
		c.AccountsURL = "https://accounts.zoho." + c.Region
	}
	if c.CalendarURL == "" {
		c.CalendarURL = "https://calendar.zoho." + c.Region + "/api/v1"
	}
	if c.MeetingURL == "" {
		c.MeetingURL = "https://meeting.zoho." + c.Region + "/api/v2"
	}
	return c
}

// ZohoTokenFetcher exchanges the refresh token at the regional accounts
// server. Each call performs exactly one request.
func ZohoTokenFetcher(cfg ZohoConfig, httpClient *http.Client) TokenFetcher {
	cfg = cfg.withDefaults()
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.AccountsURL + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return func(ctx context.Context) (*oauth2.Token, error) {
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		return oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}).Token()
	}
}

// ZohoProvider writes events through the Zoho Calendar REST API and, when
// enabled, attaches a Zoho Meeting session.
type ZohoProvider struct {
	cfg    ZohoConfig
	client *rest.Client
	tokens *TokenCache
	logger *zap.Logger
}

// NewZohoProvider builds the adapter. A nil token cache is replaced by one
// backed by ZohoTokenFetcher; a nil HTTP client means http.DefaultClient.
func NewZohoProvider(cfg ZohoConfig, tokens *TokenCache, httpClient *http.Client, logger *zap.Logger) (*ZohoProvider, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, configError(ProviderZoho, missing)
	}
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tokens == nil {
		tokens = NewTokenCache(ZohoTokenFetcher(cfg, httpClient), time.Now)
	}
	return &ZohoProvider{
		cfg:    cfg,
		client: &rest.Client{HTTPClient: httpClient},
		tokens: tokens,
		logger: logger,
	}, nil
}

func (p *ZohoProvider) Name() string { return ProviderZoho }

func (p *ZohoProvider) Ready() error { return nil }

func (p *ZohoProvider) Warm(ctx context.Context) error {
	_, err := p.accessToken(ctx)
	return err
}

type zohoAttendee struct {
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

type zohoDateAndTime struct {
	Timezone string `json:"timezone"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type zohoEventData struct {
	UID         string           `json:"uid,omitempty"`
	Title       string           `json:"title,omitempty"`
	DateAndTime *zohoDateAndTime `json:"dateandtime,omitempty"`
	Attendees   []zohoAttendee   `json:"attendees,omitempty"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
}

type zohoEvent struct {
	UID          string `json:"uid"`
	ID           string `json:"id"`
	ViewEventURL string `json:"viewEventURL"`
}

func (e zohoEvent) eventID() string {
	if e.UID != "" {
		return e.UID
	}
	return e.ID
}

func (p *ZohoProvider) CreateEvent(ctx context.Context, ev entities.CalendarEvent) (*entities.CalendarEventResult, error) {
	// Authenticate once before the meeting and the event calls.
	if _, err := p.accessToken(ctx); err != nil {
		return nil, err
	}

	var link string
	if p.cfg.EnableMeeting {
		l, err := p.createMeeting(ctx, ev)
		if err != nil {
			p.logger.Warn("zoho meeting not created, continuing without it", zap.Error(err))
		} else {
			link = l
		}
	}

	data := zohoEventData{
		Title:       ev.Title,
		DateAndTime: zohoWindow(ev.Start, ev.End, ev.TimeZone),
		Description: ev.Description,
	}
	for _, email := range ev.Attendees {
		data.Attendees = append(data.Attendees, zohoAttendee{Email: email, Status: "NEEDS-ACTION"})
	}
	if link != "" {
		data.Description += "\n\nJoin Meeting: " + link
		data.Location = "Online (Zoho Meeting)"
	}

	resp, err := p.eventRequest(ctx, rest.Post, p.eventsPath(""), data)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, p.statusError(resp, "Failed to create calendar event")
	}

	created, ok := parseZohoEvent(resp.Body)
	if !ok {
		return nil, &CalendarError{Kind: KindProvider, Message: "No event data returned from Zoho Calendar API"}
	}
	if link == "" {
		link = created.ViewEventURL
	}
	p.logger.Info("zoho event created", zap.String("event_id", created.eventID()), zap.Bool("meeting", link != ""))

	return &entities.CalendarEventResult{Success: true, MeetLink: link, EventID: created.eventID()}, nil
}

func (p *ZohoProvider) UpdateEvent(ctx context.Context, eventID string, patch entities.CalendarEventPatch) (*entities.CalendarEventResult, error) {
	data := zohoEventData{
		UID:         eventID,
		Title:       patch.Title,
		Description: patch.Description,
	}
	if patch.Start != nil && patch.End != nil {
		data.DateAndTime = zohoWindow(*patch.Start, *patch.End, patch.TimeZone)
	}
	for _, email := range patch.Attendees {
		data.Attendees = append(data.Attendees, zohoAttendee{Email: email, Status: "NEEDS-ACTION"})
	}

	resp, err := p.eventRequest(ctx, rest.Put, p.eventsPath(eventID), data)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, p.statusError(resp, "Failed to update calendar event")
	}

	updated, ok := parseZohoEvent(resp.Body)
	if !ok {
		updated = zohoEvent{UID: eventID}
	}
	return &entities.CalendarEventResult{Success: true, MeetLink: updated.ViewEventURL, EventID: updated.eventID()}, nil
}

func (p *ZohoProvider) DeleteEvent(ctx context.Context, eventID string) error {
	resp, err := p.send(ctx, rest.Request{
		Method:  rest.Delete,
		BaseURL: p.cfg.CalendarURL + p.eventsPath(eventID),
	})
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return p.statusError(resp, "Failed to delete calendar event")
	}
	return nil
}

func (p *ZohoProvider) eventsPath(eventID string) string {
	path := "/calendars/" + url.PathEscape(p.cfg.CalendarID) + "/events"
	if eventID != "" {
		path += "/" + url.PathEscape(eventID)
	}
	return path
}

// eventRequest sends the event as the eventdata query parameter, which is
// where the Calendar API reads it from.
func (p *ZohoProvider) eventRequest(ctx context.Context, method rest.Method, path string, data zohoEventData) (*rest.Response, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event data: %w", err)
	}
	return p.send(ctx, rest.Request{
		Method:      method,
		BaseURL:     p.cfg.CalendarURL + path,
		QueryParams: map[string]string{"eventdata": string(payload)},
	})
}

// send attaches the cached access token and performs the request.
func (p *ZohoProvider) send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers["Authorization"] = "Zoho-oauthtoken " + token

	resp, err := p.client.SendWithContext(ctx, req)
	if err != nil {
		return nil, &CalendarError{Kind: KindProvider, Message: "Failed to reach Zoho API", Err: err}
	}
	return resp, nil
}

func (p *ZohoProvider) accessToken(ctx context.Context) (string, error) {
	token, err := p.tokens.AccessToken(ctx)
	if err != nil {
		p.logger.Error("zoho token refresh failed", zap.Error(err))
		return "", &CalendarError{Kind: KindAuth, Message: "Failed to authenticate with Zoho Calendar API", Err: err}
	}
	return token, nil
}

func (p *ZohoProvider) statusError(resp *rest.Response, fallback string) error {
	err := fmt.Errorf("zoho status %d: %s", resp.StatusCode, resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		p.tokens.Invalidate()
		return &CalendarError{Kind: KindAuth, Message: "Zoho Calendar authentication failed. Please check your credentials.", Err: err}
	case http.StatusForbidden:
		return &CalendarError{
			Kind:    KindPermission,
			Message: fmt.Sprintf("Permission denied. Ensure the calendar ID %q is correct and accessible.", p.cfg.CalendarID),
			Err:     err,
		}
	case http.StatusNotFound:
		return &CalendarError{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("Calendar not found. Please verify the calendar ID %q.", p.cfg.CalendarID),
			Err:     err,
		}
	}
	return &CalendarError{Kind: KindProvider, Message: messageOr(zohoMessage(resp.Body), fallback), Err: err}
}

// zohoWindow renders the times as wall-clock values in the event's zone.
func zohoWindow(start, end time.Time, timezone string) *zohoDateAndTime {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		timezone, loc = "UTC", time.UTC
	}
	return &zohoDateAndTime{
		Timezone: timezone,
		Start:    start.In(loc).Format(zohoTimeLayout),
		End:      end.In(loc).Format(zohoTimeLayout),
	}
}

// parseZohoEvent accepts {"eventdata":[...]}, {"events":[...]} or a bare
// event object.
func parseZohoEvent(body string) (zohoEvent, bool) {
	var envelope struct {
		EventData []zohoEvent `json:"eventdata"`
		Events    []zohoEvent `json:"events"`
		zohoEvent
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return zohoEvent{}, false
	}
	switch {
	case len(envelope.EventData) > 0 && envelope.EventData[0].eventID() != "":
		return envelope.EventData[0], true
	case len(envelope.Events) > 0 && envelope.Events[0].eventID() != "":
		return envelope.Events[0], true
	case envelope.eventID() != "":
		return envelope.zohoEvent, true
	}
	return zohoEvent{}, false
}

func zohoMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
