package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"demobooking/internal/auth"
	"demobooking/internal/calendar"
	"demobooking/internal/entities"
	"demobooking/internal/service"

	"github.com/gorilla/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	mu      sync.Mutex
	created int
	deleted []string
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Ready() error { return nil }

func (p *stubProvider) CreateEvent(context.Context, entities.CalendarEvent) (*entities.CalendarEventResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	return &entities.CalendarEventResult{Success: true, EventID: "evt-1", MeetLink: "https://meet.google.com/abc"}, nil
}

func (p *stubProvider) UpdateEvent(_ context.Context, id string, _ entities.CalendarEventPatch) (*entities.CalendarEventResult, error) {
	return &entities.CalendarEventResult{Success: true, EventID: id}, nil
}

func (p *stubProvider) DeleteEvent(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *stubProvider) Warm(context.Context) error { return nil }

type stubNotifier struct{}

func (stubNotifier) SendCustomerConfirmation(context.Context, entities.BookingRequest, entities.Slot, string) service.NotifyResult {
	return service.NotifyResult{Sent: true}
}

func (stubNotifier) SendAdminNotification(context.Context, entities.BookingRequest, entities.Slot, string) service.NotifyResult {
	return service.NotifyResult{Skipped: true}
}

func (stubNotifier) SendAdminSMS(context.Context, entities.BookingRequest, entities.Slot) service.NotifyResult {
	return service.NotifyResult{Skipped: true}
}

const testSecret = "test-secret"

func newTestRouter(t *testing.T, provider calendar.Provider, perMinute int) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	hash, err := service.HashPassword("s3cret")
	require.NoError(t, err)

	h := Handlers{
		Booking:   NewBookingHandler(service.NewBookingService(provider, stubNotifier{}, "Acme", "", logger), logger),
		Admin:     NewAdminHandler(service.NewAdminService(provider, logger), logger),
		AdminAuth: NewAdminAuthHandler(service.NewAdminAuthService("admin@example.com", hash, testSecret), logger),
		Health:    NewHealthHandler(provider),
	}
	return NewRouter(h, NewRateLimiter(perMinute, logger), auth.AdminAuthMiddleware(testSecret))
}

func bookingBody() map[string]string {
	return map[string]string{
		"firstName":        "Ada",
		"lastName":         "Lovelace",
		"workEmail":        "ada@example.com",
		"phoneCountryCode": "+1",
		"phoneNumber":      "5550100",
		"company":          "Analytical Engines",
		"businessType":     "Brand",
		"readiness":        "Ready now",
		"date":             "2025-12-01",
		"time":             "2:30pm",
		"timezone":         "America/New_York",
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBookDemo(t *testing.T) {
	p := &stubProvider{}
	rec := do(t, newTestRouter(t, p, 0), http.MethodPost, "/api/book-demo", bookingBody(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"meetLink":"https://meet.google.com/abc","eventId":"evt-1"}`, rec.Body.String())
	assert.Equal(t, 1, p.created)
}

func TestBookDemoMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(t, newTestRouter(t, &stubProvider{}, 0), method, "/api/book-demo", nil, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.JSONEq(t, `{"success":false,"error":"Method not allowed"}`, rec.Body.String())
	}
}

func TestBookDemoBadRequests(t *testing.T) {
	missing := bookingBody()
	delete(missing, "company")
	badEmail := bookingBody()
	badEmail["workEmail"] = "not-an-email"

	cases := []struct {
		name string
		body any
		want string
	}{
		{"malformed json", `{"firstName":`, "Invalid request body"},
		{"missing field", missing, "Missing required fields. Please fill out all required fields."},
		{"bad email", badEmail, "Invalid email format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProvider{}
			rec := do(t, newTestRouter(t, p, 0), http.MethodPost, "/api/book-demo", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp entities.BookingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.want, resp.Error)
			assert.Zero(t, p.created)
		})
	}
}

func TestBookDemoNotConfigured(t *testing.T) {
	rec := do(t, newTestRouter(t, &calendar.Unconfigured{}, 0), http.MethodPost, "/api/book-demo", bookingBody(), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Calendar service is not configured. Please contact support."}`, rec.Body.String())
}

func postFrom(t *testing.T, h http.Handler, remoteAddr string, header map[string]string) int {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(bookingBody()))
	req := httptest.NewRequest(http.MethodPost, "/api/book-demo", &buf)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestBookDemoRateLimited(t *testing.T) {
	h := newTestRouter(t, &stubProvider{}, 1)

	assert.Equal(t, http.StatusOK, postFrom(t, h, "203.0.113.7:5000", nil))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(t, h, "203.0.113.7:5001", nil))
	assert.Equal(t, http.StatusOK, postFrom(t, h, "198.51.100.2:5000", nil))
}

func TestBookDemoRateLimitIgnoresForwardedHeaders(t *testing.T) {
	h := newTestRouter(t, &stubProvider{}, 1)

	accepted := 0
	for i := 0; i < 20; i++ {
		code := postFrom(t, h, "203.0.113.7:5000", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.9.9.%d", i),
			"X-Real-IP":       fmt.Sprintf("10.8.8.%d", i),
		})
		if code == http.StatusOK {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestBookDemoRateLimitBehindTrustedProxy(t *testing.T) {
	h := handlers.ProxyHeaders(newTestRouter(t, &stubProvider{}, 1))
	proxy := "10.0.0.1:443"

	assert.Equal(t, http.StatusOK, postFrom(t, h, proxy, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(t, h, proxy, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}))
	assert.Equal(t, http.StatusOK, postFrom(t, h, proxy, map[string]string{"X-Forwarded-For": "198.51.100.2"}))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, zap.NewNop())
	rl.now = func() time.Time { return now }

	require.True(t, rl.getLimiter("203.0.113.7").Allow())
	require.False(t, rl.getLimiter("203.0.113.7").Allow())
	rl.getLimiter("198.51.100.2")
	assert.Equal(t, 2, rl.size())

	now = now.Add(limiterIdleTTL + time.Second)
	assert.True(t, rl.getLimiter("203.0.113.7").Allow())
	assert.Equal(t, 1, rl.size())
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	rec := do(t, newTestRouter(t, &stubProvider{}, 0), http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not found"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, &calendar.Unconfigured{Provider: "zoho"}, 0), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"zoho","configured":false}`, rec.Body.String())
}

func TestAdminFlow(t *testing.T) {
	p := &stubProvider{}
	h := newTestRouter(t, p, 0)

	rec := do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "admin@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "admin@example.com", Password: "s3cret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	bearer := map[string]string{"Authorization": "Bearer " + login.Token}

	rec = do(t, h, http.MethodPatch, "/admin/events/evt-1", entities.EventUpdateRequest{Title: "Renamed"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPatch, "/admin/events/evt-1", entities.EventUpdateRequest{Title: "Renamed"}, bearer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"eventId":"evt-1"}`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/admin/events/evt-1", entities.EventUpdateRequest{Date: "2025-12-02"}, bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/admin/events/evt-1", nil, bearer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"evt-1"}, p.deleted)
}
