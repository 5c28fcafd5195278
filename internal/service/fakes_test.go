package service

import (
	"context"
	"sync"

	"demobooking/internal/entities"
)

type fakeProvider struct {
	mu sync.Mutex

	readyErr  error
	createErr error
	result    *entities.CalendarEventResult
	updateErr error
	deleteErr error
	warmErr   error

	created []entities.CalendarEvent
	patches []entities.CalendarEventPatch
	deleted []string
	warmed  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Ready() error { return f.readyErr }

func (f *fakeProvider) CreateEvent(_ context.Context, ev entities.CalendarEvent) (*entities.CalendarEventResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, ev)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &entities.CalendarEventResult{Success: true, EventID: "evt-1", MeetLink: "https://meet.google.com/abc-defg-hij"}, nil
}

func (f *fakeProvider) UpdateEvent(_ context.Context, id string, patch entities.CalendarEventPatch) (*entities.CalendarEventResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &entities.CalendarEventResult{Success: true, EventID: id}, nil
}

func (f *fakeProvider) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeProvider) Warm(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmed++
	return f.warmErr
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []EmailMessage
}

func (m *fakeMailer) Send(_ context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeSMS struct {
	mu   sync.Mutex
	err  error
	to   []string
	body []string
}

func (s *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, to)
	s.body = append(s.body, body)
	return s.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) record(channel string) NotifyResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, channel)
	return NotifyResult{Channel: channel, Sent: true}
}

func (n *fakeNotifier) SendCustomerConfirmation(context.Context, entities.BookingRequest, entities.Slot, string) NotifyResult {
	return n.record(ChannelCustomerEmail)
}

func (n *fakeNotifier) SendAdminNotification(context.Context, entities.BookingRequest, entities.Slot, string) NotifyResult {
	return n.record(ChannelAdminEmail)
}

func (n *fakeNotifier) SendAdminSMS(context.Context, entities.BookingRequest, entities.Slot) NotifyResult {
	return n.record(ChannelAdminSMS)
}

func validBooking() entities.BookingRequest {
	return entities.BookingRequest{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		WorkEmail:        "ada@example.com",
		PhoneCountryCode: "+1",
		PhoneNumber:      "5550100",
		Company:          "Analytical Engines",
		BusinessType:     "Brand",
		Readiness:        "Ready now",
		Message:          "Looking forward to it",
		Date:             "2025-12-01",
		Time:             "2:30pm",
		Timezone:         "America/New_York",
	}
}
