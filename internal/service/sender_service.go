package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"demobooking/internal/entities"
	"demobooking/internal/templates"
	"demobooking/internal/utils"

	"go.uber.org/zap"
)

const (
	ChannelCustomerEmail = "customer_email"
	ChannelAdminEmail    = "admin_email"
	ChannelAdminSMS      = "admin_sms"
)

// NotifyResult is the outcome of one notification. Callers log it; a failed
// notification never fails a booking.
type NotifyResult struct {
	Channel   string
	Recipient string
	Sent      bool
	Skipped   bool
	Err       error
}

type SenderService struct {
	mailer     Mailer
	sms        SMSSender
	brand      string
	adminEmail string
	adminPhone string
	tmpl       *template.Template
	logger     *zap.Logger
	now        func() time.Time
}

// NewSenderService wires the email and SMS transports. sms may be nil when
// Twilio is not configured.
func NewSenderService(mailer Mailer, sms SMSSender, brand, adminEmail, adminPhone string, logger *zap.Logger) *SenderService {
	return &SenderService{
		mailer:     mailer,
		sms:        sms,
		brand:      brand,
		adminEmail: adminEmail,
		adminPhone: adminPhone,
		tmpl:       templates.Emails,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SenderService) emailData(b entities.BookingRequest, slot entities.Slot, meetLink string) entities.BookingEmailData {
	// Only real URLs make it into the join button.
	if !strings.HasPrefix(meetLink, "http://") && !strings.HasPrefix(meetLink, "https://") {
		meetLink = ""
	}
	return entities.BookingEmailData{
		Brand:         s.brand,
		FirstName:     b.FirstName,
		LastName:      b.LastName,
		WorkEmail:     b.WorkEmail,
		Phone:         b.Phone(),
		Company:       b.Company,
		BusinessType:  b.BusinessType,
		Readiness:     b.Readiness,
		Message:       b.Message,
		DateFormatted: utils.FormatLongDate(slot.Start),
		Time:          b.Time,
		TimeZone:      slot.TimeZone,
		MeetLink:      meetLink,
		CurrentYear:   s.now().Year(),
	}
}

func (s *SenderService) render(name string, data entities.BookingEmailData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// SendCustomerConfirmation emails the booking details and join link to the
// customer's work address.
func (s *SenderService) SendCustomerConfirmation(ctx context.Context, b entities.BookingRequest, slot entities.Slot, meetLink string) NotifyResult {
	res := NotifyResult{Channel: ChannelCustomerEmail, Recipient: b.WorkEmail}
	data := s.emailData(b, slot, meetLink)

	html, err := s.render(templates.CustomerConfirmation, data)
	if err != nil {
		res.Err = err
		return res
	}

	subject := fmt.Sprintf("Demo Booking Confirmed - %s at %s", data.DateFormatted, b.Time)
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour demo call with %s has been confirmed!\n\n"+
			"Date: %s\nTime: %s\nTimezone: %s\nMeeting link: %s\n\n"+
			"Looking forward to speaking with you!\n\nThe %s Team",
		b.FirstName, s.brand, data.DateFormatted, b.Time, slot.TimeZone, meetLink, s.brand,
	)

	res.Err = s.mailer.Send(ctx, EmailMessage{
		ToEmail:   b.WorkEmail,
		ToName:    b.FullName(),
		Subject:   subject,
		PlainText: plain,
		HTML:      html,
	})
	res.Sent = res.Err == nil
	return res
}

// SendAdminNotification tells ADMIN_EMAIL about a new booking. It is skipped
// when no admin address is configured.
func (s *SenderService) SendAdminNotification(ctx context.Context, b entities.BookingRequest, slot entities.Slot, meetLink string) NotifyResult {
	res := NotifyResult{Channel: ChannelAdminEmail, Recipient: s.adminEmail}
	if s.adminEmail == "" {
		res.Skipped = true
		return res
	}
	data := s.emailData(b, slot, meetLink)

	html, err := s.render(templates.AdminNotification, data)
	if err != nil {
		res.Err = err
		return res
	}

	message := b.Message
	if message == "" {
		message = "No message provided"
	}
	plain := fmt.Sprintf(
		"New demo booking\n\nName: %s\nEmail: %s\nPhone: %s\nCompany: %s\n"+
			"Business Type: %s\nReadiness: %s\n\nDate: %s\nTime: %s\nTimezone: %s\n\nMessage: %s\nMeeting link: %s",
		b.FullName(), b.WorkEmail, b.Phone(), b.Company,
		b.BusinessType, b.Readiness, data.DateFormatted, b.Time, slot.TimeZone, message, meetLink,
	)

	res.Err = s.mailer.Send(ctx, EmailMessage{
		ToEmail:   s.adminEmail,
		ToName:    s.brand,
		Subject:   "New Demo Booking: " + b.FullName(),
		PlainText: plain,
		HTML:      html,
	})
	res.Sent = res.Err == nil
	return res
}

// SendAdminSMS sends a one-line alert to ADMIN_PHONE when Twilio is set up.
func (s *SenderService) SendAdminSMS(ctx context.Context, b entities.BookingRequest, slot entities.Slot) NotifyResult {
	res := NotifyResult{Channel: ChannelAdminSMS, Recipient: s.adminPhone}
	if s.sms == nil || s.adminPhone == "" {
		res.Skipped = true
		return res
	}

	body := fmt.Sprintf("%s: new demo with %s (%s) on %s at %s %s.",
		s.brand, b.FullName(), b.Company, slot.Start.Format("Jan 2"), b.Time, slot.TimeZone)

	res.Err = s.sms.SendSMS(ctx, s.adminPhone, body)
	res.Sent = res.Err == nil
	return res
}
