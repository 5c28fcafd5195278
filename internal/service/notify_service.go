package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var (
	ErrEmailNotConfigured = errors.New("SENDGRID_API_KEY or SENDGRID_FROM_EMAIL is not set")
	ErrSMSNotConfigured   = errors.New("twilio credentials are not fully configured")
)

// EmailMessage is one outbound email with plain and HTML parts.
type EmailMessage struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// SendGridMailer delivers email through the SendGrid v3 mail endpoint.
type SendGridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
	logger    *zap.Logger

	// BaseURL replaces the SendGrid host when set.
	BaseURL string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName, logger: logger}
}

func (m *SendGridMailer) Send(ctx context.Context, msg EmailMessage) error {
	if m.apiKey == "" || m.fromEmail == "" {
		m.logger.Warn("email not sent, sendgrid is not configured", zap.String("to", msg.ToEmail))
		return ErrEmailNotConfigured
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	client := sendgrid.NewSendClient(m.apiKey)
	if m.BaseURL != "" {
		client.BaseURL = m.BaseURL + "/v3/mail/send"
	}
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		m.logger.Info("email sent",
			zap.String("to", msg.ToEmail),
			zap.String("subject", msg.Subject),
			zap.Int("status", response.StatusCode),
		)
		return nil
	}

	return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
}

// TwilioSMS sends text messages from a single Twilio number.
type TwilioSMS struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *zap.Logger
}

// NewTwilioSMS returns nil when any credential is missing.
func NewTwilioSMS(accountSID, authToken, fromNumber string, logger *zap.Logger) *TwilioSMS {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &TwilioSMS{client: client, fromNumber: fromNumber, logger: logger}
}

func (t *TwilioSMS) SendSMS(_ context.Context, to, body string) error {
	if t == nil {
		return ErrSMSNotConfigured
	}
	if !strings.HasPrefix(to, "+") {
		t.logger.Warn("sms destination is not in E.164 format", zap.String("to", to))
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		t.logger.Info("sms sent", zap.String("to", to), zap.String("sid", *resp.Sid))
	}
	return nil
}
