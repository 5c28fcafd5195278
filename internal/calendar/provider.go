package calendar

import (
	"context"
	"errors"
	"strings"

	"demobooking/internal/config"
	"demobooking/internal/entities"

	"go.uber.org/zap"
)

// Provider is a calendar backend able to hold demo events.
type Provider interface {
	Name() string
	// Ready reports a configuration error before any network call is made.
	Ready() error
	CreateEvent(ctx context.Context, event entities.CalendarEvent) (*entities.CalendarEventResult, error)
	UpdateEvent(ctx context.Context, eventID string, patch entities.CalendarEventPatch) (*entities.CalendarEventResult, error)
	DeleteEvent(ctx context.Context, eventID string) error
	// Warm obtains a credential ahead of traffic.
	Warm(ctx context.Context) error
}

// Kind classifies provider failures.
type Kind int

const (
	KindProvider Kind = iota
	KindConfig
	KindAuth
	KindPermission
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	default:
		return "provider"
	}
}

// CalendarError carries a message that is safe to show to the caller.
type CalendarError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CalendarError) Error() string {
	return e.Message
}

func (e *CalendarError) Unwrap() error {
	return e.Err
}

// ErrNotConfigured is wrapped by every KindConfig error.
var ErrNotConfigured = errors.New("calendar provider is not configured")

// IsKind reports whether err is a CalendarError of kind k.
func IsKind(err error, k Kind) bool {
	var cerr *CalendarError
	return errors.As(err, &cerr) && cerr.Kind == k
}

func configError(provider string, missing []string) *CalendarError {
	return &CalendarError{
		Kind:    KindConfig,
		Message: provider + " calendar is not configured: missing " + strings.Join(missing, ", "),
		Err:     ErrNotConfigured,
	}
}

// Unconfigured stands in when the credentials are absent. Every operation
// fails with a KindConfig error.
type Unconfigured struct {
	Provider string
	Missing  []string
}

func (u *Unconfigured) Name() string {
	if u.Provider == "" {
		return "none"
	}
	return u.Provider
}

func (u *Unconfigured) Ready() error {
	return configError(u.Name(), u.Missing)
}

func (u *Unconfigured) CreateEvent(context.Context, entities.CalendarEvent) (*entities.CalendarEventResult, error) {
	return nil, u.Ready()
}

func (u *Unconfigured) UpdateEvent(context.Context, string, entities.CalendarEventPatch) (*entities.CalendarEventResult, error) {
	return nil, u.Ready()
}

func (u *Unconfigured) DeleteEvent(context.Context, string) error {
	return u.Ready()
}

func (u *Unconfigured) Warm(context.Context) error {
	return u.Ready()
}

const (
	ProviderGoogle = "google"
	ProviderZoho   = "zoho"
)

// Select picks the provider named by CALENDAR_PROVIDER, or the one whose
// credentials are present. Zoho wins when both are partially set.
func Select(cfg *config.Config) string {
	switch cfg.CalendarProvider {
	case ProviderGoogle, ProviderZoho:
		return cfg.CalendarProvider
	}
	if cfg.ZohoClientID != "" || cfg.ZohoClientSecret != "" || cfg.ZohoRefreshToken != "" || cfg.ZohoCalendarID != "" {
		return ProviderZoho
	}
	if cfg.GoogleServiceAccountEmail != "" || cfg.GooglePrivateKey != "" || cfg.GoogleCalendarID != "" {
		return ProviderGoogle
	}
	return ""
}

// New builds the provider chosen at startup. Missing credentials yield an
// Unconfigured provider so the server still starts and answers with a
// configuration error.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Provider {
	switch Select(cfg) {
	case ProviderZoho:
		zc := ZohoConfigFromEnv(cfg)
		p, err := NewZohoProvider(zc, nil, nil, logger)
		if err != nil {
			logger.Error("zoho calendar unavailable", zap.Strings("missing", zc.Missing()), zap.Error(err))
			return &Unconfigured{Provider: ProviderZoho, Missing: zc.Missing()}
		}
		return p
	case ProviderGoogle:
		gc := GoogleConfigFromEnv(cfg)
		p, err := NewGoogleProvider(ctx, gc, logger)
		if err != nil {
			logger.Error("google calendar unavailable", zap.Strings("missing", gc.Missing()), zap.Error(err))
			return &Unconfigured{Provider: ProviderGoogle, Missing: gc.Missing()}
		}
		return p
	default:
		logger.Warn("no calendar provider configured")
		return &Unconfigured{}
	}
}
