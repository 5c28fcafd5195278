package calendar

import (
	"context"
	"testing"

	"demobooking/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSelect(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"nothing set", config.Config{}, ""},
		{"google vars", config.Config{GoogleServiceAccountEmail: "sa@x.iam.gserviceaccount.com"}, ProviderGoogle},
		{"zoho vars", config.Config{ZohoClientID: "id"}, ProviderZoho},
		{"zoho wins", config.Config{ZohoClientID: "id", GoogleCalendarID: "primary"}, ProviderZoho},
		{"explicit override", config.Config{CalendarProvider: "google", ZohoClientID: "id"}, ProviderGoogle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Select(&tc.cfg))
		})
	}
}

func TestNewWithoutCredentialsIsUnconfigured(t *testing.T) {
	p := New(context.Background(), &config.Config{}, zap.NewNop())

	err := p.Ready()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.True(t, IsKind(err, KindConfig))

	_, err = p.CreateEvent(context.Background(), demoEvent(t))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewWithPartialZohoCredentials(t *testing.T) {
	p := New(context.Background(), &config.Config{ZohoClientID: "id", ZohoClientSecret: "secret"}, zap.NewNop())

	u, ok := p.(*Unconfigured)
	require.True(t, ok)
	assert.Equal(t, ProviderZoho, u.Name())
	assert.Equal(t, []string{"ZOHO_REFRESH_TOKEN", "ZOHO_CALENDAR_ID"}, u.Missing)
}

func TestNewWithZohoCredentials(t *testing.T) {
	p := New(context.Background(), &config.Config{
		ZohoClientID:     "id",
		ZohoClientSecret: "secret",
		ZohoRefreshToken: "refresh",
		ZohoCalendarID:   "cal",
		ZohoRegion:       "eu",
	}, zap.NewNop())

	z, ok := p.(*ZohoProvider)
	require.True(t, ok)
	assert.NoError(t, z.Ready())
	assert.Equal(t, "https://calendar.zoho.eu/api/v1", z.cfg.CalendarURL)
	assert.Equal(t, "https://accounts.zoho.eu", z.cfg.AccountsURL)
}
