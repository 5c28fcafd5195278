package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort            string `mapstructure:"APP_PORT"`
	Env                string `mapstructure:"ENV"`
	BrandName          string `mapstructure:"BRAND_NAME"`
	RateLimitPerMin    int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustProxyHeaders  bool   `mapstructure:"TRUST_PROXY_HEADERS"`
	TokenWarmSchedule  string `mapstructure:"TOKEN_WARM_SCHEDULE"`

	// Calendar provider selection: "google", "zoho" or empty to detect.
	CalendarProvider string `mapstructure:"CALENDAR_PROVIDER"`

	// Google service account.
	GoogleServiceAccountEmail string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	GooglePrivateKey          string `mapstructure:"GOOGLE_PRIVATE_KEY"`
	GoogleCalendarID          string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleEnableMeet          bool   `mapstructure:"GOOGLE_ENABLE_MEET"`
	GoogleInviteAttendees     bool   `mapstructure:"GOOGLE_INVITE_ATTENDEES"`

	// Zoho OAuth client.
	ZohoClientID       string `mapstructure:"ZOHO_CLIENT_ID"`
	ZohoClientSecret   string `mapstructure:"ZOHO_CLIENT_SECRET"`
	ZohoRefreshToken   string `mapstructure:"ZOHO_REFRESH_TOKEN"`
	ZohoCalendarID     string `mapstructure:"ZOHO_CALENDAR_ID"`
	ZohoRegion         string `mapstructure:"ZOHO_REGION"`
	ZohoEnableMeeting  bool   `mapstructure:"ZOHO_ENABLE_MEETING"`
	ZohoOrganizationID string `mapstructure:"ZOHO_ORGANIZATION_ID"`
	ZohoPresenterZUID  string `mapstructure:"ZOHO_PRESENTER_ZUID"`

	// SendGrid.
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`

	// Twilio.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`
	AdminPhone       string `mapstructure:"ADMIN_PHONE"`

	// Admin API.
	AdminLoginEmail   string `mapstructure:"ADMIN_LOGIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
}

var defaults = map[string]any{
	"APP_PORT":             "8080",
	"ENV":                  "development",
	"BRAND_NAME":           "GrowRipple",
	"RATE_LIMIT_PER_MIN":   30,
	"CORS_ALLOWED_ORIGINS": "*",
	"TRUST_PROXY_HEADERS":  false,
	"TOKEN_WARM_SCHEDULE":  "",

	"CALENDAR_PROVIDER": "",

	"GOOGLE_SERVICE_ACCOUNT_EMAIL": "",
	"GOOGLE_PRIVATE_KEY":           "",
	"GOOGLE_CALENDAR_ID":           "",
	"GOOGLE_ENABLE_MEET":           false,
	"GOOGLE_INVITE_ATTENDEES":      false,

	"ZOHO_CLIENT_ID":       "",
	"ZOHO_CLIENT_SECRET":   "",
	"ZOHO_REFRESH_TOKEN":   "",
	"ZOHO_CALENDAR_ID":     "",
	"ZOHO_REGION":          "com",
	"ZOHO_ENABLE_MEETING":  false,
	"ZOHO_ORGANIZATION_ID": "",
	"ZOHO_PRESENTER_ZUID":  "",

	"SENDGRID_API_KEY":    "",
	"SENDGRID_FROM_EMAIL": "",
	"SENDGRID_FROM_NAME":  "",
	"ADMIN_EMAIL":         "",

	"TWILIO_ACCOUNT_SID": "",
	"TWILIO_AUTH_TOKEN":  "",
	"TWILIO_FROM_NUMBER": "",
	"ADMIN_PHONE":        "",

	"ADMIN_LOGIN_EMAIL":   "",
	"ADMIN_PASSWORD_HASH": "",
	"JWT_SECRET":          "",
}

// Load reads .env (if present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.CalendarProvider = strings.ToLower(strings.TrimSpace(c.CalendarProvider))
	c.ZohoClientID = strings.TrimSpace(c.ZohoClientID)
	c.ZohoClientSecret = strings.TrimSpace(c.ZohoClientSecret)
	c.ZohoRefreshToken = strings.TrimSpace(c.ZohoRefreshToken)
	c.ZohoCalendarID = strings.TrimSpace(c.ZohoCalendarID)
	c.ZohoRegion = strings.TrimSpace(c.ZohoRegion)
	if c.ZohoRegion == "" {
		c.ZohoRegion = "com"
	}
	c.ZohoOrganizationID = strings.TrimSpace(c.ZohoOrganizationID)
	c.ZohoPresenterZUID = strings.TrimSpace(c.ZohoPresenterZUID)
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
	if c.SendGridFromName == "" {
		c.SendGridFromName = c.BrandName
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// EmailConfigured reports whether SendGrid can be used.
func (c *Config) EmailConfigured() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != ""
}

// SMSConfigured reports whether admin SMS alerts can be sent.
func (c *Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != "" && c.AdminPhone != ""
}
