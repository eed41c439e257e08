package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every process-wide setting. Values come from the environment
// (and .env, autoloaded in main).
type Config struct {
	Port     int
	Env      string
	LogLevel string
	DBURL    string

	Location      *time.Location
	Slots         []string
	ReminderLead  time.Duration
	ReminderDelay time.Duration
	MinSeparation time.Duration

	Admin  AdminConfig
	SMTP   SMTPConfig
	Twilio TwilioConfig
	Line   LineConfig

	RedisURL     string
	OTLPEndpoint string
	OTLPInsecure bool
}

// AdminConfig holds the shared admin secret and the admin's contact addresses.
type AdminConfig struct {
	Password     string
	PasswordHash string
	Email        string
	LineUserID   string
	SMSPhone     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	PhoneNumber  string
	WhatsAppFrom string
}

// Enabled reports whether Twilio credentials are present.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
}

// Enabled reports whether LINE credentials are present.
func (c LineConfig) Enabled() bool {
	return c.ChannelSecret != "" && c.ChannelToken != ""
}

// DefaultSlots is the bookable day of a single barber chair.
var DefaultSlots = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00"}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	port, err := readInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a valid TCP port (got %d)", port)
	}

	tz := readString("TIMEZONE", "Europe/Istanbul")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	lead, err := readInt("REMINDER_LEAD_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	delay, err := readInt("REMINDER_MIN_DELAY_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	separation, err := readInt("MIN_SEPARATION_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if separation < 1 {
		return nil, fmt.Errorf("MIN_SEPARATION_MINUTES must be positive (got %d)", separation)
	}
	smtpPort, err := readInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          port,
		Env:           readString("APP_ENV", "production"),
		LogLevel:      readString("LOG_LEVEL", "info"),
		DBURL:         readString("DB_URL", "barber.db"),
		Location:      loc,
		Slots:         readList("BOOKING_SLOTS", DefaultSlots),
		ReminderLead:  time.Duration(lead) * time.Minute,
		ReminderDelay: time.Duration(delay) * time.Second,
		MinSeparation: time.Duration(separation) * time.Minute,
		Admin: AdminConfig{
			Password:     os.Getenv("ADMIN_PASSWORD"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			Email:        os.Getenv("ADMIN_EMAIL"),
			LineUserID:   os.Getenv("ADMIN_LINE_USER_ID"),
			SMSPhone:     os.Getenv("ADMIN_SMS_PHONE"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Twilio: TwilioConfig{
			AccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber:  os.Getenv("TWILIO_PHONE_NUMBER"),
			WhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		},
		Line: LineConfig{
			ChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
			ChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		},
		RedisURL:     os.Getenv("REDIS_URL"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}

	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	return cfg, nil
}

func readString(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func readInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, raw)
	}
	return v, nil
}

func readList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
