// Package config builds the immutable application configuration from an
// ordered set of value sources.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/garage-leads/internal/entity"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SESConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	From      string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration

	// TrustedProxyHops is how many reverse proxies sit in front of the
	// service. Zero keys clients on the TCP peer address.
	TrustedProxyHops int
}

type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	DatabaseURL string
	AutoMigrate bool

	// RabbitMQURL is optional. When set, new leads enqueue a coupon request.
	RabbitMQURL string

	EmailTransport string // smtp | ses
	SMTP           SMTPConfig
	SES            SESConfig
	Twilio         TwilioConfig

	BookingBaseURL string
	OfferCatalog   string // path to a YAML catalog; empty uses the embedded one

	Admin     AdminConfig
	RateLimit RateLimitConfig

	CORSAllowedOrigins []string
	AdminLeadLimit     int

	Brand entity.Brand
}

const defaultJWTSecret = "your-secret-key-change-this"

func Load(r *Resolver) (Config, error) {
	var errs []error

	smtpPort, err := strconv.Atoi(r.Lookup("SMTP_PORT", "587"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SMTP_PORT: %w", err))
	}
	limitReqs, err := strconv.Atoi(r.Lookup("RATE_LIMIT_REQUESTS", "5"))
	if err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS: %w", err))
	}
	limitWindow, err := time.ParseDuration(r.Lookup("RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err))
	}
	tokenTTL, err := time.ParseDuration(r.Lookup("ADMIN_TOKEN_TTL", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_TOKEN_TTL: %w", err))
	}
	leadLimit, err := strconv.Atoi(r.Lookup("ADMIN_LEAD_LIMIT", "100"))
	if err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_LEAD_LIMIT: %w", err))
	}
	proxyHops, err := strconv.Atoi(r.Lookup("TRUSTED_PROXY_HOPS", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXY_HOPS: %w", err))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	cfg := Config{
		Port:      r.Lookup("PORT", "8080"),
		LogLevel:  strings.ToLower(r.Lookup("LOG_LEVEL", "info")),
		LogPretty: isTruthy(r.Lookup("LOG_PRETTY", "false")),

		DatabaseURL: r.Lookup("DATABASE_URL", ""),
		AutoMigrate: isTruthy(r.Lookup("AUTO_MIGRATE", "false")),
		RabbitMQURL: r.Lookup("RABBITMQ_URL", ""),

		EmailTransport: strings.ToLower(r.Lookup("EMAIL_TRANSPORT", "smtp")),
		SMTP: SMTPConfig{
			Host:     r.Lookup("SMTP_HOST", ""),
			Port:     smtpPort,
			User:     r.Lookup("SMTP_USER", ""),
			Password: r.Lookup("SMTP_PASS", ""),
			From:     r.Lookup("MAIL_FROM", r.Lookup("SMTP_USER", "")),
		},
		SES: SESConfig{
			Region:    r.Lookup("AWS_REGION", "us-east-1"),
			AccessKey: r.Lookup("AWS_ACCESS_KEY_ID", ""),
			SecretKey: r.Lookup("AWS_SECRET_ACCESS_KEY", ""),
			From:      r.Lookup("MAIL_FROM", ""),
		},
		Twilio: TwilioConfig{
			AccountSID: r.Lookup("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  r.Lookup("TWILIO_AUTH_TOKEN", ""),
			From:       r.Lookup("TWILIO_PHONE_NUMBER", ""),
		},

		BookingBaseURL: r.Lookup("TEKMETRIC_BOOK_URL", ""),
		OfferCatalog:   r.Lookup("OFFER_CATALOG_PATH", ""),

		Admin: AdminConfig{
			Username:  r.Lookup("ADMIN_USERNAME", ""),
			Password:  r.Lookup("ADMIN_PASSWORD", ""),
			JWTSecret: r.Lookup("JWT_SECRET", defaultJWTSecret),
			TokenTTL:  tokenTTL,
		},
		RateLimit: RateLimitConfig{
			Requests:         limitReqs,
			Window:           limitWindow,
			TrustedProxyHops: proxyHops,
		},

		CORSAllowedOrigins: splitCSV(r.Lookup("CORS_ALLOWED_ORIGINS", "*")),
		AdminLeadLimit:     leadLimit,

		Brand: entity.Brand{
			Name:    r.Lookup("BRAND_NAME", "Byrd's Garage"),
			Phone:   r.Lookup("BRAND_PHONE", "(916) 991-1079"),
			Address: r.Lookup("BRAND_ADDRESS", "220 Elverta Rd, Elverta, CA 95626"),
			Hours:   r.Lookup("BRAND_HOURS", "Mon-Fri 8:00 AM - 5:00 PM"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.EmailTransport != "smtp" && c.EmailTransport != "ses" {
		errs = append(errs, fmt.Errorf("EMAIL_TRANSPORT must be smtp or ses, got %q", c.EmailTransport))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT out of range: %d", c.SMTP.Port))
	}
	if c.RateLimit.Requests < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be >= 1"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.TrustedProxyHops < 0 {
		errs = append(errs, errors.New("TRUSTED_PROXY_HOPS must be >= 0"))
	}
	if c.Admin.TokenTTL <= 0 {
		errs = append(errs, errors.New("ADMIN_TOKEN_TTL must be positive"))
	}
	if c.AdminLeadLimit < 1 || c.AdminLeadLimit > 1000 {
		errs = append(errs, fmt.Errorf("ADMIN_LEAD_LIMIT must be within 1..1000, got %d", c.AdminLeadLimit))
	}

	return errors.Join(errs...)
}

// ValidateAdmin rejects admin credentials paired with the placeholder JWT
// secret. Unset credentials are allowed; the admin routes then refuse access.
func (c Config) ValidateAdmin() error {
	if c.Admin.Username == "" && c.Admin.Password == "" {
		return nil
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.UsesDefaultJWTSecret() || strings.TrimSpace(c.Admin.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be changed before enabling admin access")
	}
	return nil
}

// UsesDefaultJWTSecret reports whether tokens are signed with the placeholder secret.
func (c Config) UsesDefaultJWTSecret() bool {
	return c.Admin.JWTSecret == defaultJWTSecret
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
