// Package config provides application configuration management using Viper.
// It supports loading from environment variables, config files, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Mail      MailConfig
	Business  BusinessConfig
	Webhook   WebhookConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	AILimit   AILimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty password
// means persistence runs in degraded mode: leads are not stored and email
// becomes the durable record.
type DatabaseConfig struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	Name                  string
	SSLMode               string
	MaxConnections        int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
}

// Configured returns true if a persistence credential is present.
func (d *DatabaseConfig) Configured() bool {
	return d.Password != ""
}

// ConnectionString returns a PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// OpenAIConfig holds settings for the completion provider. An empty API key
// means every AI tool returns its documented advisory fallback.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Configured returns true if a provider credential is present.
func (o *OpenAIConfig) Configured() bool {
	return o.APIKey != ""
}

// MailConfig holds SMTP settings for lead notifications. An empty host means
// notifications are logged instead of sent.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AdminTo  string
}

// Configured returns true if an SMTP host is present.
func (m *MailConfig) Configured() bool {
	return m.Host != ""
}

// Service is one entry in the business service catalog.
type Service struct {
	ID    string `mapstructure:"id"`
	Title string `mapstructure:"title"`
	Blurb string `mapstructure:"blurb"`
}

// Deal is an active promotion with a routing rule for interested visitors.
type Deal struct {
	ID          string `mapstructure:"id"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Page        string `mapstructure:"page"`
}

// BusinessConfig holds the business identity, service catalog, and active
// deals that seed the sales-assistant prompt. Injected explicitly, never a
// process-wide singleton, so tests can run with alternate businesses.
type BusinessConfig struct {
	Name        string
	Motto       string
	Owner       string
	Phone       string
	Email       string
	ServiceArea string
	Services    []Service
	Deals       []Deal
}

// ServiceByID looks up a catalog entry, returning false if absent.
func (b *BusinessConfig) ServiceByID(id string) (Service, bool) {
	for _, s := range b.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// WebhookConfig holds social webhook verification settings.
type WebhookConfig struct {
	VerifyToken string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig holds per-IP request rate limiting settings.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AILimitConfig caps completion-backed requests to control provider spend.
type AILimitConfig struct {
	PerMinute     int
	PerHour       int
	PerDay        int
	MaxConcurrent int
}

// Load reads configuration from environment variables and config files.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/leadgen")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configNotFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFoundErr) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			Environment: v.GetString("server.env"),
		},
		Database: DatabaseConfig{
			Host:                  v.GetString("database.host"),
			Port:                  v.GetInt("database.port"),
			User:                  v.GetString("database.user"),
			Password:              v.GetString("database.password"),
			Name:                  v.GetString("database.name"),
			SSLMode:               v.GetString("database.sslmode"),
			MaxConnections:        v.GetInt("database.max_connections"),
			MaxIdleConnections:    v.GetInt("database.max_idle_connections"),
			ConnectionMaxLifetime: v.GetDuration("database.connection_max_lifetime"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("openai.api_key"),
			Model:   v.GetString("openai.model"),
			BaseURL: v.GetString("openai.base_url"),
			Timeout: v.GetDuration("openai.timeout"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			AdminTo:  v.GetString("mail.admin_to"),
		},
		Business: BusinessConfig{
			Name:        v.GetString("business.name"),
			Motto:       v.GetString("business.motto"),
			Owner:       v.GetString("business.owner"),
			Phone:       v.GetString("business.phone"),
			Email:       v.GetString("business.email"),
			ServiceArea: v.GetString("business.service_area"),
		},
		Webhook: WebhookConfig{
			VerifyToken: v.GetString("webhook.verify_token"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
		AILimit: AILimitConfig{
			PerMinute:     v.GetInt("ai_limit.per_minute"),
			PerHour:       v.GetInt("ai_limit.per_hour"),
			PerDay:        v.GetInt("ai_limit.per_day"),
			MaxConcurrent: v.GetInt("ai_limit.max_concurrent"),
		},
	}

	if err := v.UnmarshalKey("business.services", &cfg.Business.Services); err != nil {
		return nil, fmt.Errorf("invalid business.services: %w", err)
	}
	if err := v.UnmarshalKey("business.deals", &cfg.Business.Deals); err != nil {
		return nil, fmt.Errorf("invalid business.deals: %w", err)
	}
	if len(cfg.Business.Services) == 0 {
		cfg.Business.Services = DefaultServices()
	}
	if len(cfg.Business.Deals) == 0 {
		cfg.Business.Deals = DefaultDeals()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "leadgen")
	v.SetDefault("database.name", "leadgen")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.max_idle_connections", 5)
	v.SetDefault("database.connection_max_lifetime", "5m")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout", "30s")

	v.SetDefault("mail.port", 587)

	v.SetDefault("business.name", "Summit Ridge Construction")
	v.SetDefault("business.motto", "Built right, built to last")
	v.SetDefault("business.owner", "Dale Herrin")
	v.SetDefault("business.phone", "+15555550134")
	v.SetDefault("business.email", "office@summitridgeconstruction.com")
	v.SetDefault("business.service_area", "Denver metro and the Front Range")

	v.SetDefault("webhook.verify_token", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("ai_limit.per_minute", 20)
	v.SetDefault("ai_limit.per_hour", 200)
	v.SetDefault("ai_limit.per_day", 1000)
	v.SetDefault("ai_limit.max_concurrent", 8)
}

// DefaultServices returns the stock service catalog used when no catalog is
// configured.
func DefaultServices() []Service {
	return []Service{
		{ID: "kitchen-renovation", Title: "Kitchen Renovation", Blurb: "Full kitchen remodels from layout to finish carpentry."},
		{ID: "bathroom-remodel", Title: "Bathroom Remodel", Blurb: "Tile, fixtures, vanities, and accessible conversions."},
		{ID: "decks-patios", Title: "Decks & Patios", Blurb: "Custom wood and composite decks, pergolas, and patios."},
		{ID: "roofing", Title: "Roofing", Blurb: "Asphalt, metal, and flat roof replacement and repair."},
		{ID: "flooring", Title: "Flooring", Blurb: "Hardwood, laminate, tile, and LVP supply and install."},
		{ID: "additions", Title: "Home Additions", Blurb: "Room additions, garage conversions, and ADUs."},
	}
}

// DefaultDeals returns the stock promotions used when none are configured.
func DefaultDeals() []Deal {
	return []Deal{
		{ID: "spring-deck", Title: "Spring Deck Special", Description: "10% off composite decks booked this season.", Page: "/deals/spring-deck"},
		{ID: "price-beat", Title: "Materials Price Beat", Description: "We beat any written materials quote by 5%.", Page: "/products"},
	}
}

// Validate checks configuration consistency. Absent external credentials are
// not errors: each enables a documented degraded mode. Partially-configured
// externals are rejected so a typo degrades loudly at startup, not silently
// at send time.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Mail.Configured() {
		if c.Mail.From == "" {
			problems = append(problems, "mail.from required when mail.host is set")
		}
		if c.Mail.AdminTo == "" {
			problems = append(problems, "mail.admin_to required when mail.host is set")
		}
	}
	if c.RateLimit.Requests <= 0 {
		problems = append(problems, "rate_limit.requests must be positive")
	}
	if c.Business.Name == "" {
		problems = append(problems, "business.name is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
