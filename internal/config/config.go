package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Sendgrid  SendgridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	JWT       JWTConfig       `yaml:"jwt"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Penalty   PenaltyConfig   `yaml:"penalty"`
	Notifier  NotifierConfig  `yaml:"notifier"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// GatewayConfig selects and configures the payment gateway adapter
type GatewayConfig struct {
	Provider    string `yaml:"provider"` // "mercadopago" or "mock"
	AccessToken string `yaml:"access_token"`
}

// SendgridConfig contains the email sink settings
type SendgridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	OpsEmail  string `yaml:"ops_email"` // operator inbox for lifecycle notices
}

// FirebaseConfig contains the FCM push sink settings
type FirebaseConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	Topic           string `yaml:"topic"` // dashboard fan-out topic
}

// JWTConfig contains caller-role token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// RateTier maps a threshold in days to a multiplier. Thresholds are
// inclusive; the highest matching tier wins.
type RateTier struct {
	MinDays    int     `yaml:"min_days"`
	Multiplier float64 `yaml:"multiplier"`
}

// SeasonWindow is a recurring annual window defined by month/day bounds.
// A window may wrap year-end (e.g. Dec 15 - Jan 10).
type SeasonWindow struct {
	Name       string  `yaml:"name"`
	FromMonth  int     `yaml:"from_month"`
	FromDay    int     `yaml:"from_day"`
	ToMonth    int     `yaml:"to_month"`
	ToDay      int     `yaml:"to_day"`
	Multiplier float64 `yaml:"multiplier"`
}

// PricingConfig toggles and parameterizes the modifier strategies
type PricingConfig struct {
	Season struct {
		Enabled bool           `yaml:"enabled"`
		Windows []SeasonWindow `yaml:"windows"`
	} `yaml:"season"`
	EarlyBooking struct {
		Enabled bool       `yaml:"enabled"`
		Tiers   []RateTier `yaml:"tiers"`
	} `yaml:"early_booking"`
	Duration struct {
		Enabled bool       `yaml:"enabled"`
		Tiers   []RateTier `yaml:"tiers"`
	} `yaml:"duration"`
	Weekend struct {
		Enabled    bool     `yaml:"enabled"`
		Days       []string `yaml:"days"` // weekday names, default Friday/Saturday/Sunday
		Multiplier float64  `yaml:"multiplier"`
	} `yaml:"weekend"`
}

// PenaltyConfig parameterizes the late-return penalty engine
type PenaltyConfig struct {
	DailyRateCents int64 `yaml:"daily_rate_cents"`
	MaxCents       int64 `yaml:"max_cents"`
}

// NotifierConfig bounds the delivery retry helper
type NotifierConfig struct {
	MaxAttempts   int `yaml:"max_attempts"`
	BackoffBaseMS int `yaml:"backoff_base_ms"`
	DispatchBatch int `yaml:"dispatch_batch"`
}

// SchedulerConfig holds cron expressions for the background jobs
type SchedulerConfig struct {
	MarkOverdueRentals       string `yaml:"mark_overdue_rentals"`
	DispatchOutbox           string `yaml:"dispatch_outbox"`
	ReconcileUnpaidPenalties string `yaml:"reconcile_unpaid_penalties"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("GATEWAY_PROVIDER"); val != "" {
		c.Gateway.Provider = val
	}
	if val := os.Getenv("MERCADOPAGO_ACCESS_TOKEN"); val != "" {
		c.Gateway.AccessToken = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Sendgrid.APIKey = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Firebase.CredentialsFile = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// applyDefaults fills the pieces a minimal config file may omit
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Gateway.Provider == "" {
		c.Gateway.Provider = "mock"
	}

	if len(c.Pricing.EarlyBooking.Tiers) == 0 {
		c.Pricing.EarlyBooking.Tiers = []RateTier{
			{MinDays: 30, Multiplier: 0.85},
			{MinDays: 14, Multiplier: 0.90},
			{MinDays: 7, Multiplier: 0.95},
		}
	}
	if len(c.Pricing.Duration.Tiers) == 0 {
		c.Pricing.Duration.Tiers = []RateTier{
			{MinDays: 30, Multiplier: 0.80},
			{MinDays: 14, Multiplier: 0.85},
			{MinDays: 7, Multiplier: 0.90},
		}
	}
	if len(c.Pricing.Weekend.Days) == 0 {
		c.Pricing.Weekend.Days = []string{"Friday", "Saturday", "Sunday"}
	}
	if c.Pricing.Weekend.Multiplier == 0 {
		c.Pricing.Weekend.Multiplier = 1.15
	}

	if c.Penalty.DailyRateCents == 0 {
		c.Penalty.DailyRateCents = 7500 // $75.00 per late day
	}
	if c.Penalty.MaxCents == 0 {
		c.Penalty.MaxCents = 150000 // $1500.00 cap
	}

	if c.Notifier.MaxAttempts == 0 {
		c.Notifier.MaxAttempts = 3
	}
	if c.Notifier.BackoffBaseMS == 0 {
		c.Notifier.BackoffBaseMS = 200
	}
	if c.Notifier.DispatchBatch == 0 {
		c.Notifier.DispatchBatch = 50
	}

	if c.Scheduler.MarkOverdueRentals == "" {
		c.Scheduler.MarkOverdueRentals = "0 0 2 * * *" // nightly 02:00 UTC
	}
	if c.Scheduler.DispatchOutbox == "" {
		c.Scheduler.DispatchOutbox = "0 * * * * *" // every minute
	}
	if c.Scheduler.ReconcileUnpaidPenalties == "" {
		c.Scheduler.ReconcileUnpaidPenalties = "0 30 2 * * *"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Gateway.Provider != "mock" && c.Gateway.Provider != "mercadopago" {
		return fmt.Errorf("unknown gateway provider: %s", c.Gateway.Provider)
	}
	if c.Gateway.Provider == "mercadopago" && c.Gateway.AccessToken == "" {
		return fmt.Errorf("mercadopago gateway requires an access token")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	for _, w := range c.Pricing.Season.Windows {
		if w.FromMonth < 1 || w.FromMonth > 12 || w.ToMonth < 1 || w.ToMonth > 12 {
			return fmt.Errorf("season window %q has invalid months", w.Name)
		}
		if w.Multiplier <= 0 {
			return fmt.Errorf("season window %q has non-positive multiplier", w.Name)
		}
	}

	if c.Penalty.DailyRateCents < 0 || c.Penalty.MaxCents < 0 {
		return fmt.Errorf("penalty amounts must be non-negative")
	}

	return nil
}

// GetServerAddress returns the host:port string for the HTTP server
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, c.Database.SSLMode)
}
