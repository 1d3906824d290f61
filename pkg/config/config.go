package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the confession publisher
type Config struct {
	// Supabase row store connection
	Supabase SupabaseConfig `yaml:"supabase" json:"supabase"`

	// Tenants are the Instagram accounts this instance publishes for
	Tenants []Tenant `yaml:"tenants" json:"tenants"`

	// Scheduler settings shared by every tenant
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`

	// Email holds SMTP credentials for alerting
	Email EmailConfig `yaml:"email" json:"email"`

	// Server settings for the HTTP invocation surface
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SupabaseConfig holds the row store endpoint and credentials
type SupabaseConfig struct {
	URL            string        `yaml:"url" json:"url"`
	AnonKey        string        `yaml:"anon_key" json:"anon_key"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// Tenant is one Instagram account with its own confession table,
// credentials, caption and alert recipient.
type Tenant struct {
	Name              string `yaml:"name" json:"name"`
	Table             string `yaml:"table" json:"table"`
	AccessToken       string `yaml:"access_token" json:"access_token"`
	BusinessAccountID string `yaml:"business_account_id" json:"business_account_id"`
	Caption           string `yaml:"caption" json:"caption"`
	AlertRecipient    string `yaml:"alert_recipient" json:"alert_recipient"`
}

// SchedulerConfig holds batch publishing behavior
type SchedulerConfig struct {
	// MaxPostsPerRun caps successful posts per run, not attempts
	MaxPostsPerRun int `yaml:"max_posts_per_run" json:"max_posts_per_run"`
	// PostDelay is the pause between successful posts
	PostDelay time.Duration `yaml:"post_delay" json:"post_delay"`
	// CommitAttempts bounds the posted-status commit retries
	CommitAttempts int `yaml:"commit_attempts" json:"commit_attempts"`
	// CommitRetryDelay is the spacing between commit attempts
	CommitRetryDelay time.Duration `yaml:"commit_retry_delay" json:"commit_retry_delay"`
	// Posting window: allowed iff hour >= WindowOpenHour OR hour < WindowCloseHour
	WindowOpenHour  int `yaml:"window_open_hour" json:"window_open_hour"`
	WindowCloseHour int `yaml:"window_close_hour" json:"window_close_hour"`
	// RequestsPerMinute paces outbound Graph API calls locally
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	// RequestTimeout applies to individual Graph API calls
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// EmailConfig holds SMTP settings for the alert notifier
type EmailConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// RingSize bounds the in-memory log capture served by the log endpoint
	RingSize int `yaml:"ring_size" json:"ring_size"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Supabase: SupabaseConfig{
			RequestTimeout: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			MaxPostsPerRun:    3,
			PostDelay:         3 * time.Second,
			CommitAttempts:    5,
			CommitRetryDelay:  5 * time.Second,
			WindowOpenHour:    8,
			WindowCloseHour:   1,
			RequestsPerMinute: 60,
			RequestTimeout:    30 * time.Second,
		},
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Server: ServerConfig{
			Port: 3000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			RingSize: 1000,
		},
	}
}

// LoadFromEnv loads configuration from environment variables. Variable
// names follow the original deployment's .env contract.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.Email.Username = v
		if c.Email.From == "" {
			c.Email.From = v
		}
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CONFPOSTER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CONFPOSTER_MAX_POSTS_PER_RUN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scheduler.MaxPostsPerRun = n
		}
	}

	// Per-tenant secrets: INSTAGRAM_ACCESS_TOKEN_<NAME> and
	// INSTAGRAM_BUSINESS_ACCOUNT_ID_<NAME> override the YAML values so
	// tokens never have to live in the config file.
	for i := range c.Tenants {
		suffix := strings.ToUpper(c.Tenants[i].Name)
		if v := os.Getenv("INSTAGRAM_ACCESS_TOKEN_" + suffix); v != "" {
			c.Tenants[i].AccessToken = v
		}
		if v := os.Getenv("INSTAGRAM_BUSINESS_ACCOUNT_ID_" + suffix); v != "" {
			c.Tenants[i].BusinessAccountID = v
		}
		if v := os.Getenv("TABLE_NAME_" + suffix); v != "" {
			c.Tenants[i].Table = v
		}
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // no config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"confposter.yaml",
		"confposter.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "confposter", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "confposter", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Tenant returns the tenant with the given name, or false if unknown.
func (c *Config) Tenant(name string) (Tenant, bool) {
	for _, t := range c.Tenants {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tenant{}, false
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Supabase.URL == "" {
		errs = append(errs, errors.New("supabase URL is required"))
	}
	if c.Supabase.AnonKey == "" {
		errs = append(errs, errors.New("supabase anon key is required"))
	}

	if len(c.Tenants) == 0 {
		errs = append(errs, errors.New("at least one tenant is required"))
	}
	seen := make(map[string]bool)
	for _, t := range c.Tenants {
		if t.Name == "" {
			errs = append(errs, errors.New("tenant name is required"))
			continue
		}
		if seen[strings.ToLower(t.Name)] {
			errs = append(errs, fmt.Errorf("duplicate tenant name %q", t.Name))
		}
		seen[strings.ToLower(t.Name)] = true
		if t.Table == "" {
			errs = append(errs, fmt.Errorf("tenant %s: table is required", t.Name))
		}
		if t.AccessToken == "" {
			errs = append(errs, fmt.Errorf("tenant %s: access token is required", t.Name))
		}
		if t.BusinessAccountID == "" {
			errs = append(errs, fmt.Errorf("tenant %s: business account id is required", t.Name))
		}
	}

	if c.Scheduler.MaxPostsPerRun <= 0 {
		errs = append(errs, errors.New("max posts per run must be positive"))
	}
	if c.Scheduler.CommitAttempts <= 0 {
		errs = append(errs, errors.New("commit attempts must be positive"))
	}
	if c.Scheduler.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Scheduler.WindowOpenHour < 0 || c.Scheduler.WindowOpenHour > 23 {
		errs = append(errs, errors.New("window open hour must be 0-23"))
	}
	if c.Scheduler.WindowCloseHour < 0 || c.Scheduler.WindowCloseHour > 23 {
		errs = append(errs, errors.New("window close hour must be 0-23"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	if c.Logging.RingSize <= 0 {
		errs = append(errs, errors.New("log ring size must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// Try to load .env (don't fail if it doesn't exist)
	_ = godotenv.Load(".env")

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
