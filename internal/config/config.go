package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Mail      MailConfig      `mapstructure:"mail"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Firm      FirmConfig      `mapstructure:"firm"`
	Legal     LegalConfig     `mapstructure:"legal"`
}

type ServerConfig struct {
	Port      string `mapstructure:"SERVER_PORT"`
	Host      string `mapstructure:"SERVER_HOST"`
	Env       string `mapstructure:"ENV"`
	CronToken string `mapstructure:"CRON_TOKEN"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	DispatchSpec string `mapstructure:"SCHEDULER_DISPATCH_SPEC"`
	SweepSpec    string `mapstructure:"SCHEDULER_SWEEP_SPEC"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type MailConfig struct {
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	FromEmail    string `mapstructure:"MAIL_FROM_EMAIL"`
	FromName     string `mapstructure:"MAIL_FROM_NAME"`
}

type QueueConfig struct {
	BatchSize       int    `mapstructure:"QUEUE_BATCH_SIZE"`
	MaxAttempts     int    `mapstructure:"QUEUE_MAX_ATTEMPTS"`
	BackoffBase     string `mapstructure:"QUEUE_BACKOFF_BASE"`
	DispatchTimeout string `mapstructure:"QUEUE_DISPATCH_TIMEOUT"`
}

// FirmConfig identifies the law firm this deployment serves. The public
// intake endpoint attaches inquiries to the default organization.
type FirmConfig struct {
	OrganizationID string `mapstructure:"DEFAULT_ORGANIZATION_ID"`
	Name           string `mapstructure:"FIRM_NAME"`
	Email          string `mapstructure:"FIRM_EMAIL"`
	Phone          string `mapstructure:"FIRM_PHONE"`
	Address        string `mapstructure:"FIRM_ADDRESS"`
}

// LegalConfig carries jurisdiction constants. Prescription periods come from
// statute and change by jurisdiction, so they are configuration, not code.
type LegalConfig struct {
	CaseNumberPrefix         string `mapstructure:"CASE_NUMBER_PREFIX"`
	PrescriptionCard         int    `mapstructure:"PRESCRIPTION_MONTHS_CARD"`
	PrescriptionPersonalLoan int    `mapstructure:"PRESCRIPTION_MONTHS_PERSONAL_LOAN"`
	PrescriptionOverdraft    int    `mapstructure:"PRESCRIPTION_MONTHS_OVERDRAFT"`
	PrescriptionMortgage     int    `mapstructure:"PRESCRIPTION_MONTHS_MORTGAGE"`
	PrescriptionChattel      int    `mapstructure:"PRESCRIPTION_MONTHS_CHATTEL"`
	PrescriptionOther        int    `mapstructure:"PRESCRIPTION_MONTHS_OTHER"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_DISPATCH_SPEC", "0 * * * * *")
	viper.SetDefault("SCHEDULER_SWEEP_SPEC", "0 0 6 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Argentina/Cordoba")
	viper.SetDefault("QUEUE_BATCH_SIZE", 10)
	viper.SetDefault("QUEUE_MAX_ATTEMPTS", 3)
	viper.SetDefault("QUEUE_BACKOFF_BASE", "5m")
	viper.SetDefault("QUEUE_DISPATCH_TIMEOUT", "15s")
	viper.SetDefault("MAIL_FROM_NAME", "Estudio Jurídico RS")
	viper.SetDefault("FIRM_NAME", "Estudio Jurídico RS")
	viper.SetDefault("CASE_NUMBER_PREFIX", "CRP")
	viper.SetDefault("PRESCRIPTION_MONTHS_CARD", 36)
	viper.SetDefault("PRESCRIPTION_MONTHS_PERSONAL_LOAN", 60)
	viper.SetDefault("PRESCRIPTION_MONTHS_OVERDRAFT", 36)
	viper.SetDefault("PRESCRIPTION_MONTHS_MORTGAGE", 120)
	viper.SetDefault("PRESCRIPTION_MONTHS_CHATTEL", 60)
	viper.SetDefault("PRESCRIPTION_MONTHS_OTHER", 60)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Firm.OrganizationID == "" {
		return fmt.Errorf("DEFAULT_ORGANIZATION_ID is required")
	}

	if c.Queue.BatchSize <= 0 {
		return fmt.Errorf("QUEUE_BATCH_SIZE must be greater than 0")
	}

	if c.Queue.MaxAttempts <= 0 {
		return fmt.Errorf("QUEUE_MAX_ATTEMPTS must be greater than 0")
	}

	if _, err := time.ParseDuration(c.Queue.BackoffBase); err != nil {
		return fmt.Errorf("QUEUE_BACKOFF_BASE must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Queue.DispatchTimeout); err != nil {
		return fmt.Errorf("QUEUE_DISPATCH_TIMEOUT must be a valid duration: %w", err)
	}

	for category, months := range c.PrescriptionPeriods() {
		if months <= 0 {
			return fmt.Errorf("prescription period for %q must be greater than 0", category)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// PrescriptionPeriods returns the statute-of-limitations period in months per
// debt category. Keys match the domain debt category constants.
func (c *Config) PrescriptionPeriods() map[string]int {
	return map[string]int{
		"card":          c.Legal.PrescriptionCard,
		"personal_loan": c.Legal.PrescriptionPersonalLoan,
		"overdraft":     c.Legal.PrescriptionOverdraft,
		"mortgage":      c.Legal.PrescriptionMortgage,
		"chattel":       c.Legal.PrescriptionChattel,
		"other":         c.Legal.PrescriptionOther,
	}
}

// GetBackoffBase returns the retry backoff base as a duration
func (c *Config) GetBackoffBase() time.Duration {
	duration, _ := time.ParseDuration(c.Queue.BackoffBase)
	return duration
}

// GetDispatchTimeout returns the per-item dispatch timeout as a duration
func (c *Config) GetDispatchTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Queue.DispatchTimeout)
	return timeout
}
