package database

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/config"
)

// Config represents database configuration
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LockTimeout     time.Duration
	LogLevel        string
	RetryAttempts   int
	RetryDelay      time.Duration
}

// NewConfig builds the database configuration from the application configuration
func NewConfig(db config.DatabaseConfig, logLevel string) (*Config, error) {
	port, err := strconv.Atoi(db.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid database port %q: %w", db.Port, err)
	}

	return &Config{
		Host:            db.Host,
		Port:            port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Database,
		SSLMode:         db.SSLMode,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnMaxIdleTime: db.ConnMaxIdleTime,
		LockTimeout:     db.LockTimeout,
		LogLevel:        logLevel,
		RetryAttempts:   db.RetryAttempts,
		RetryDelay:      db.RetryDelay,
	}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("database username is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
		"prefer":      true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must be non-negative, got: %d", c.MaxIdleConns)
	}
	if c.LockTimeout < 0 {
		return errors.New("lock timeout must be non-negative")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got: %d", c.RetryAttempts)
	}
	return nil
}

// DSN returns the database connection string as a postgres URL
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
