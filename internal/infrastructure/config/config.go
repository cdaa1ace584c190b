package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
	Auth        AuthConfig     `mapstructure:"auth"`
	NATS        NATSConfig     `mapstructure:"nats"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	LockTimeout     time.Duration `mapstructure:"lockTimeoutMs"`   // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LedgerConfig contains the money rules. Amounts are dollars with at most two decimals.
type LedgerConfig struct {
	Currency         string        `mapstructure:"currency"`
	SignupBonus      string        `mapstructure:"signupBonus"`
	ReferralBonus    string        `mapstructure:"referralBonus"`
	MinimumPayout    string        `mapstructure:"minimumPayout"`
	OperationTimeout time.Duration `mapstructure:"operationTimeoutMs"` // milliseconds
	SeedAccounts     []string      `mapstructure:"seedAccounts"`
}

// AuthConfig contains bearer token verification settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	Issuer    string `mapstructure:"issuer"`
}

// NATSConfig contains event bus settings; an empty URL disables the bus
type NATSConfig struct {
	URL             string `mapstructure:"url"`
	SubjectPrefix   string `mapstructure:"subjectPrefix"`
	SettlementQueue string `mapstructure:"settlementQueue"`
}

// RedisConfig contains summary cache settings; an empty address disables the cache
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SummaryTTL time.Duration `mapstructure:"summaryTtl"` // seconds
}

// MetricsConfig contains Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
