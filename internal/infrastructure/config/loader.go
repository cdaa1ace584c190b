package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment variable override
const EnvPrefix = "RL"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"./configs/.env",
}

// LoadConfig loads configuration for the environment named by RL_ENV
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}
	return Load(getEnvironment(), ConfigPaths...)
}

// Load reads <env>.yaml from the first matching path and applies environment overrides
func Load(env string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 10)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30)
	v.SetDefault("database.connMaxIdleTime", 15)
	v.SetDefault("database.lockTimeoutMs", 2000)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("ledger.currency", "CAD")
	v.SetDefault("ledger.signupBonus", "10.00")
	v.SetDefault("ledger.referralBonus", "10.00")
	v.SetDefault("ledger.minimumPayout", "10.00")
	v.SetDefault("ledger.operationTimeoutMs", 3000)

	v.SetDefault("auth.issuer", "referral-ledger")

	v.SetDefault("nats.subjectPrefix", "ledger")
	v.SetDefault("nats.settlementQueue", "ledger-settlement")

	v.SetDefault("redis.summaryTtl", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// getEnvironment determines the environment to use based on RL_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides maps the short secret-bearing variable names onto config keys
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"DB_HOST":        "database.host",
		"DB_PORT":        "database.port",
		"DB_USERNAME":    "database.username",
		"DB_PASSWORD":    "database.password",
		"DB_NAME":        "database.database",
		"DB_SSL_MODE":    "database.sslMode",
		"JWT_SECRET":     "auth.jwtSecret",
		"NATS_URL":       "nats.url",
		"REDIS_ADDR":     "redis.addr",
		"REDIS_PASSWORD": "redis.password",
	}
	for name, key := range overrides {
		if value := os.Getenv(EnvPrefix + "_" + name); value != "" {
			v.Set(key, value)
		}
	}
}

// processDurations converts the raw integer durations into their units
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.LockTimeout = time.Duration(config.Database.LockTimeout) * time.Millisecond
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Ledger.OperationTimeout = time.Duration(config.Ledger.OperationTimeout) * time.Millisecond
	config.Redis.SummaryTTL = time.Duration(config.Redis.SummaryTTL) * time.Second
}
