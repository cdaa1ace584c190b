package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// LedgerAmounts are the ledger rules converted to minor units
type LedgerAmounts struct {
	SignupBonus   int64
	ReferralBonus int64
	MinimumPayout int64
}

// Amounts parses the configured dollar amounts
func (c LedgerConfig) Amounts() (LedgerAmounts, error) {
	signup, err := entity.ParseMajorUnits(c.SignupBonus)
	if err != nil {
		return LedgerAmounts{}, fmt.Errorf("ledger.signupBonus: %w", err)
	}
	referral, err := entity.ParseMajorUnits(c.ReferralBonus)
	if err != nil {
		return LedgerAmounts{}, fmt.Errorf("ledger.referralBonus: %w", err)
	}
	minimum, err := entity.ParseMajorUnits(c.MinimumPayout)
	if err != nil {
		return LedgerAmounts{}, fmt.Errorf("ledger.minimumPayout: %w", err)
	}
	return LedgerAmounts{SignupBonus: signup, ReferralBonus: referral, MinimumPayout: minimum}, nil
}

// SeedAccountIDs parses the configured seed account identifiers
func (c LedgerConfig) SeedAccountIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(c.SeedAccounts))
	for _, raw := range c.SeedAccounts {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger.seedAccounts: %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate ensures all required configuration values are present.
// It returns warnings for settings that are legal but unsafe in production.
func Validate(cfg *Config) (warnings []string, err error) {
	var missing []string

	switch cfg.Environment {
	case "":
		missing = append(missing, "environment")
	case Development, Production, Test:
	default:
		return nil, fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, Development, Production, Test)
	}

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}

	required := []struct{ key, value string }{
		{"database.host", cfg.Database.Host},
		{"database.port", cfg.Database.Port},
		{"database.username", cfg.Database.Username},
		{"database.password", cfg.Database.Password},
		{"database.database", cfg.Database.Database},
		{"auth.jwtSecret", cfg.Auth.JWTSecret},
		{"logger.level", cfg.Logger.Level},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}

	if cfg.Ledger.OperationTimeout <= 0 {
		missing = append(missing, "ledger.operationTimeoutMs")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configurations: %v", missing)
	}

	if !strings.EqualFold(cfg.Ledger.Currency, entity.Currency) {
		return nil, fmt.Errorf("unsupported ledger.currency %q, only %s is supported", cfg.Ledger.Currency, entity.Currency)
	}
	amounts, err := cfg.Ledger.Amounts()
	if err != nil {
		return nil, err
	}
	if amounts.ReferralBonus <= 0 {
		return nil, fmt.Errorf("ledger.referralBonus must be positive")
	}
	if _, err := cfg.Ledger.SeedAccountIDs(); err != nil {
		return nil, err
	}

	if cfg.Environment == Production {
		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			warnings = append(warnings, "auth.jwtSecret should be at least 32 bytes in production")
		}
		if len(cfg.Ledger.SeedAccounts) > 0 {
			warnings = append(warnings, "ledger.seedAccounts is set in production")
		}
	}

	return warnings, nil
}
