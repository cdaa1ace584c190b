package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	timeprovider "github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for testing against a real PostgreSQL.
// Tests using it are skipped unless TEST_DB_HOST is set.
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager creates a new test database manager
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST is not set, skipping PostgreSQL integration test")
	}

	timeProvider := timeprovider.NewRealTimeProvider()

	config := &Config{
		Host:            host,
		Port:            getEnvIntOrDefault("TEST_DB_PORT", 5432),
		Username:        getEnvOrDefault("TEST_DB_USERNAME", "postgres"),
		Password:        getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		Database:        getEnvOrDefault("TEST_DB_DATABASE", "referral_ledger_test"),
		SSLMode:         getEnvOrDefault("TEST_DB_SSL_MODE", "disable"),
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		LockTimeout:     2 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
		RetryDelay:      time.Second,
	}

	return &TestDBManager{
		Manager:      NewManager(config, logger, timeProvider),
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// Connect connects to the test database and closes it when the test ends
func (m *TestDBManager) Connect(t *testing.T) {
	t.Helper()

	if _, err := m.Manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})
}

// SetupTestDB recreates the schema from the embedded migrations
func (m *TestDBManager) SetupTestDB(t *testing.T) {
	t.Helper()

	mgr, err := m.Manager.MigrationManager()
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}
	ctx := context.Background()
	if err := mgr.Reset(ctx); err != nil {
		t.Fatalf("Failed to reset schema: %v", err)
	}
	if err := mgr.MigrateAll(ctx); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
}

// TruncateAllTables removes every row from the ledger tables
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	if err := m.Manager.DB().Exec("TRUNCATE TABLE payout_requests, referral_edges, accounts CASCADE").Error; err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// CreateTestAccount creates an account holding balance minor units
func (m *TestDBManager) CreateTestAccount(t *testing.T, balance int64, email string) *entity.Account {
	t.Helper()

	ctx := context.Background()
	account, err := entity.NewAccount(uuid.New(), "", 0, m.TimeProvider)
	if err != nil {
		t.Fatalf("Failed to build test account: %v", err)
	}

	uow := m.Manager.CreateUnitOfWork()
	repo := uow.GetAccountRepository(ctx)
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	patch := persistence.AccountPatch{BalanceDelta: balance}
	if email != "" {
		patch.PayoutEmail = &email
	}
	updated, err := repo.Update(ctx, account.ID, patch)
	if err != nil {
		t.Fatalf("Failed to fund test account: %v", err)
	}
	return updated
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
