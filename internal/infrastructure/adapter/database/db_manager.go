package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/database/migration"
)

// Manager manages database connections
type Manager struct {
	config            *Config
	db                *gorm.DB
	sqlDB             *sql.DB
	logger            coreport.Logger
	connectionMonitor *ConnectionPoolMonitor
	timeProvider      coreport.TimeProvider
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Connect opens the pool and waits until the database answers a ping
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"host": m.config.Host,
		"port": m.config.Port,
		"name": m.config.Database,
	})

	gormDB, err := gorm.Open(postgres.Open(m.config.DSN()), &gorm.Config{
		Logger:                 NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel),
		NowFunc:                func() time.Time { return m.timeProvider.Now() },
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	m.db = gormDB
	m.sqlDB = sqlDB

	retry := RetryConfig{
		MaxAttempts:   m.config.RetryAttempts,
		RetryInterval: m.config.RetryDelay,
		MaxInterval:   30 * time.Second,
	}
	if err := RetryOnConnectionError(ctx, retry, m.ping, m.logger); err != nil {
		_ = sqlDB.Close()
		m.db, m.sqlDB = nil, nil
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	m.connectionMonitor = NewConnectionPoolMonitor(sqlDB, m.logger, 30*time.Second)
	m.connectionMonitor.Start()

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":            m.config.Host,
		"name":            m.config.Database,
		"max_open_conns":  m.config.MaxOpenConns,
		"max_idle_conns":  m.config.MaxIdleConns,
		"lock_timeout_ms": m.config.LockTimeout.Milliseconds(),
	})

	return m.db, nil
}

func (m *Manager) ping(ctx context.Context) error {
	if m.sqlDB == nil {
		return fmt.Errorf("database is not connected")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.sqlDB.PingContext(pingCtx)
}

// Ping reports whether the database answers, used by the health endpoint
func (m *Manager) Ping(ctx context.Context) error {
	return m.ping(ctx)
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// SQLDB returns the underlying connection pool
func (m *Manager) SQLDB() *sql.DB {
	return m.sqlDB
}

// Migrate applies the embedded schema migrations
func (m *Manager) Migrate(ctx context.Context) error {
	mgr, err := m.MigrationManager()
	if err != nil {
		return err
	}
	return mgr.MigrateAll(ctx)
}

// MigrationManager returns a migration manager bound to this connection
func (m *Manager) MigrationManager() (*migration.MigrationManager, error) {
	if m.sqlDB == nil {
		return nil, fmt.Errorf("database is not connected")
	}
	return migration.NewMigrationManager(m.sqlDB, m.logger)
}

// CreateUnitOfWork creates a new UnitOfWork instance
func (m *Manager) CreateUnitOfWork() *UnitOfWork {
	return NewUnitOfWork(m.db, m.logger, m.timeProvider, coreport.Duration(m.config.LockTimeout))
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
	}
	if m.sqlDB == nil {
		return nil
	}
	return m.sqlDB.Close()
}
