package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

// MigrationManager applies the embedded schema migrations
type MigrationManager struct {
	provider *goose.Provider
	logger   coreport.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB, logger coreport.Logger) (*MigrationManager, error) {
	fsys, err := fs.Sub(embedMigrations, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose.NewProvider: %w", err)
	}

	return &MigrationManager{provider: provider, logger: logger}, nil
}

// MigrateAll applies every pending migration
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Starting database migrations", map[string]any{"current_version": current})

	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logger.Info("Applied migration", map[string]any{
			"version":     r.Source.Version,
			"file":        r.Source.Path,
			"duration_ms": r.Duration.Milliseconds(),
		})
	}
	if err != nil {
		m.logger.Error("Failed to apply migrations", map[string]any{"error": err.Error()})
		return fmt.Errorf("provider.Up: %w", err)
	}

	version, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Database migrations completed successfully", map[string]any{"version": version})
	return nil
}

// Reset rolls every migration back, used by integration tests
func (m *MigrationManager) Reset(ctx context.Context) error {
	if _, err := m.provider.DownTo(ctx, 0); err != nil {
		return fmt.Errorf("provider.DownTo: %w", err)
	}
	return nil
}

// GetCurrentVersion gets the current schema version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("provider.GetDBVersion: %w", err)
	}
	return version, nil
}
