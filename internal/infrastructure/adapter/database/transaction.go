package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// txState tracks a transaction so Rollback after Commit is a no-op
type txState struct {
	tx   *gorm.DB
	done bool
}

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	lockTimeout  coreport.Duration
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a new UnitOfWork instance.
// A positive lockTimeout bounds how long a statement waits for a row lock.
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, lockTimeout coreport.Duration) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		lockTimeout:  lockTimeout,
	}
}

// Begin starts a SERIALIZABLE transaction and stores it in the returned context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", repository.MapError(tx.Error, nil))
	}

	if u.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", u.lockTimeout.Std().Milliseconds())
		if err := tx.Exec(stmt).Error; err != nil {
			tx.Rollback()
			u.logger.Error("Failed to set lock timeout", map[string]any{"error": err.Error()})
			return ctx, fmt.Errorf("failed to set lock timeout: %w", repository.MapError(err, nil))
		}
	}

	return context.WithValue(ctx, txKey, &txState{tx: tx}), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	state, ok := ctx.Value(txKey).(*txState)
	if !ok || state == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if state.done {
		return fmt.Errorf("transaction has already been committed or rolled back")
	}

	state.done = true
	if err := state.tx.Commit().Error; err != nil {
		u.logger.Warn("Failed to commit transaction", map[string]any{"error": err.Error()})
		// Serialization failures surface here under SERIALIZABLE
		return fmt.Errorf("failed to commit transaction: %w", repository.MapError(err, nil))
	}
	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	state, ok := ctx.Value(txKey).(*txState)
	if !ok || state == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if state.done {
		return nil
	}

	state.done = true
	err := state.tx.Rollback().Error
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.logger.Error("Failed to rollback transaction", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// GetAccountRepository returns an account repository in the current transaction
func (u *UnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return repository.NewAccountRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetReferralRepository returns a referral repository in the current transaction
func (u *UnitOfWork) GetReferralRepository(ctx context.Context) persistence.ReferralRepository {
	return repository.NewReferralRepository(u.getDbFromContext(ctx), u.logger)
}

// GetPayoutRepository returns a payout repository in the current transaction
func (u *UnitOfWork) GetPayoutRepository(ctx context.Context) persistence.PayoutRepository {
	return repository.NewPayoutRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext retrieves the transaction from context, falling back to the pool
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	if state, ok := ctx.Value(txKey).(*txState); ok && state != nil && !state.done {
		return state.tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}
