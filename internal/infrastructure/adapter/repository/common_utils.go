package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ForeignKeyError   ErrorType = "foreign_key"
	CheckError        ErrorType = "check"
)

// Constraint names created by the schema migrations
const (
	ConstraintAccountsReferralCode = "accounts_referral_code_key"
	ConstraintReferralEdgesPkey    = "referral_edges_pkey"
)

// ErrorClassifier classifies driver errors by their SQLSTATE
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error, or "" when it has no special meaning
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	if c.IsConnectionError(err) {
		return ConnectionError
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return ""
	}

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		return DuplicateKeyError
	case pgErr.Code == pgerrcode.ForeignKeyViolation:
		return ForeignKeyError
	case pgErr.Code == pgerrcode.CheckViolation:
		return CheckError
	case c.IsLockError(err):
		return LockError
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a unique violation, optionally on a named constraint
func (c *ErrorClassifier) IsDuplicateKeyError(err error, constraint ...string) bool {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, name := range constraint {
		if pgErr.ConstraintName == name {
			return true
		}
	}
	return false
}

// IsLockError checks if the error comes from a lost race between transactions
func (c *ErrorClassifier) IsLockError(err error) bool {
	pgErr, ok := asPgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return true
	}
	return false
}

// IsConnectionError checks if the error is related to database connectivity or deadlines
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, driver.ErrBadConn) ||
		pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return false
	}
	return pgerrcode.IsConnectionException(pgErr.Code) ||
		pgErr.Code == pgerrcode.QueryCanceled ||
		pgErr.Code == pgerrcode.AdminShutdown ||
		pgErr.Code == pgerrcode.TooManyConnections
}

// MapError translates a database error into a domain error.
// notFound is returned for gorm.ErrRecordNotFound.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	switch NewErrorClassifier().Classify(err) {
	case ConnectionError:
		return fmt.Errorf("%w: %w", errs.ErrTransientIO, err)
	case LockError, DuplicateKeyError:
		return fmt.Errorf("%w: %w", errs.ErrConflict, err)
	case ForeignKeyError:
		return errs.ErrAccountNotFound
	case CheckError:
		return fmt.Errorf("%w: %w", errs.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%w: %w", errs.ErrInternalServer, err)
	}
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
