package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/repository"
)

// RetryConfig holds configuration for startup retry loops
type RetryConfig struct {
	MaxAttempts   int
	RetryInterval time.Duration
	MaxInterval   time.Duration
}

// RetryOnConnectionError retries operation while it fails with connectivity errors.
// Ledger operations themselves are never retried here; callers decide.
func RetryOnConnectionError(ctx context.Context, cfg RetryConfig, operation func(ctx context.Context) error, logger coreport.Logger) error {
	classifier := repository.NewErrorClassifier()
	backoff := cfg.RetryInterval

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if !classifier.IsConnectionError(err) || attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn("Database unreachable, retrying", map[string]any{
			"attempt":     attempt,
			"of":          cfg.MaxAttempts,
			"error":       err.Error(),
			"retry_after": backoff.String(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff *= 2
		if cfg.MaxInterval > 0 && backoff > cfg.MaxInterval {
			backoff = cfg.MaxInterval
		}
	}
	return err
}
