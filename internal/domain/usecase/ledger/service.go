package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/usecase"
)

// Operation names used in logs and metrics
const (
	OpCreditReferralBonus  = "creditReferralBonus"
	OpSetPayoutDestination = "setPayoutDestination"
	OpRequestPayout        = "requestPayout"
	OpResolvePayout        = "resolvePayout"
	OpGetAccountSummary    = "getAccountSummary"
	OpListReferrals        = "listReferrals"
	OpListPayouts          = "listPayouts"
)

// Config holds the ledger rules
type Config struct {
	// MinimumPayout is the smallest balance, in minor units, that can be paid out
	MinimumPayout int64
	// OperationTimeout bounds every data access made by one operation
	OperationTimeout coreport.Duration
}

// Service implements usecase.LedgerUseCase on top of a unit of work
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	validator    *EmailValidator
	cache        cache.SummaryCache
	publisher    messaging.EventPublisher
	metrics      coreport.MetricsRecorder
	cfg          Config
}

var _ usecase.LedgerUseCase = (*Service)(nil)

// Option customizes optional collaborators of the service
type Option func(*Service)

// WithSummaryCache enables read-through caching of account summaries
func WithSummaryCache(c cache.SummaryCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithEventPublisher publishes ledger events after each commit
func WithEventPublisher(p messaging.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records operation outcomes and money movement
func WithMetrics(m coreport.MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new ledger service
func NewService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * coreport.Second
	}

	s := &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "ledger"}),
		validator:    NewEmailValidator(),
		cache:        noopCache{},
		publisher:    noopPublisher{},
		metrics:      noopMetrics{},
		cfg:          cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// withinTx runs fn inside a unit of work and commits when it returns nil
func (s *Service) withinTx(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.uow.Rollback(txCtx)
			panic(p)
		}
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Warn("Failed to rollback transaction", map[string]any{
					"error":          rbErr.Error(),
					"original_error": err.Error(),
				})
			}
		}
	}()

	if err = fn(txCtx); err != nil {
		return err
	}
	if err = s.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// normalizeError folds context expiry into ErrTransientIO so callers see a retryable kind
func normalizeError(err error) error {
	if err == nil || errs.IsTransientError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", errs.ErrTransientIO, err)
	}
	return err
}

// finish normalizes the error, records the outcome and logs failures
func (s *Service) finish(operation string, accountID uuid.UUID, err error) error {
	err = normalizeError(err)
	if err == nil {
		s.metrics.ObserveOperation(operation, coreport.ResultSuccess)
		return nil
	}

	fields := map[string]any{
		"operation":  operation,
		"account_id": accountID.String(),
		"error":      err.Error(),
		"error_code": errs.ErrorCode(err),
	}

	switch {
	case errs.IsRetryable(err):
		s.metrics.ObserveOperation(operation, coreport.ResultRetryable)
		s.logger.Warn("Ledger operation failed with retryable error", fields)
	case errs.ErrorCode(err) == errs.CodeInternalServer:
		s.metrics.ObserveOperation(operation, coreport.ResultError)
		s.logger.Error("Ledger operation failed", fields)
	default:
		s.metrics.ObserveOperation(operation, coreport.ResultRejected)
		s.logger.Debug("Ledger operation rejected", fields)
	}

	return errs.NewLedgerError(operation, accountID.String(), err)
}

// afterCommit invalidates cached summaries and publishes the event; neither can fail the operation
func (s *Service) afterCommit(ctx context.Context, event messaging.LedgerEvent, accountIDs ...uuid.UUID) {
	// Invalidation and publishing must not inherit the operation deadline.
	ctx = context.WithoutCancel(ctx)

	if err := s.cache.Invalidate(ctx, accountIDs...); err != nil {
		s.logger.Warn("Failed to invalidate account summary cache", map[string]any{
			"error":       err.Error(),
			"event_type":  string(event.Type),
			"account_ids": accountIDs,
		})
	}

	event.OccurredAt = s.timeProvider.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish ledger event", map[string]any{
			"error":      err.Error(),
			"event_type": string(event.Type),
			"account_id": event.AccountID,
		})
	}
}
