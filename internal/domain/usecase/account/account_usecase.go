package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/usecase"
)

// maxReferralCodeAttempts bounds retries when a generated referral code collides
const maxReferralCodeAttempts = 5

// Config holds the signup rules
type Config struct {
	// SignupBonus is credited to every new account, in minor units
	SignupBonus int64
	// ReferralBonus is credited to the referrer of a new account, in minor units
	ReferralBonus int64
	// OperationTimeout bounds the data access of one call
	OperationTimeout coreport.Duration
}

// UseCase handles account lifecycle logic
type UseCase struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

var _ usecase.AccountUseCase = (*UseCase)(nil)

// NewUseCase creates a new account UseCase
func NewUseCase(
	uow persistence.UnitOfWork,
	ledger usecase.LedgerUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *UseCase {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * coreport.Second
	}
	return &UseCase{
		uow:          uow,
		ledger:       ledger,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "account"}),
		cfg:          cfg,
	}
}

// OpenAccount creates the account and, when a referral code is given, credits its owner
func (u *UseCase) OpenAccount(ctx context.Context, accountID uuid.UUID, referralCode string) (*entity.Account, error) {
	if accountID == uuid.Nil {
		return nil, errs.ErrInvalidAccountID
	}

	opCtx, cancel := u.timeProvider.WithTimeout(ctx, u.cfg.OperationTimeout)
	defer cancel()

	accounts := u.uow.GetAccountRepository(opCtx)

	var referrer *entity.Account
	if code := entity.NormalizeReferralCode(referralCode); code != "" {
		var err error
		referrer, err = accounts.GetByReferralCode(opCtx, code)
		if err != nil {
			return nil, fmt.Errorf("resolve referral code: %w", err)
		}
	}

	account, err := u.createWithUniqueCode(opCtx, accounts, accountID, referrer)
	if err != nil {
		u.logger.Error("Failed to open account", map[string]any{
			"account_id": accountID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Account opened", map[string]any{
		"account_id":    account.ID.String(),
		"referral_code": account.ReferralCode,
		"signup_bonus":  u.cfg.SignupBonus,
		"referred":      referrer != nil,
	})

	if referrer == nil {
		return account, nil
	}

	// the credit runs in its own transaction with its own timeout
	if _, err := u.ledger.CreditReferralBonus(ctx, referrer.ID, account.ID, u.cfg.ReferralBonus); err != nil {
		u.logger.Warn("Account opened but referral credit failed", map[string]any{
			"account_id":  account.ID.String(),
			"referrer_id": referrer.ID.String(),
			"error":       err.Error(),
			"retryable":   errs.IsRetryable(err),
		})
		return account, err
	}
	return account, nil
}

func (u *UseCase) createWithUniqueCode(
	ctx context.Context,
	accounts persistence.AccountRepository,
	accountID uuid.UUID,
	referrer *entity.Account,
) (*entity.Account, error) {
	var lastErr error
	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		account, err := entity.NewAccount(accountID, "", u.cfg.SignupBonus, u.timeProvider)
		if err != nil {
			return nil, err
		}
		if referrer != nil {
			if err := account.AttributeTo(referrer.ID); err != nil {
				return nil, err
			}
		}

		err = accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("generate unique referral code: %w", lastErr)
}

// AccountExists checks if an account with the given ID exists
func (u *UseCase) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	_, err := u.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SeedAccounts opens the given accounts unless they already exist
func (u *UseCase) SeedAccounts(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		exists, err := u.AccountExists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			u.logger.Debug("Seed account already exists", map[string]any{"account_id": id.String()})
			continue
		}
		if _, err := u.OpenAccount(ctx, id, ""); err != nil {
			return fmt.Errorf("seed account %s: %w", id, err)
		}
	}
	return nil
}
