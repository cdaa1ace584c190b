package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/model"
)

// AccountRepository implements AccountRepository interface using GORM
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func accountToEntity(m *model.Account) *entity.Account {
	account := &entity.Account{
		ID:           m.ID,
		ReferralCode: m.ReferralCode,
		PayoutEmail:  m.PayoutEmail,
		ReferredBy:   m.ReferredBy,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	account.SetBalance(m.Balance)
	return account
}

// handleDatabaseError logs a failed statement and maps it to a domain error
func (r *AccountRepository) handleDatabaseError(operation string, err error, id uuid.UUID) error {
	mapped := MapError(err, errs.ErrAccountNotFound)
	if errors.Is(mapped, errs.ErrNotFound) {
		return mapped
	}
	r.logger.Warn("Database error when "+operation, map[string]any{
		"account_id": id.String(),
		"error":      err.Error(),
	})
	return mapped
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("getting account", err, id)
	}
	return accountToEntity(&m), nil
}

// GetByIDForUpdate retrieves an account holding a FOR UPDATE row lock
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking account", err, id)
	}
	return accountToEntity(&m), nil
}

// GetByReferralCode retrieves the account owning a referral code
func (r *AccountRepository) GetByReferralCode(ctx context.Context, code string) (*entity.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&m).Error
	if err != nil {
		return nil, MapError(err, errs.ErrReferralCodeNotFound)
	}
	return accountToEntity(&m), nil
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.logger.Debug("Creating account", map[string]any{
		"account_id":    account.ID.String(),
		"referral_code": account.ReferralCode,
		"balance":       account.Balance(),
	})

	m := model.Account{
		ID:           account.ID,
		ReferralCode: account.ReferralCode,
		PayoutEmail:  account.PayoutEmail,
		ReferredBy:   account.ReferredBy,
		Balance:      account.Balance(),
		Version:      account.Version,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	switch {
	case err == nil:
		return nil
	case r.errorClassifier.IsDuplicateKeyError(err, ConstraintAccountsReferralCode):
		return errs.ErrConflict
	case r.errorClassifier.IsDuplicateKeyError(err):
		return errs.ErrDuplicateAccount
	default:
		return r.handleDatabaseError("creating account", err, account.ID)
	}
}

// Update applies the patch in a single UPDATE ... RETURNING statement
func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, patch persistence.AccountPatch) (*entity.Account, error) {
	updates := map[string]any{
		"balance":    gorm.Expr("balance + ?", patch.BalanceDelta),
		"version":    gorm.Expr("version + 1"),
		"updated_at": r.timeProvider.Now(),
	}
	if patch.PayoutEmail != nil {
		updates["payout_email"] = *patch.PayoutEmail
	}

	query := r.db.WithContext(ctx).Where("id = ?", id)
	if patch.ExpectedVersion != 0 {
		query = query.Where("version = ?", patch.ExpectedVersion)
	}

	var m model.Account
	result := query.Model(&m).Clauses(clause.Returning{}).Updates(updates)
	if result.Error != nil {
		return nil, r.handleDatabaseError("updating account", result.Error, id)
	}

	if result.RowsAffected == 0 {
		if patch.ExpectedVersion == 0 {
			return nil, errs.ErrAccountNotFound
		}
		// Tell a missing row apart from a lost compare-and-swap
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		r.logger.Warn("Account version changed during update", map[string]any{
			"account_id":       id.String(),
			"expected_version": patch.ExpectedVersion,
		})
		return nil, errs.ErrConflict
	}

	return accountToEntity(&m), nil
}
