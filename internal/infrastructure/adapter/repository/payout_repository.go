package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/model"
)

// PayoutRepository implements PayoutRepository interface using GORM
type PayoutRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

var _ persistence.PayoutRepository = (*PayoutRepository)(nil)

// NewPayoutRepository creates a new PayoutRepository instance
func NewPayoutRepository(db *gorm.DB, logger coreport.Logger) *PayoutRepository {
	return &PayoutRepository{db: db, logger: logger}
}

func payoutToModel(p *entity.PayoutRequest) model.PayoutRequest {
	return model.PayoutRequest{
		ID:               p.ID,
		AccountID:        p.AccountID,
		AmountRequested:  p.AmountRequested,
		DestinationEmail: p.DestinationEmail,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		ResolvedAt:       p.ResolvedAt,
	}
}

func payoutToEntity(m *model.PayoutRequest) *entity.PayoutRequest {
	return &entity.PayoutRequest{
		ID:               m.ID,
		AccountID:        m.AccountID,
		AmountRequested:  m.AmountRequested,
		DestinationEmail: m.DestinationEmail,
		Status:           entity.PayoutStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		ResolvedAt:       m.ResolvedAt,
	}
}

// Insert saves a new payout request
func (r *PayoutRepository) Insert(ctx context.Context, payout *entity.PayoutRequest) error {
	m := payoutToModel(payout)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Warn("Failed to insert payout request", map[string]any{
			"payout_id":  payout.ID.String(),
			"account_id": payout.AccountID.String(),
			"error":      err.Error(),
		})
		return MapError(err, errs.ErrAccountNotFound)
	}
	return nil
}

// GetByID retrieves a payout request
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error) {
	var m model.PayoutRequest
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapError(err, errs.ErrPayoutNotFound)
	}
	return payoutToEntity(&m), nil
}

// GetByIDForUpdate retrieves a payout request holding a FOR UPDATE row lock
func (r *PayoutRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error) {
	var m model.PayoutRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, MapError(err, errs.ErrPayoutNotFound)
	}
	return payoutToEntity(&m), nil
}

// ListByAccount returns the account's payout requests, newest first
func (r *PayoutRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.PayoutRequest, error) {
	var rows []model.PayoutRequest
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapError(err, errs.ErrAccountNotFound)
	}

	payouts := make([]*entity.PayoutRequest, 0, len(rows))
	for i := range rows {
		payouts = append(payouts, payoutToEntity(&rows[i]))
	}
	return payouts, nil
}

// UpdateStatus moves a payout from one status to another with a conditional UPDATE
func (r *PayoutRepository) UpdateStatus(ctx context.Context, payout *entity.PayoutRequest, from entity.PayoutStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.PayoutRequest{}).
		Where("id = ? AND status = ?", payout.ID, string(from)).
		Updates(map[string]any{
			"status":      string(payout.Status),
			"resolved_at": payout.ResolvedAt,
		})
	if result.Error != nil {
		return MapError(result.Error, errs.ErrPayoutNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, payout.ID); err != nil {
			return err
		}
		return errs.ErrConflict
	}
	return nil
}
