package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/model"
)

// ReferralRepository implements ReferralRepository interface using GORM
type ReferralRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

var _ persistence.ReferralRepository = (*ReferralRepository)(nil)

// NewReferralRepository creates a new ReferralRepository instance
func NewReferralRepository(db *gorm.DB, logger coreport.Logger) *ReferralRepository {
	return &ReferralRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Insert saves a new referral edge; the primary key on referred_id rejects a second edge
func (r *ReferralRepository) Insert(ctx context.Context, edge *entity.ReferralEdge) error {
	m := model.ReferralEdge{
		ReferredID:  edge.ReferredID,
		ReferrerID:  edge.ReferrerID,
		BonusAmount: edge.BonusAmount,
		CreatedAt:   edge.CreatedAt,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	if err == nil {
		return nil
	}
	if r.errorClassifier.IsDuplicateKeyError(err, ConstraintReferralEdgesPkey) {
		return errs.ErrDuplicateReferral
	}

	r.logger.Warn("Failed to insert referral edge", map[string]any{
		"referrer_id": edge.ReferrerID.String(),
		"referred_id": edge.ReferredID.String(),
		"error":       err.Error(),
	})
	return MapError(err, errs.ErrAccountNotFound)
}

// ListByReferrer returns the edges created by a referrer, newest first
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.ReferralEdge, error) {
	var rows []model.ReferralEdge
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapError(err, errs.ErrAccountNotFound)
	}

	edges := make([]*entity.ReferralEdge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, &entity.ReferralEdge{
			ReferrerID:  row.ReferrerID,
			ReferredID:  row.ReferredID,
			BonusAmount: row.BonusAmount,
			CreatedAt:   row.CreatedAt,
		})
	}
	return edges, nil
}

// CountByReferrer returns the number of accounts the referrer brought in
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReferralEdge{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	if err != nil {
		return 0, MapError(err, errs.ErrAccountNotFound)
	}
	return count, nil
}
