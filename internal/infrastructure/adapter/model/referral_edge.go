package model

import (
	"time"

	"github.com/google/uuid"
)

// ReferralEdge represents the database model for referral edges.
// A referred account can appear at most once.
type ReferralEdge struct {
	ReferredID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReferrerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	BonusAmount int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for ReferralEdge
func (ReferralEdge) TableName() string {
	return "referral_edges"
}
