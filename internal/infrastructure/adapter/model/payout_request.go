package model

import (
	"time"

	"github.com/google/uuid"
)

// PayoutRequest represents the database model for payout requests
type PayoutRequest struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountRequested  int64     `gorm:"not null"`
	DestinationEmail string    `gorm:"size:254;not null"`
	Status           string    `gorm:"size:16;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	ResolvedAt       *time.Time
}

// TableName specifies the table name for PayoutRequest
func (PayoutRequest) TableName() string {
	return "payout_requests"
}
