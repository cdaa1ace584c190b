package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents the database model for ledger accounts
type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferralCode string     `gorm:"size:16;not null"`
	PayoutEmail  string     `gorm:"size:254;not null;default:''"`
	ReferredBy   *uuid.UUID `gorm:"type:uuid"`
	Balance      int64      `gorm:"not null"` // minor units
	Version      int64      `gorm:"not null;default:1"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
