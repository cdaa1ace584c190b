package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// AccountUseCase handles account lifecycle operations
type AccountUseCase interface {
	// OpenAccount creates an account credited with the signup bonus. When referralCode
	// is not empty the owner of the code is credited with the referral bonus.
	// If the account was created but crediting failed, both the account and the
	// error are returned; the credit can be retried through the ledger.
	OpenAccount(ctx context.Context, accountID uuid.UUID, referralCode string) (*entity.Account, error)

	// AccountExists checks if an account exists with the given ID
	AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error)
}
