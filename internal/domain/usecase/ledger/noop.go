package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
)

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*entity.AccountSummary, string, error) {
	return nil, "", nil
}

func (noopCache) Set(context.Context, *entity.AccountSummary, string) error { return nil }

func (noopCache) Invalidate(context.Context, ...uuid.UUID) error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, messaging.LedgerEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string) {}

func (noopMetrics) AddAmount(string, int64) {}
