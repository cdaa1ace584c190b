package ledger

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/repository/inmemory"
	coremocks "github.com/amirhossein-jamali/referral-ledger/mocks/port/core"
)

var fixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

const (
	testBonus         = int64(1000)
	testMinimumPayout = int64(1000)
)

func newTimeProvider(t *testing.T) *coremocks.MockTimeProvider {
	tp := coremocks.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(fixedTime).Maybe()
	tp.EXPECT().WithTimeout(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, d core.Duration) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d.Std())
		}).Maybe()
	return tp
}

type fixture struct {
	store     *inmemory.Store
	service   *Service
	tp        *coremocks.MockTimeProvider
	publisher *recordingPublisher
	cache     *recordingCache
	metrics   *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	store := inmemory.NewStore()
	tp := newTimeProvider(t)
	publisher := &recordingPublisher{}
	cache := newRecordingCache()
	metrics := &recordingMetrics{}

	service := NewService(store, tp, logger.NewNoopLogger(), Config{
		MinimumPayout:    testMinimumPayout,
		OperationTimeout: 2 * core.Second,
	}, WithEventPublisher(publisher), WithSummaryCache(cache), WithMetrics(metrics))

	return &fixture{store: store, service: service, tp: tp, publisher: publisher, cache: cache, metrics: metrics}
}

// seedAccount creates an account holding exactly balance minor units
func (f *fixture) seedAccount(t *testing.T, balance int64, email string) *entity.Account {
	return f.seed(t, nil, balance, email)
}

// seedReferred creates an account opened with referrer's code
func (f *fixture) seedReferred(t *testing.T, referrer *entity.Account, balance int64) *entity.Account {
	return f.seed(t, referrer, balance, "")
}

func (f *fixture) seed(t *testing.T, referrer *entity.Account, balance int64, email string) *entity.Account {
	ctx := context.Background()
	account, err := entity.NewAccount(uuid.New(), "", 0, f.tp)
	require.NoError(t, err)
	if referrer != nil {
		require.NoError(t, account.AttributeTo(referrer.ID))
	}

	repo := f.store.GetAccountRepository(ctx)
	require.NoError(t, repo.Create(ctx, account))

	patch := persistence.AccountPatch{BalanceDelta: balance}
	if email != "" {
		patch.PayoutEmail = &email
	}
	updated, err := repo.Update(ctx, account.ID, patch)
	require.NoError(t, err)
	return updated
}

func (f *fixture) balanceOf(t *testing.T, id uuid.UUID) int64 {
	ctx := context.Background()
	account, err := f.store.GetAccountRepository(ctx).GetByID(ctx, id)
	require.NoError(t, err)
	return account.Balance()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []messaging.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.LedgerEvent(nil), p.events...)
}

// recordingCache mirrors the generation rules of the redis cache in memory
type recordingCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]entity.AccountSummary
	generations map[uuid.UUID]int
	invalidated []uuid.UUID
	skipped     int

	// beforeSet runs once, between the database read and the fill
	beforeSet func()
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		entries:     make(map[uuid.UUID]entity.AccountSummary),
		generations: make(map[uuid.UUID]int),
	}
}

func (c *recordingCache) Get(_ context.Context, id uuid.UUID) (*entity.AccountSummary, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	generation := strconv.Itoa(c.generations[id])
	if s, ok := c.entries[id]; ok {
		return &s, generation, nil
	}
	return nil, generation, nil
}

func (c *recordingCache) Set(_ context.Context, s *entity.AccountSummary, generation string) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if strconv.Itoa(c.generations[s.AccountID]) != generation {
		c.skipped++
		return nil
	}
	c.entries[s.AccountID] = *s
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, ids ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.generations[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	amounts  map[string]int64
}

func (m *recordingMetrics) ObserveOperation(operation, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[operation+"/"+result]++
}

func (m *recordingMetrics) AddAmount(direction string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.amounts == nil {
		m.amounts = make(map[string]int64)
	}
	m.amounts[direction] += amount
}

func (m *recordingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}
