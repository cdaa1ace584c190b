package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	cacheport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

const keyPrefix = "summary:"

// minGenerationTTL keeps a generation alive far longer than any read that captured it
const minGenerationTTL = 24 * time.Hour

// setIfCurrent writes the summary only while the generation key still holds ARGV[1].
// KEYS[1] generation key, KEYS[2] entry key, ARGV[2] payload, ARGV[3] TTL in milliseconds.
var setIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or ''
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisSummaryCache stores account summaries as JSON strings with a TTL, guarded by a
// per-account generation token
type RedisSummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger coreport.Logger
}

var _ cacheport.SummaryCache = (*RedisSummaryCache)(nil)

// Connect creates a client and checks that the server answers
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisSummaryCache creates a summary cache on top of a redis client
func NewRedisSummaryCache(client redis.Cmdable, ttl time.Duration, logger coreport.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}
}

// Both keys of an account share a hash tag so they land in one cluster slot.
func summaryKey(accountID uuid.UUID) string {
	return keyPrefix + "{" + accountID.String() + "}"
}

func generationKey(accountID uuid.UUID) string {
	return summaryKey(accountID) + ":gen"
}

func (c *RedisSummaryCache) generationTTL() time.Duration {
	if c.ttl > minGenerationTTL {
		return c.ttl
	}
	return minGenerationTTL
}

// Get returns the cached summary or nil on a miss, together with the current generation
func (c *RedisSummaryCache) Get(ctx context.Context, accountID uuid.UUID) (*entity.AccountSummary, string, error) {
	values, err := c.client.MGet(ctx, summaryKey(accountID), generationKey(accountID)).Result()
	if err != nil {
		return nil, "", fmt.Errorf("redis mget: %w", err)
	}

	generation, _ := values[1].(string)
	data, ok := values[0].(string)
	if !ok {
		return nil, generation, nil
	}

	var summary entity.AccountSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		// A corrupt entry is treated as a miss and dropped
		c.logger.Warn("Discarding unreadable cached summary", map[string]any{
			"account_id": accountID.String(),
			"error":      err.Error(),
		})
		_ = c.client.Del(ctx, summaryKey(accountID)).Err()
		return nil, generation, nil
	}
	return &summary, generation, nil
}

// Set stores a summary until the TTL expires, unless the account was invalidated
// after generation was read
func (c *RedisSummaryCache) Set(ctx context.Context, summary *entity.AccountSummary, generation string) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{generationKey(summary.AccountID), summaryKey(summary.AccountID)},
		generation, data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if stored == 0 {
		c.logger.Debug("Skipped caching a superseded account summary", map[string]any{
			"account_id": summary.AccountID.String(),
		})
	}
	return nil
}

// Invalidate drops the cached summaries of the given accounts and rotates their generations
func (c *RedisSummaryCache) Invalidate(ctx context.Context, accountIDs ...uuid.UUID) error {
	if len(accountIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range accountIDs {
			pipe.Set(ctx, generationKey(id), uuid.NewString(), c.generationTTL())
			pipe.Del(ctx, summaryKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
