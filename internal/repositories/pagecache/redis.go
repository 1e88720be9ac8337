package pagecache

import (
	"context"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/lenna/internal/errors"
	redisclient "github.com/KirkDiggler/lenna/internal/redis"
)

const pageKeyPrefix = "pagecache:"

type redisRepository struct {
	client redisclient.Client
	prefix string
}

// RedisConfig contains configuration for the Redis page cache.
type RedisConfig struct {
	Client redisclient.Client
	// KeyPrefix namespaces cache keys (optional, defaults to "pagecache:")
	KeyPrefix string
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed page cache. Entries never expire; the
// reconciler decides when they are stale.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = pageKeyPrefix
	}

	return &redisRepository{
		client: cfg.Client,
		prefix: prefix,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	id, err := validateGet(input)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("page %s not cached", id)
		}
		return nil, errors.Wrapf(err, "failed to get page %s", id)
	}

	entry, err := decodeEntry(id, data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	entry, err := validatePut(input)
	if err != nil {
		return nil, err
	}

	data, err := encodeEntry(entry)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, r.prefix+entry.PageID, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store page %s", entry.PageID)
	}

	slog.DebugContext(ctx, "stored page in redis", "page_id", entry.PageID, "updateable", entry.Updateable)
	return &PutOutput{Entry: entry}, nil
}
