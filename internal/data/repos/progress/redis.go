package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

type redisRepo struct {
	log       *logger.Logger
	rdb       *goredis.Client
	keyPrefix string
}

// NewRedisRepo keeps one hash per learner; hash fields are the progress keys.
func NewRedisRepo(addr, keyPrefix string, log *logger.Logger) (KVRepo, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if keyPrefix == "" {
		keyPrefix = "textbook:progress"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisRepo{
		log:       log.With("repo", "ProgressRedisRepo"),
		rdb:       rdb,
		keyPrefix: keyPrefix,
	}, nil
}

func (r *redisRepo) hashKey(learnerID uuid.UUID) string {
	return r.keyPrefix + ":" + learnerID.String()
}

func (r *redisRepo) Get(ctx context.Context, learnerID uuid.UUID, key string) ([]byte, bool, error) {
	raw, err := r.rdb.HGet(ctx, r.hashKey(learnerID), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *redisRepo) Put(ctx context.Context, learnerID uuid.UUID, key string, value []byte) error {
	return r.rdb.HSet(ctx, r.hashKey(learnerID), key, value).Err()
}

func (r *redisRepo) PutMany(ctx context.Context, learnerID uuid.UUID, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(entries))
	for k, v := range entries {
		values[k] = v
	}
	return r.rdb.HSet(ctx, r.hashKey(learnerID), values).Err()
}

func (r *redisRepo) List(ctx context.Context, learnerID uuid.UUID, prefix string) (map[string][]byte, error) {
	all, err := r.rdb.HGetAll(ctx, r.hashKey(learnerID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(all))
	for k, v := range all {
		if strings.HasPrefix(k, prefix) {
			out[k] = []byte(v)
		}
	}
	return out, nil
}

func (r *redisRepo) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
