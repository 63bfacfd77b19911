package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"casino-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript faz leitura + incremento de forma atômica no Redis.
// Retorna {permitido (0/1), contagem, pttl em ms}.
// Negações não incrementam, igual ao MemoryStore.
var fixedWindowScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local ttl = redis.call('PTTL', KEYS[1])
if count == 0 or ttl < 0 then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[1])
  return {1, 1, tonumber(ARGV[1])}
end
if count >= tonumber(ARGV[2]) then
  return {0, count, ttl}
end
count = redis.call('INCR', KEYS[1])
return {1, count, ttl}
`)

// RedisStore é um contador de janela fixa compartilhado entre instâncias.
// A expiração fica a cargo do Redis (PX), então não há varredura.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "ratelimit"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implementa domain.Counter.
func (s *RedisStore) Take(ctx context.Context, key domain.Key, cfg domain.Config) (domain.Decision, error) {
	windowMs := cfg.Window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	res, err := fixedWindowScript.Run(ctx, s.rdb, []string{s.redisKey(key)}, windowMs, cfg.MaxRequests).Int64Slice()
	if err != nil {
		return domain.Decision{}, fmt.Errorf("redis fixed window: %w", err)
	}
	if len(res) != 3 {
		return domain.Decision{}, fmt.Errorf("redis fixed window: unexpected reply %v", res)
	}

	allowed, count, ttl := res[0] == 1, int(res[1]), time.Duration(res[2])*time.Millisecond
	if !allowed {
		return domain.Decision{Success: false, Remaining: 0, ResetIn: ttl, Limit: cfg.MaxRequests}, nil
	}
	return domain.Decision{
		Success:   true,
		Remaining: max(cfg.MaxRequests-count, 0),
		ResetIn:   ttl,
		Limit:     cfg.MaxRequests,
	}, nil
}

func (s *RedisStore) redisKey(key domain.Key) string {
	return s.prefix + ":" + string(key)
}
