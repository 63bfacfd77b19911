package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSink publica submissões em streams do Redis para consumo assíncrono
// (moderação de reviews, CRM, analytics de cliques).
type RedisSink struct {
	rdb    *redis.Client
	prefix string
	maxLen int64
}

type RedisSinkOption func(*RedisSink)

func WithSinkPrefix(prefix string) RedisSinkOption {
	return func(s *RedisSink) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStreamMaxLen limita o tamanho aproximado de cada stream (0 = sem limite).
func WithStreamMaxLen(n int64) RedisSinkOption {
	return func(s *RedisSink) { s.maxLen = n }
}

func NewRedisSink(rdb *redis.Client, opts ...RedisSinkOption) *RedisSink {
	s := &RedisSink{rdb: rdb, prefix: "site", maxLen: 100_000}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSink) SaveContact(ctx context.Context, m ContactMessage) error {
	return s.publish(ctx, "contact", m)
}

// Subscribe só marca o email como inscrito se o evento chegou ao stream;
// se o XADD falhar o SADD é desfeito para a próxima tentativa publicar.
func (s *RedisSink) Subscribe(ctx context.Context, sub Subscriber) (bool, error) {
	setKey := s.prefix + ":newsletter:emails"
	email := strings.ToLower(sub.Email)

	added, err := s.rdb.SAdd(ctx, setKey, email).Result()
	if err != nil {
		return false, fmt.Errorf("newsletter sadd: %w", err)
	}
	if added == 0 {
		return false, nil
	}
	if err := s.publish(ctx, "newsletter", sub); err != nil {
		if rerr := s.rdb.SRem(context.WithoutCancel(ctx), setKey, email).Err(); rerr != nil {
			return false, errors.Join(err, fmt.Errorf("newsletter srem: %w", rerr))
		}
		return false, err
	}
	return true, nil
}

func (s *RedisSink) SaveReview(ctx context.Context, r Review) error {
	return s.publish(ctx, "reviews", r)
}

func (s *RedisSink) RecordClick(ctx context.Context, c Click) error {
	return s.publish(ctx, "clicks", c)
}

func (s *RedisSink) publish(ctx context.Context, stream string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stream, err)
	}
	args := &redis.XAddArgs{
		Stream: s.prefix + ":" + stream,
		Values: map[string]any{"payload": string(payload)},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}
	return nil
}
